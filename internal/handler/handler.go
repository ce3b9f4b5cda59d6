// Package handler provides the HTTP surface of the storefront gateway.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/model"
	"storefront/internal/session"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	session  *session.Store
	cart     *cart.Store
	checkout *checkout.Initiator
	catalog  *catalog.Provider
	backend  *backend.Client
	logger   *slog.Logger
}

// New creates a Handler wired to the singleton stores.
func New(
	sess *session.Store,
	crt *cart.Store,
	chk *checkout.Initiator,
	cat *catalog.Provider,
	api *backend.Client,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		session:  sess,
		cart:     crt,
		checkout: chk,
		catalog:  cat,
		backend:  api,
		logger:   logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/logout", h.handleLogout)
	mux.HandleFunc("GET /auth/session", h.handleSession)
	mux.HandleFunc("PUT /auth/profile", h.handleUpdateProfile)
	mux.HandleFunc("POST /auth/forgot-password", h.handleForgotPassword)
	mux.HandleFunc("POST /auth/check-reset-token", h.handleCheckResetToken)
	mux.HandleFunc("POST /auth/reset-password/{code}", h.handleResetPassword)

	// Catalog
	mux.HandleFunc("GET /products", h.handleListProducts)
	mux.HandleFunc("GET /products/featured", h.handleFeaturedProducts)
	mux.HandleFunc("GET /products/categories", h.handleCategories)
	mux.HandleFunc("GET /products/category/{category}", h.handleProductsByCategory)
	mux.HandleFunc("GET /products/{id}", h.handleGetProduct)

	// Cart
	mux.HandleFunc("GET /cart", h.handleGetCart)
	mux.HandleFunc("PUT /cart", h.handleReplaceCart)
	mux.HandleFunc("POST /cart/items", h.handleAddCartItem)
	mux.HandleFunc("PUT /cart/items/{productId}", h.handleUpdateCartItem)
	mux.HandleFunc("DELETE /cart/items/{productId}", h.handleRemoveCartItem)
	mux.HandleFunc("DELETE /cart", h.handleClearCart)

	// Checkout and payment return legs
	mux.HandleFunc("POST /checkout", h.handleCheckout)
	mux.HandleFunc("GET /payment/success", h.handlePaymentSuccess)
	mux.HandleFunc("GET /payment/cancel", h.handlePaymentCancel)
	mux.HandleFunc("GET /orders", h.handleOrders)

	// Recommendations and aggregated listings
	mux.HandleFunc("POST /chat", h.handleChat)
	mux.HandleFunc("GET /scraped-products", h.handleScrapedProducts)

	// Back-office
	mux.HandleFunc("GET /admin/users", h.handleAdminListUsers)
	mux.HandleFunc("PUT /admin/users/{id}/block", h.handleAdminBlockUser)
	mux.HandleFunc("PUT /admin/users/{id}/unblock", h.handleAdminUnblockUser)
	mux.HandleFunc("GET /admin/products", h.handleAdminListProducts)
	mux.HandleFunc("POST /admin/products", h.handleAdminCreateProduct)
	mux.HandleFunc("PUT /admin/products/{id}", h.handleAdminUpdateProduct)
	mux.HandleFunc("DELETE /admin/products/{id}", h.handleAdminDeleteProduct)
	mux.HandleFunc("GET /admin/dashboard/stats", h.handleAdminStats)
	mux.HandleFunc("GET /admin/dashboard/activity", h.handleAdminActivity)
	mux.HandleFunc("GET /admin/orders", h.handleAdminListOrders)
	mux.HandleFunc("PUT /admin/orders/{id}/status", h.handleAdminOrderStatus)

	// MCP transport - shopping tools over JSON-RPC using the official SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"authenticated": h.session.IsAuthenticated(),
	})
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	// Limit request body size to prevent DoS
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// requireSession returns the bearer token, or a LOGIN_REQUIRED error when no
// session is active.
func (h *Handler) requireSession() (string, error) {
	token := h.session.Token()
	if token == "" {
		return "", model.NewLoginRequiredError()
	}
	return token, nil
}

// requireAdmin returns the bearer token only for an authenticated admin.
// The backend re-checks authorization on every relayed call; this gate just
// gives non-admins a clean local error.
func (h *Handler) requireAdmin() (string, error) {
	sess := h.session.Current()
	if sess == nil {
		return "", model.NewLoginRequiredError()
	}
	if !sess.User.IsAdmin() {
		return "", model.NewAuthError("admin access required")
	}
	return sess.Token, nil
}
