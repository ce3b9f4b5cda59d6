package handler

import (
	"net/http"

	"storefront/internal/model"
)

// cartResponse is the cart snapshot plus the derived totals the UI renders
// in the cart badge and summary.
type cartResponse struct {
	Items      []model.CartItem `json:"items"`
	TotalItems int              `json:"totalItems"`
	TotalPrice float64          `json:"totalPrice"`
}

func (h *Handler) cartSnapshot() cartResponse {
	items := h.cart.Items()
	if items == nil {
		items = []model.CartItem{}
	}
	return cartResponse{
		Items:      items,
		TotalItems: h.cart.TotalItems(),
		TotalPrice: h.cart.TotalCents().Float(),
	}
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.cartSnapshot())
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.ProductID == "" {
		h.writeError(w, model.NewValidationError("productId", "must not be empty"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.cart.Add(r.Context(), *product, req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handler) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	h.cart.UpdateQuantity(r.Context(), productID, req.Quantity)
	h.writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.cart.Remove(r.Context(), r.PathValue("productId"))
	h.writeJSON(w, http.StatusOK, h.cartSnapshot())
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	h.writeJSON(w, http.StatusOK, h.cartSnapshot())
}

// handleReplaceCart implements full PUT semantics: the request carries the
// complete desired cart, and the store reconciles the delta against the
// backend.
func (h *Handler) handleReplaceCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []model.CartItem `json:"items"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.cart.Replace(r.Context(), req.Items); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.cartSnapshot())
}
