package handler

import (
	"net/http"

	"storefront/internal/model"
)

// Back-office handlers. Each one relays to the backend's admin surface with
// the current admin's bearer token; the backend is the authority on what an
// admin may do.

func (h *Handler) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	users, err := h.backend.ListUsers(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) handleAdminBlockUser(w http.ResponseWriter, r *http.Request) {
	h.setUserBlocked(w, r, true)
}

func (h *Handler) handleAdminUnblockUser(w http.ResponseWriter, r *http.Request) {
	h.setUserBlocked(w, r, false)
}

func (h *Handler) setUserBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.backend.SetUserBlocked(r.Context(), token, r.PathValue("id"), blocked); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleAdminListProducts(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	products, err := h.backend.ListProducts(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, productsResponse{Products: products, Total: len(products)})
}

func (h *Handler) handleAdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	var product model.Product
	if err := decodeJSON(r, &product); err != nil {
		h.writeError(w, err)
		return
	}
	if product.Name == "" {
		h.writeError(w, model.NewValidationError("name", "must not be empty"))
		return
	}
	if product.Price <= 0 {
		h.writeError(w, model.NewValidationError("price", "must be positive"))
		return
	}

	if err := h.backend.CreateProduct(r.Context(), token, product); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *Handler) handleAdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	var product model.Product
	if err := decodeJSON(r, &product); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.backend.UpdateProduct(r.Context(), token, r.PathValue("id"), product); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleAdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.backend.DeleteProduct(r.Context(), token, r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	stats, err := h.backend.DashboardStats(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (h *Handler) handleAdminActivity(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	activity, err := h.backend.DashboardActivity(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"activity": activity})
}

func (h *Handler) handleAdminListOrders(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	orders, err := h.backend.ListOrders(r.Context(), token, r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) handleAdminOrderStatus(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireAdmin()
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Status == "" {
		h.writeError(w, model.NewValidationError("status", "must not be empty"))
		return
	}

	if err := h.backend.UpdateOrderStatus(r.Context(), token, r.PathValue("id"), req.Status); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
