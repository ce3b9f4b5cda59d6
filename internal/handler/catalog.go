package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/model"
)

type productsResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	var products []model.Product

	switch {
	case r.URL.Query().Get("search") != "":
		products = h.catalog.Search(r.URL.Query().Get("search"))
	case r.URL.Query().Get("filter") == "new":
		products = h.catalog.NewArrivals()
	case r.URL.Query().Get("filter") == "sale":
		products = h.catalog.OnSale()
	default:
		products = h.catalog.List()
	}

	h.writeJSON(w, http.StatusOK, productsResponse{
		Products: products,
		Total:    len(products),
	})
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (h *Handler) handleFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	limit := 8
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, model.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	products := h.catalog.Featured(limit)
	h.writeJSON(w, http.StatusOK, productsResponse{
		Products: products,
		Total:    len(products),
	})
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"categories": h.catalog.Categories(),
	})
}

func (h *Handler) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	products := h.catalog.ByCategory(category)
	if len(products) == 0 {
		h.writeError(w, model.NewNotFoundError("category"))
		return
	}
	h.writeJSON(w, http.StatusOK, productsResponse{
		Products: products,
		Total:    len(products),
	})
}
