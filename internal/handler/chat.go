package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/backend"
	"storefront/internal/model"
)

// handleChat relays a free-text message to the backend recommender.
// Display and relay only; no local interpretation of the reply.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Message == "" {
		h.writeError(w, model.NewValidationError("message", "must not be empty"))
		return
	}

	reply, err := h.backend.Chat(r.Context(), req.Message)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, reply)
}

// handleScrapedProducts relays the external-aggregated listings with
// search/source/pagination filters passed through.
func (h *Handler) handleScrapedProducts(w http.ResponseWriter, r *http.Request) {
	q := backend.ScrapedQuery{
		Search: r.URL.Query().Get("search"),
		Source: r.URL.Query().Get("source"),
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, model.NewValidationError("page", "must be a positive integer"))
			return
		}
		q.Page = n
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, model.NewValidationError("limit", "must be a positive integer"))
			return
		}
		q.Limit = n
	}

	page, err := h.backend.ScrapedProducts(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, page)
}
