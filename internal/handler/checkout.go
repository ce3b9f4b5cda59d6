package handler

import (
	"net/http"
)

// handleCheckout starts a payment attempt and returns the hosted payment
// page URL for the UI to redirect to.
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	link, err := h.checkout.Initiate(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"paymentLink": link,
	})
}

// handlePaymentSuccess is the success return leg. Arriving here is treated
// as proof of payment; every visit clears the cart. This route never answers
// LOGIN_REQUIRED, whatever the session state: the shopper may return from
// the payment page after the session expired and must still see the
// confirmation.
func (h *Handler) handlePaymentSuccess(w http.ResponseWriter, r *http.Request) {
	h.checkout.CompleteSuccess(r.Context())

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "payment completed, thank you for your order",
		"cart":    h.cartSnapshot(),
	})
}

// handlePaymentCancel is the cancel return leg. The cart is untouched so
// the shopper can resume where they left off. Like the success leg, never
// answers LOGIN_REQUIRED.
func (h *Handler) handlePaymentCancel(w http.ResponseWriter, r *http.Request) {
	h.checkout.Cancel()

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "cancelled",
		"message": "payment cancelled, your cart is unchanged",
		"cart":    h.cartSnapshot(),
	})
}

func (h *Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkout.Orders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
