package handler

import (
	"net/http"

	"storefront/internal/model"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *credentialsRequest) validate() error {
	if r.Email == "" {
		return model.NewValidationError("email", "must not be empty")
	}
	if r.Password == "" {
		return model.NewValidationError("password", "must not be empty")
	}
	return nil
}

// sessionResponse is what the UI reads to decide between the account menu
// and the login prompt.
type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	Verifying     bool        `json:"verifying,omitempty"`
	User          *model.User `json:"user,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	sess, err := h.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		User:          &sess.User,
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	sess, err := h.session.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, sessionResponse{
		Authenticated: true,
		User:          &sess.User,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := h.session.Current()
	if sess == nil {
		h.writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}
	h.writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		Verifying:     h.session.Verifying(),
		User:          &sess.User,
	})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	token, err := h.requireSession()
	if err != nil {
		h.writeError(w, err)
		return
	}

	var fields map[string]string
	if err := decodeJSON(r, &fields); err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.backend.UpdateMe(r.Context(), token, fields)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Email == "" {
		h.writeError(w, model.NewValidationError("email", "must not be empty"))
		return
	}

	msg, err := h.backend.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

func (h *Handler) handleCheckResetToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Code == "" {
		h.writeError(w, model.NewValidationError("code", "must not be empty"))
		return
	}

	if err := h.backend.CheckResetToken(r.Context(), req.Code); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var req struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Password == "" {
		h.writeError(w, model.NewValidationError("password", "must not be empty"))
		return
	}
	if req.Password != req.ConfirmPassword {
		h.writeError(w, model.NewValidationError("confirmPassword", "passwords do not match"))
		return
	}

	if err := h.backend.ResetPassword(r.Context(), code, req.Password, req.ConfirmPassword); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
