package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/model"
)

// authResponse is the backend envelope for login/register/me.
type authResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}

// statusResponse is the envelope for endpoints that only confirm an action.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login authenticates with email/password.
// Returns AUTH_ERROR for rejected credentials or a malformed envelope.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.Token == "" || resp.User == nil {
		return nil, model.NewAuthError("invalid response from server")
	}

	return &model.Session{User: *resp.User, Token: resp.Token}, nil
}

// Register creates a new account. The backend issues a token on success, so
// registration doubles as login.
func (c *Client) Register(ctx context.Context, email, password string) (*model.Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.Token == "" || resp.User == nil {
		return nil, model.NewAuthError("invalid response from server")
	}

	return &model.Session{User: *resp.User, Token: resp.Token}, nil
}

// Me verifies the bearer credential and returns the refreshed identity.
// An AUTH_ERROR here means the token was revoked or expired.
func (c *Client) Me(ctx context.Context, token string) (*model.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", nil, token)
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.User == nil {
		return nil, model.NewAuthError("token no longer valid")
	}

	return resp.User, nil
}

// UpdateMe updates the current user's profile fields.
func (c *Client) UpdateMe(ctx context.Context, token string, fields map[string]string) (*model.User, error) {
	req, err := c.newRequest(ctx, http.MethodPut, "/auth/me", fields, token)
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, model.NewUpstreamError("backend", fmt.Errorf("profile update rejected"))
	}
	return resp.User, nil
}

// ForgotPassword asks the backend to issue a reset code for the email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{
		"email": email,
	}, "")
	if err != nil {
		return "", err
	}

	var resp statusResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CheckResetToken validates a 4-digit reset code before showing the
// new-password form.
func (c *Client) CheckResetToken(ctx context.Context, code string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/check-reset-token", map[string]string{
		"code": code,
	}, "")
	if err != nil {
		return err
	}

	var resp statusResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return model.NewValidationError("code", resp.Message)
	}
	return nil
}

// ResetPassword finalizes a password reset with the validated code.
func (c *Client) ResetPassword(ctx context.Context, code, password, confirm string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/reset-password/"+url.PathEscape(code), map[string]string{
		"password":        password,
		"confirmPassword": confirm,
	}, "")
	if err != nil {
		return err
	}

	var resp statusResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return model.NewValidationError("password", resp.Message)
	}
	return nil
}
