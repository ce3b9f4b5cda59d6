package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginRequired      = errors.New("login required")
	ErrNetwork            = errors.New("network failure")
	ErrPaymentInit        = errors.New("payment initialization failed")
	ErrUpstreamError      = errors.New("upstream error")
)

// APIError represents a structured error for API responses.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"` // Per-field messages for validation errors
	StatusCode int      `json:"-"`                 // HTTP status, not serialized
	Err        error    `json:"-"`                 // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a 404 error for missing resources.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Err:        ErrNotFound,
	}
}

// NewValidationError creates a 400 error for a single invalid field.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewValidationErrors creates a 400 error carrying an aggregated,
// user-displayable list of violations (e.g. the password policy failures
// returned by the backend's register endpoint).
func NewValidationErrors(details []string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    strings.Join(details, ", "),
		Details:    details,
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewAuthError creates a 401 error for credential failures:
// bad email/password, duplicate registration, expired or revoked token.
func NewAuthError(reason string) *APIError {
	return &APIError{
		Code:       "AUTH_ERROR",
		Message:    reason,
		StatusCode: 401,
		Err:        ErrInvalidCredentials,
	}
}

// NewLoginRequiredError creates a 401 error signalling that the attempted
// operation needs an authenticated session. Distinct from AUTH_ERROR so the
// UI opens the login prompt instead of showing a failure message.
func NewLoginRequiredError() *APIError {
	return &APIError{
		Code:       "LOGIN_REQUIRED",
		Message:    "please log in to continue",
		StatusCode: 401,
		Err:        ErrLoginRequired,
	}
}

// NewNetworkError creates a 502 error for connectivity failures.
// Used when the backend could not be reached at all, or answered with a
// non-JSON body (connection refused, proxy error page, etc.).
func NewNetworkError(err error) *APIError {
	return &APIError{
		Code:       "NETWORK_ERROR",
		Message:    "could not reach the backend service",
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrNetwork, err),
	}
}

// NewPaymentInitError creates a 402 error for checkout initiation failures:
// empty cart, missing session, or backend decline.
func NewPaymentInitError(reason string) *APIError {
	return &APIError{
		Code:       "PAYMENT_INIT_ERROR",
		Message:    reason,
		StatusCode: 402,
		Err:        ErrPaymentInit,
	}
}

// NewUpstreamError creates a 502 error for backend failures.
func NewUpstreamError(service string, err error) *APIError {
	return &APIError{
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("%s request failed", service),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrUpstreamError, err),
	}
}

// IsAuthFailure reports whether err is a definitive credential rejection,
// as opposed to a transient network or upstream failure.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}
