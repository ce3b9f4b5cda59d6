// Package backend is the HTTP client for the external storefront backend.
// All business logic (persistence, payments, reset codes, chatbot inference,
// scraping) lives behind this REST API; the client only shapes requests and
// maps responses onto the domain model.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/transport"
)

const userAgent = "storefront-client/1.0"

// Config holds backend client configuration.
type Config struct {
	BaseURL  string
	AdminKey string // Optional back-office key, sent as X-Admin-Key

	// BrowserTLS switches outbound calls to the Chrome-fingerprint
	// transport. Needed when the backend's CDN rate limits on JA3.
	BrowserTLS bool

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the backend REST API.
// Methods taking a token inject it as a Bearer credential; the client itself
// holds no session state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	adminKey   string
}

// New creates a backend client with the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
		if cfg.BrowserTLS {
			httpClient.Transport = transport.NewChromeTransport(30 * time.Second)
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		adminKey:   cfg.AdminKey,
	}, nil
}

// newRequest builds a JSON request against the backend.
// token may be empty for unauthenticated endpoints.
func (c *Client) newRequest(ctx context.Context, method, path string, body any, token string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.adminKey != "" {
		req.Header.Set("X-Admin-Key", c.adminKey)
	}

	return req, nil
}

// do executes the request and decodes the JSON response into out (may be nil).
//
// Error mapping follows the response shape, not just the status code:
//   - transport failure or a non-JSON body → NETWORK_ERROR (the backend is
//     down or something between us answered with an error page)
//   - HTTP failure with a JSON body → mapped onto the error taxonomy using
//     the envelope's message/errors fields
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return model.NewNetworkError(err)
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return model.NewNetworkError(fmt.Errorf("unexpected content type %q (HTTP %d)", ct, resp.StatusCode))
	}

	if resp.StatusCode >= 400 {
		return mapHTTPError(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return model.NewUpstreamError("backend", fmt.Errorf("decoding response: %w", err))
		}
	}

	return nil
}

// mapHTTPError converts an HTTP-level failure into a domain error.
func mapHTTPError(status int, body []byte) error {
	var envelope struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	// Decode failures fall through to the status-based mapping below.
	_ = json.Unmarshal(body, &envelope)

	if len(envelope.Errors) > 0 {
		return model.NewValidationErrors(envelope.Errors)
	}

	msg := envelope.Message
	if msg == "" {
		msg = fmt.Sprintf("backend returned HTTP %d", status)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.NewAuthError(msg)
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return model.NewValidationError("request", msg)
	case http.StatusNotFound:
		return model.NewNotFoundError("resource")
	case http.StatusPaymentRequired:
		return model.NewPaymentInitError(msg)
	default:
		return model.NewUpstreamError("backend", fmt.Errorf("%s", msg))
	}
}

// queryPath appends URL query values to a path.
func queryPath(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
