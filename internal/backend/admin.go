package backend

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/model"
)

// Back-office operations. All of these proxy straight through to the
// backend's admin REST surface; authorization is enforced server-side.

// ListUsers returns all registered users.
func (c *Client) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/admin/users", nil, token)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool         `json:"success"`
		Users   []model.User `json:"users"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// SetUserBlocked blocks or unblocks an account.
func (c *Client) SetUserBlocked(ctx context.Context, token, userID string, blocked bool) error {
	action := "unblock"
	if blocked {
		action = "block"
	}
	path := "/admin/users/" + url.PathEscape(userID) + "/" + action
	req, err := c.newRequest(ctx, http.MethodPut, path, nil, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ListProducts returns the backend's managed catalog.
func (c *Client) ListProducts(ctx context.Context, token string) ([]model.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/products", nil, token)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success  bool            `json:"success"`
		Products []model.Product `json:"products"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CreateProduct adds a product to the backend catalog.
func (c *Client) CreateProduct(ctx context.Context, token string, p model.Product) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/products", p, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// UpdateProduct replaces a backend catalog entry.
func (c *Client) UpdateProduct(ctx context.Context, token, id string, p model.Product) error {
	req, err := c.newRequest(ctx, http.MethodPut, "/products/"+url.PathEscape(id), p, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DeleteProduct removes a backend catalog entry.
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DashboardStats returns the admin dashboard summary counters.
func (c *Client) DashboardStats(ctx context.Context, token string) (*model.DashboardStats, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/admin/dashboard/stats", nil, token)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool                 `json:"success"`
		Stats   model.DashboardStats `json:"stats"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// DashboardActivity returns recent activity entries for the dashboard.
func (c *Client) DashboardActivity(ctx context.Context, token string) ([]map[string]any, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/admin/dashboard/activity", nil, token)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success  bool             `json:"success"`
		Activity []map[string]any `json:"activity"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Activity, nil
}

// ListOrders returns all orders, optionally filtered by status.
func (c *Client) ListOrders(ctx context.Context, token, status string) ([]model.Order, error) {
	values := url.Values{}
	if status != "" && status != "all" {
		values.Set("status", status)
	}

	req, err := c.newRequest(ctx, http.MethodGet, queryPath("/admin/orders", values), nil, token)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool          `json:"success"`
		Orders  []model.Order `json:"orders"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// UpdateOrderStatus moves an order through the fulfillment pipeline.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID, status string) error {
	path := "/admin/orders/" + url.PathEscape(orderID) + "/status"
	req, err := c.newRequest(ctx, http.MethodPut, path, map[string]string{"status": status}, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
