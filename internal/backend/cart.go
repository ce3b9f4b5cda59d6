package backend

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/model"
)

// cartResponse is the backend envelope for cart reads.
type cartResponse struct {
	Success bool `json:"success"`
	Cart    struct {
		Items []model.CartItem `json:"items"`
	} `json:"cart"`
}

// GetCart loads the remote cart for a user.
func (c *Client) GetCart(ctx context.Context, userID string) ([]model.CartItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/cart/"+url.PathEscape(userID), nil, "")
	if err != nil {
		return nil, err
	}

	var resp cartResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Cart.Items, nil
}

// AddCartItem upserts an item into the remote cart. The backend increments
// quantity when the product is already present.
func (c *Client) AddCartItem(ctx context.Context, userID string, item model.CartItem) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/cart/"+url.PathEscape(userID)+"/add", item, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// SetCartItemQuantity replaces the quantity for one product line.
func (c *Client) SetCartItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	path := "/cart/" + url.PathEscape(userID) + "/item/" + url.PathEscape(productID)
	req, err := c.newRequest(ctx, http.MethodPut, path, map[string]int{"quantity": quantity}, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// RemoveCartItem deletes one product line from the remote cart.
func (c *Client) RemoveCartItem(ctx context.Context, userID, productID string) error {
	path := "/cart/" + url.PathEscape(userID) + "/item/" + url.PathEscape(productID)
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ClearCart empties the remote cart.
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/cart/"+url.PathEscape(userID)+"/clear", nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
