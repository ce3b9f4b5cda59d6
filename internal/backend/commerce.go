package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/model"
)

// CreatePayment exchanges the cart contents for a hosted payment page URL.
// The payment page redirects the shopper back to the supplied success and
// cancel URLs; no payment state is kept client-side.
func (c *Client) CreatePayment(ctx context.Context, token string, items []model.CartItem, total model.Cents, successURL, cancelURL string) (string, error) {
	body := map[string]any{
		"items":       items,
		"totalAmount": total.Float(),
	}
	if successURL != "" {
		body["successUrl"] = successURL
	}
	if cancelURL != "" {
		body["cancelUrl"] = cancelURL
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/payment/create", body, token)
	if err != nil {
		return "", err
	}

	var resp struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		PaymentLink string `json:"paymentLink"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}

	if !resp.Success || resp.PaymentLink == "" {
		return "", model.NewPaymentInitError("no payment link received")
	}
	return resp.PaymentLink, nil
}

// Orders returns the authenticated user's order history.
func (c *Client) Orders(ctx context.Context, token string) ([]model.Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/payment/orders", nil, token)
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

// Chat relays a free-text query to the product recommender and returns the
// reply with any product suggestions. Pure display+relay; no local NLU.
func (c *Client) Chat(ctx context.Context, message string) (*model.ChatReply, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/chatbot/chat", map[string]string{
		"message": message,
	}, "")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success             bool            `json:"success"`
		Response            string          `json:"response"`
		RecommendedProducts []model.Product `json:"recommendedProducts"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	return &model.ChatReply{
		Response:            resp.Response,
		RecommendedProducts: resp.RecommendedProducts,
	}, nil
}

// ScrapedQuery filters the external-aggregated listings.
type ScrapedQuery struct {
	Search string
	Source string
	Page   int
	Limit  int
}

// ScrapedPage is one page of aggregated listings.
type ScrapedPage struct {
	Products   []model.ScrapedProduct `json:"products"`
	Total      int                    `json:"total"`
	TotalPages int                    `json:"totalPages"`
	Sources    []string               `json:"sources"`
}

// ScrapedProducts lists backend-aggregated external products.
func (c *Client) ScrapedProducts(ctx context.Context, q ScrapedQuery) (*ScrapedPage, error) {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Source != "" {
		values.Set("source", q.Source)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	req, err := c.newRequest(ctx, http.MethodGet, queryPath("/api/scraped-products", values), nil, "")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool `json:"success"`
		ScrapedPage
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.ScrapedPage, nil
}

// GetProduct fetches one catalog product from the backend.
// Used as the fallback for IDs the generated catalog doesn't carry.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool           `json:"success"`
		Product *model.Product `json:"product"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, model.NewNotFoundError("product")
	}
	return resp.Product, nil
}
