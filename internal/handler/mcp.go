// MCP transport handler for the storefront gateway using the official MCP
// Go SDK. Exposes the shopping operations as agent tools, backed by the
// same singleton stores as the REST surface.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"storefront/internal/model"
)

// === MCP Tool Input/Output Types ===

// SearchProductsInput is the input schema for the search_products tool.
type SearchProductsInput struct {
	Query    string `json:"query,omitempty" jsonschema:"free-text search across name, category and description"`
	Category string `json:"category,omitempty" jsonschema:"restrict to one category: jeans, tshirt, tv, sofa"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
}

// SearchProductsOutput lists matching catalog products.
type SearchProductsOutput struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total" jsonschema:"total matches before the limit was applied"`
}

// GetProductInput is the input schema for the get_product tool.
type GetProductInput struct {
	ID string `json:"id" jsonschema:"product ID,required"`
}

// GetProductOutput carries one resolved product.
type GetProductOutput struct {
	Product model.Product `json:"product"`
}

// ViewCartInput is the (empty) input schema for the view_cart tool.
type ViewCartInput struct{}

// ViewCartOutput is the cart snapshot with derived totals.
type ViewCartOutput struct {
	Items      []model.CartItem `json:"items"`
	TotalItems int              `json:"totalItems"`
	TotalPrice float64          `json:"totalPrice"`
}

// AddToCartInput is the input schema for the add_to_cart tool.
type AddToCartInput struct {
	ProductID string `json:"product_id" jsonschema:"product ID,required"`
	Quantity  int    `json:"quantity,omitempty" jsonschema:"quantity to add, default 1"`
}

// StartCheckoutInput is the (empty) input schema for the start_checkout tool.
type StartCheckoutInput struct{}

// StartCheckoutOutput carries the hosted payment page URL.
type StartCheckoutOutput struct {
	PaymentLink string `json:"paymentLink" jsonschema:"hosted payment page URL to open in a browser"`
}

// NewMCPServer creates an MCP server with the shopping tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "storefront",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Storefront shopping operations. Use these tools to browse the " +
				"catalog, manage the cart, and start a checkout. Cart mutations require " +
				"the shopper to be logged in via the storefront itself.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_products",
		Description: "Search the product catalog by free text and/or category.",
	}, h.mcpSearchProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get one product by ID, including price and availability.",
	}, h.mcpGetProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "view_cart",
		Description: "View the current cart contents and totals.",
	}, h.mcpViewCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add a product to the cart. Fails with LOGIN_REQUIRED when no shopper is logged in.",
	}, h.mcpAddToCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_checkout",
		Description: "Start a checkout for the current cart and return the payment page URL.",
	}, h.mcpStartCheckout)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpSearchProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchProductsInput,
) (*mcp.CallToolResult, *SearchProductsOutput, error) {
	var products []model.Product
	switch {
	case input.Category != "":
		products = h.catalog.ByCategory(input.Category)
		if input.Query != "" {
			products = filterByQuery(products, input.Query)
		}
	case input.Query != "":
		products = h.catalog.Search(input.Query)
	default:
		products = h.catalog.List()
	}

	total := len(products)
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(products) > limit {
		products = products[:limit]
	}

	return nil, &SearchProductsOutput{Products: products, Total: total}, nil
}

func filterByQuery(products []model.Product, query string) []model.Product {
	var out []model.Product
	for _, p := range products {
		if containsFold(p.Name, query) || containsFold(p.Description, query) {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (h *Handler) mcpGetProduct(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetProductInput,
) (*mcp.CallToolResult, *GetProductOutput, error) {
	if input.ID == "" {
		return nil, nil, fmt.Errorf("id is required")
	}

	product, err := h.catalog.Get(ctx, input.ID)
	if err != nil {
		return nil, nil, err
	}
	return nil, &GetProductOutput{Product: *product}, nil
}

func (h *Handler) mcpViewCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ViewCartInput,
) (*mcp.CallToolResult, *ViewCartOutput, error) {
	items := h.cart.Items()
	if items == nil {
		items = []model.CartItem{}
	}
	return nil, &ViewCartOutput{
		Items:      items,
		TotalItems: h.cart.TotalItems(),
		TotalPrice: h.cart.TotalCents().Float(),
	}, nil
}

func (h *Handler) mcpAddToCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AddToCartInput,
) (*mcp.CallToolResult, *ViewCartOutput, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("product_id is required")
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	product, err := h.catalog.Get(ctx, input.ProductID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := h.cart.Add(ctx, *product, quantity); err != nil {
		return nil, nil, err
	}

	return h.mcpViewCart(ctx, req, ViewCartInput{})
}

func (h *Handler) mcpStartCheckout(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input StartCheckoutInput,
) (*mcp.CallToolResult, *StartCheckoutOutput, error) {
	link, err := h.checkout.Initiate(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, &StartCheckoutOutput{PaymentLink: link}, nil
}
