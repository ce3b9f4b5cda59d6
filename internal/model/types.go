// Package model defines the domain types shared across the storefront client:
// products, cart items, sessions, orders, and the error taxonomy.
package model

import (
	"encoding/json"
	"time"
)

// User is the authenticated identity returned by the backend.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status,omitempty"`
	Name   string `json:"name,omitempty"`
}

// IsAdmin reports whether the user may access the back-office routes.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// Session is the client's record of the currently authenticated identity
// and its bearer credential. Created on login/registration, destroyed on
// logout or credential rejection by the backend.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Product is an immutable catalog entry. Generated at load time or fetched
// read-only from the backend; the storefront never mutates it outside the
// admin product-management flows.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         Cents  `json:"-"`
	OriginalPrice Cents  `json:"-"` // 0 when the product is not discounted
	Image         string `json:"image"`
	Category      string `json:"category"`
	Description   string `json:"description,omitempty"`
	IsNew         bool   `json:"isNew,omitempty"`
	InStock       bool   `json:"inStock"`
}

// productJSON is the wire shape: prices travel as decimal numbers.
type productJSON struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	Description   string   `json:"description,omitempty"`
	IsNew         bool     `json:"isNew,omitempty"`
	InStock       bool     `json:"inStock"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	out := productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.Float(),
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		IsNew:       p.IsNew,
		InStock:     p.InStock,
	}
	if p.OriginalPrice > 0 {
		f := p.OriginalPrice.Float()
		out.OriginalPrice = &f
	}
	return json.Marshal(out)
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var in productJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.ID = in.ID
	p.Name = in.Name
	p.Price = CentsFromFloat(in.Price)
	if in.OriginalPrice != nil {
		p.OriginalPrice = CentsFromFloat(*in.OriginalPrice)
	} else {
		p.OriginalPrice = 0
	}
	p.Image = in.Image
	p.Category = in.Category
	p.Description = in.Description
	p.IsNew = in.IsNew
	p.InStock = in.InStock
	return nil
}

// CartItem is one product selection in the cart, keyed by ProductID.
// Quantity is always >= 1; a quantity dropping to zero removes the item.
type CartItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     Cents  `json:"-"`
	Image     string `json:"image"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
}

type cartItemJSON struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
}

func (i CartItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartItemJSON{
		ProductID: i.ProductID,
		Name:      i.Name,
		Price:     i.Price.Float(),
		Image:     i.Image,
		Category:  i.Category,
		Quantity:  i.Quantity,
	})
}

func (i *CartItem) UnmarshalJSON(data []byte) error {
	var in cartItemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	i.ProductID = in.ProductID
	i.Name = in.Name
	i.Price = CentsFromFloat(in.Price)
	i.Image = in.Image
	i.Category = in.Category
	i.Quantity = in.Quantity
	return nil
}

// Subtotal returns price x quantity for the line.
func (i CartItem) Subtotal() Cents {
	return i.Price.Mul(i.Quantity)
}

// Order is a completed purchase from the backend's order history.
type Order struct {
	ID          string     `json:"id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ScrapedProduct is an external-aggregated listing from the backend's
// scraper. Prices stay as the backend renders them; these listings never
// enter the cart directly.
type ScrapedProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Source   string  `json:"source"`
	URL      string  `json:"url,omitempty"`
	Category string  `json:"category,omitempty"`
}

// ChatReply is the recommendation widget's response: free text plus
// product suggestions resolved by the backend.
type ChatReply struct {
	Response            string    `json:"response"`
	RecommendedProducts []Product `json:"recommendedProducts,omitempty"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalProducts int     `json:"totalProducts"`
}
