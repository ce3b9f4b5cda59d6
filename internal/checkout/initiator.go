// Package checkout drives the payment handshake: one backend call to obtain
// a hosted-payment redirect, plus the two fixed return legs the payment page
// sends the shopper back to.
package checkout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/model"
)

// API is the slice of the backend the initiator depends on.
type API interface {
	CreatePayment(ctx context.Context, token string, items []model.CartItem, total model.Cents, successURL, cancelURL string) (string, error)
	Orders(ctx context.Context, token string) ([]model.Order, error)
}

// ReturnURLs are the two fixed routes the payment page redirects back to.
type ReturnURLs struct {
	Success string
	Cancel  string
}

// Cart is the cart view the initiator reads and, on the success leg, clears.
type Cart interface {
	Items() []model.CartItem
	TotalCents() model.Cents
	Clear(ctx context.Context)
}

// Auth is the session view the initiator needs.
type Auth interface {
	IsAuthenticated() bool
	Token() string
}

// Initiator owns the checkout state machine. A checkout attempt is
// transient: the only client-side state is the in-flight guard.
type Initiator struct {
	api     API
	cart    Cart
	auth    Auth
	returns ReturnURLs
	logger  *slog.Logger

	mu        sync.Mutex
	attemptID string // non-empty while a /payment/create call is in flight
}

// NewInitiator creates a checkout initiator.
func NewInitiator(api API, cart Cart, auth Auth, returns ReturnURLs, logger *slog.Logger) *Initiator {
	return &Initiator{
		api:     api,
		cart:    cart,
		auth:    auth,
		returns: returns,
		logger:  logger,
	}
}

// Initiate requests a hosted-payment redirect for the current cart.
//
// At most one /payment/create call is in flight per attempt: re-entrant
// calls while one is pending get a PAYMENT_INIT_ERROR instead of a second
// backend call. The guard resets on failure so the shopper can retry.
func (c *Initiator) Initiate(ctx context.Context) (string, error) {
	if !c.auth.IsAuthenticated() {
		return "", model.NewLoginRequiredError()
	}

	items := c.cart.Items()
	if len(items) == 0 {
		return "", model.NewPaymentInitError("cart is empty")
	}

	attemptID := uuid.NewString()

	c.mu.Lock()
	if c.attemptID != "" {
		c.mu.Unlock()
		return "", model.NewPaymentInitError("a checkout attempt is already in progress")
	}
	c.attemptID = attemptID
	c.mu.Unlock()

	total := c.cart.TotalCents()
	c.logger.Info("initiating checkout",
		slog.String("attempt_id", attemptID),
		slog.Int("items", len(items)),
		slog.String("total", total.String()),
	)

	link, err := c.api.CreatePayment(ctx, c.auth.Token(), items, total, c.returns.Success, c.returns.Cancel)

	c.mu.Lock()
	c.attemptID = ""
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("checkout initiation failed",
			slog.String("attempt_id", attemptID),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	c.logger.Info("payment link issued", slog.String("attempt_id", attemptID))
	return link, nil
}

// CompleteSuccess handles the success return leg. The redirect itself is
// taken as proof of payment; no backend verification happens here. Every
// visit clears the cart, locally and remotely, even when the attempt was
// started elsewhere (another process, or before a gateway restart): the
// payment page only ever redirects here after a real payment.
func (c *Initiator) CompleteSuccess(ctx context.Context) {
	c.cart.Clear(ctx)
	c.logger.Info("checkout completed, cart cleared")
}

// Cancel handles the cancel return leg. The cart is left exactly as it was;
// the shopper lands back on it and can retry.
func (c *Initiator) Cancel() {
	c.logger.Info("checkout cancelled, cart unchanged")
}

// Orders fetches the shopper's order history.
func (c *Initiator) Orders(ctx context.Context) ([]model.Order, error) {
	if !c.auth.IsAuthenticated() {
		return nil, model.NewLoginRequiredError()
	}
	return c.api.Orders(ctx, c.auth.Token())
}
