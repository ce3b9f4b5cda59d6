// Package cart holds the working set of selected products and quantities.
// It mirrors a per-user remote cart: mutations apply locally first
// (optimistic), then sync to the backend. Only the add path rolls back on
// remote failure; remove/update/clear treat local state as authoritative
// and accept remote drift.
package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"storefront/internal/model"
	"storefront/internal/reconcile"
)

// API is the slice of the backend the cart store depends on.
type API interface {
	GetCart(ctx context.Context, userID string) ([]model.CartItem, error)
	AddCartItem(ctx context.Context, userID string, item model.CartItem) error
	SetCartItemQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
}

// Auth is the read-only view of the session store the cart needs:
// whether a user is logged in, and the partition key for the remote cart.
type Auth interface {
	IsAuthenticated() bool
	UserID() string
}

// Store is the cart state machine. The cart is empty whenever no session is
// active; guest carts are never persisted and never merged into an account.
type Store struct {
	api    API
	auth   Auth
	logger *slog.Logger

	mu    sync.Mutex
	items []model.CartItem
}

// NewStore creates a cart store gated by the given auth view.
func NewStore(api API, auth Auth, logger *slog.Logger) *Store {
	return &Store{
		api:    api,
		auth:   auth,
		logger: logger,
	}
}

// HandleSessionChange is the session-transition hook. Wire it to the session
// store's Subscribe.
//
// Authenticated: the remote cart is fetched and replaces local state
// (last-writer-wins from the server). Unauthenticated: local state is
// cleared unconditionally.
func (s *Store) HandleSessionChange(ctx context.Context, sess *model.Session) {
	if sess == nil {
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		return
	}

	items, err := s.api.GetCart(ctx, sess.User.ID)
	if err != nil {
		s.logger.Warn("loading remote cart failed",
			slog.String("user_id", sess.User.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Info("remote cart loaded",
		slog.String("user_id", sess.User.ID),
		slog.Int("items", len(items)),
	)
}

// Add applies a quantity delta for the product, optimistically local-first.
//
// Returns (false, LOGIN_REQUIRED) without touching any state when no session
// is active. Otherwise the local mutation happens before the remote upsert
// is dispatched; if the upsert fails, the local delta is rolled back (the
// quantity is decremented, or the line removed if the delta created it).
// Returns true iff the remote call succeeded.
func (s *Store) Add(ctx context.Context, product model.Product, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, model.NewValidationError("quantity", "must be positive")
	}
	if !s.auth.IsAuthenticated() {
		return false, model.NewLoginRequiredError()
	}
	userID := s.auth.UserID()

	item := model.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Category:  product.Category,
		Quantity:  quantity,
	}

	// Optimistic local apply.
	s.mu.Lock()
	created := s.applyDelta(item)
	s.mu.Unlock()

	if err := s.api.AddCartItem(ctx, userID, item); err != nil {
		// Roll back to the pre-call value.
		s.mu.Lock()
		s.rollbackDelta(product.ID, quantity, created)
		s.mu.Unlock()

		s.logger.Warn("remote cart add failed, rolled back",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		return false, err
	}

	return true, nil
}

// applyDelta merges the quantity delta into local state.
// Returns true when the delta created a new line. Caller holds the lock.
func (s *Store) applyDelta(item model.CartItem) bool {
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			return false
		}
	}
	s.items = append(s.items, item)
	return true
}

// rollbackDelta undoes applyDelta. Caller holds the lock.
func (s *Store) rollbackDelta(productID string, quantity int, created bool) {
	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		if created || s.items[i].Quantity-quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity -= quantity
		}
		return
	}
}

// Remove deletes a cart line. Local-first; the remote sync is best-effort
// and failures are logged only (accepted inconsistency).
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found || !s.auth.IsAuthenticated() {
		return
	}
	if err := s.api.RemoveCartItem(ctx, s.auth.UserID(), productID); err != nil {
		s.logger.Warn("remote cart remove failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

// UpdateQuantity sets an absolute quantity for a cart line.
// Quantity <= 0 is equivalent to Remove. Local-first, best-effort remote.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, productID)
		return
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found || !s.auth.IsAuthenticated() {
		return
	}
	if err := s.api.SetCartItemQuantity(ctx, s.auth.UserID(), productID, quantity); err != nil {
		s.logger.Warn("remote cart update failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

// Clear empties the cart. Local state always clears; the remote clear is
// attempted only when a session is active, and failures are logged only.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	if !s.auth.IsAuthenticated() {
		return
	}
	if err := s.api.ClearCart(ctx, s.auth.UserID()); err != nil {
		s.logger.Warn("remote cart clear failed", slog.String("error", err.Error()))
	}
}

// Replace installs the complete desired cart state (full PUT semantics).
// The delta against current local state is computed and only the necessary
// remote mutations are executed, in remove → update → add order. Local
// state is replaced regardless; remote failures are joined into the return
// value but do not undo the local replacement.
func (s *Store) Replace(ctx context.Context, desired []model.CartItem) error {
	if !s.auth.IsAuthenticated() {
		return model.NewLoginRequiredError()
	}
	userID := s.auth.UserID()

	s.mu.Lock()
	diff := reconcile.DiffCart(s.items, desired)
	next := make([]model.CartItem, 0, len(desired))
	for _, item := range desired {
		if item.Quantity > 0 {
			next = append(next, item)
		}
	}
	s.items = next
	s.mu.Unlock()

	if diff.IsEmpty() {
		return nil
	}

	var errs []error
	for _, id := range diff.ToRemove {
		if err := s.api.RemoveCartItem(ctx, userID, id); err != nil {
			errs = append(errs, err)
		}
	}
	for _, change := range diff.ToUpdate {
		if err := s.api.SetCartItemQuantity(ctx, userID, change.ProductID, change.NewQuantity); err != nil {
			errs = append(errs, err)
		}
	}
	for _, item := range diff.ToAdd {
		if err := s.api.AddCartItem(ctx, userID, item); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		s.logger.Warn("cart reconciliation partially failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Items returns a copy of the current cart lines.
func (s *Store) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems is the sum of quantities across all lines.
// Recomputed on every read; the set is small and mutations are synchronous.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalCents is the sum of price x quantity across all lines.
func (s *Store) TotalCents() model.Cents {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total model.Cents
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
