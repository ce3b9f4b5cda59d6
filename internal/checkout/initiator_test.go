package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
)

type fakeAPI struct {
	createCalls    atomic.Int64
	lastSuccessURL atomic.Value
	lastCancelURL  atomic.Value
	createErr      error
	link           string
	block          chan struct{} // when set, CreatePayment waits until closed
	orders         []model.Order
}

func (f *fakeAPI) CreatePayment(ctx context.Context, token string, items []model.CartItem, total model.Cents, successURL, cancelURL string) (string, error) {
	f.createCalls.Add(1)
	f.lastSuccessURL.Store(successURL)
	f.lastCancelURL.Store(cancelURL)
	if f.block != nil {
		<-f.block
	}
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.link, nil
}

func (f *fakeAPI) Orders(ctx context.Context, token string) ([]model.Order, error) {
	return f.orders, nil
}

type fakeCart struct {
	mu         sync.Mutex
	items      []model.CartItem
	clearCalls int
}

func (f *fakeCart) Items() []model.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.CartItem, len(f.items))
	copy(out, f.items)
	return out
}

func (f *fakeCart) TotalCents() model.Cents {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total model.Cents
	for _, item := range f.items {
		total += item.Subtotal()
	}
	return total
}

func (f *fakeCart) Clear(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
	f.clearCalls++
}

type fakeAuth struct {
	authed bool
}

func (f *fakeAuth) IsAuthenticated() bool { return f.authed }
func (f *fakeAuth) Token() string {
	if f.authed {
		return "tok"
	}
	return ""
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testReturns() ReturnURLs {
	return ReturnURLs{
		Success: "http://localhost:8080/payment/success",
		Cancel:  "http://localhost:8080/payment/cancel",
	}
}

func filledCart() *fakeCart {
	return &fakeCart{items: []model.CartItem{
		{ProductID: "jeans-1", Name: "Jeans", Price: 7999, Quantity: 2},
	}}
}

func TestInitiateReturnsPaymentLink(t *testing.T) {
	api := &fakeAPI{link: "https://pay.example/abc"}
	init := NewInitiator(api, filledCart(), &fakeAuth{authed: true}, testReturns(), testLogger())

	link, err := init.Initiate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/abc", link)
	assert.Equal(t, int64(1), api.createCalls.Load())
}

func TestInitiateRequiresSession(t *testing.T) {
	api := &fakeAPI{link: "https://pay.example/abc"}
	init := NewInitiator(api, filledCart(), &fakeAuth{authed: false}, testReturns(), testLogger())

	_, err := init.Initiate(context.Background())
	require.ErrorIs(t, err, model.ErrLoginRequired)
	assert.Equal(t, int64(0), api.createCalls.Load())
}

func TestInitiateRejectsEmptyCart(t *testing.T) {
	api := &fakeAPI{link: "https://pay.example/abc"}
	init := NewInitiator(api, &fakeCart{}, &fakeAuth{authed: true}, testReturns(), testLogger())

	_, err := init.Initiate(context.Background())
	require.ErrorIs(t, err, model.ErrPaymentInit)
	assert.Equal(t, int64(0), api.createCalls.Load())
}

func TestReentrantInitiateIssuesOneBackendCall(t *testing.T) {
	// Simulates the checkout page re-rendering while the first request is
	// still in flight: only one /payment/create call may go out.
	api := &fakeAPI{link: "https://pay.example/abc", block: make(chan struct{})}
	init := NewInitiator(api, filledCart(), &fakeAuth{authed: true}, testReturns(), testLogger())

	firstDone := make(chan error, 1)
	go func() {
		_, err := init.Initiate(context.Background())
		firstDone <- err
	}()

	// Wait for the first call to reach the backend.
	waitFor(t, func() bool { return api.createCalls.Load() == 1 })

	_, err := init.Initiate(context.Background())
	require.ErrorIs(t, err, model.ErrPaymentInit, "re-entry must fail fast")

	close(api.block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, int64(1), api.createCalls.Load())
}

func TestGuardResetsAfterFailureForRetry(t *testing.T) {
	api := &fakeAPI{createErr: model.NewNetworkError(errors.New("connection refused"))}
	init := NewInitiator(api, filledCart(), &fakeAuth{authed: true}, testReturns(), testLogger())
	ctx := context.Background()

	_, err := init.Initiate(ctx)
	require.Error(t, err)

	api.createErr = nil
	api.link = "https://pay.example/retry"

	link, err := init.Initiate(ctx)
	require.NoError(t, err, "a failed attempt must not block the retry")
	assert.Equal(t, "https://pay.example/retry", link)
	assert.Equal(t, int64(2), api.createCalls.Load())
}

func TestInitiateSendsReturnURLs(t *testing.T) {
	api := &fakeAPI{link: "https://pay.example/abc"}
	init := NewInitiator(api, filledCart(), &fakeAuth{authed: true}, testReturns(), testLogger())

	_, err := init.Initiate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/payment/success", api.lastSuccessURL.Load())
	assert.Equal(t, "http://localhost:8080/payment/cancel", api.lastCancelURL.Load())
}

func TestSuccessLegClearsCart(t *testing.T) {
	api := &fakeAPI{link: "https://pay.example/abc"}
	cart := filledCart()
	init := NewInitiator(api, cart, &fakeAuth{authed: true}, testReturns(), testLogger())
	ctx := context.Background()

	_, err := init.Initiate(ctx)
	require.NoError(t, err)

	init.CompleteSuccess(ctx)

	assert.Empty(t, cart.Items())
	assert.Equal(t, 1, cart.clearCalls)
}

func TestSuccessLegClearsCartWithoutInProcessAttempt(t *testing.T) {
	// The attempt may have started in another process, or before a gateway
	// restart; arriving on the success page still means a payment happened.
	cart := filledCart()
	init := NewInitiator(&fakeAPI{}, cart, &fakeAuth{authed: true}, testReturns(), testLogger())

	init.CompleteSuccess(context.Background())

	assert.Empty(t, cart.Items())
	assert.Equal(t, 1, cart.clearCalls)
}

func TestCancelLegLeavesCartUnchanged(t *testing.T) {
	api := &fakeAPI{link: "https://pay.example/abc"}
	cart := filledCart()
	init := NewInitiator(api, cart, &fakeAuth{authed: true}, testReturns(), testLogger())
	ctx := context.Background()

	_, err := init.Initiate(ctx)
	require.NoError(t, err)

	init.Cancel()

	assert.Len(t, cart.Items(), 1)
	assert.Equal(t, 0, cart.clearCalls)
}

func TestOrdersRequiresSession(t *testing.T) {
	init := NewInitiator(&fakeAPI{}, &fakeCart{}, &fakeAuth{authed: false}, testReturns(), testLogger())

	_, err := init.Orders(context.Background())
	require.ErrorIs(t, err, model.ErrLoginRequired)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
