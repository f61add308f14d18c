package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"show-reservations-client/internal/logger"
	"show-reservations-client/internal/models"
	"show-reservations-client/internal/session"
	"show-reservations-client/internal/storage"
)

// fakeBackend scripts backend answers and counts mutating calls
type fakeBackend struct {
	prices    []models.PriceCategory
	pricesErr error

	representations map[string][]models.Representation
	repsErr         error

	cart    *models.CartSnapshot
	cartErr error

	clearErr  error
	submitErr error

	pricesCalls int32
	cartCalls   int32
	clearCalls  int32
	submitCalls int32

	submitted []models.Order

	// holdCart, when non-nil, blocks UserCart until closed
	holdCart chan struct{}
}

func (f *fakeBackend) Prices(ctx context.Context) ([]models.PriceCategory, error) {
	atomic.AddInt32(&f.pricesCalls, 1)
	return f.prices, f.pricesErr
}

func (f *fakeBackend) RepresentationsByTitle(ctx context.Context, title string) ([]models.Representation, error) {
	if f.repsErr != nil {
		return nil, f.repsErr
	}
	return f.representations[title], nil
}

func (f *fakeBackend) UserCart(ctx context.Context, token string, userID int) (*models.CartSnapshot, error) {
	atomic.AddInt32(&f.cartCalls, 1)
	if f.holdCart != nil {
		<-f.holdCart
	}
	if f.cartErr != nil {
		return nil, f.cartErr
	}
	return f.cart, nil
}

func (f *fakeBackend) ClearCart(ctx context.Context, token string) error {
	atomic.AddInt32(&f.clearCalls, 1)
	return f.clearErr
}

func (f *fakeBackend) SubmitOrder(ctx context.Context, token string, order *models.Order) error {
	atomic.AddInt32(&f.submitCalls, 1)
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, *order)
	return nil
}

func newSessionStore(t *testing.T, loggedIn bool) *session.Store {
	t.Helper()
	st, err := storage.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	store, err := session.NewStore(st, logger.NewNop())
	require.NoError(t, err)

	if loggedIn {
		require.NoError(t, store.Set(models.Session{
			Token: "tok",
			User:  &models.User{ID: 1, Username: "alice"},
			Cart: models.CartSnapshot{Items: []models.CartLineItem{
				{Title: "Swan Lake", Schedule: "2025-06-01T20:00", Location: "Hall A", Quantity: 2, Price: models.PriceRef{Type: "standard"}},
			}},
		}))
	}
	return store
}

func swanLakeBackend() *fakeBackend {
	return &fakeBackend{
		prices: []models.PriceCategory{{ID: 3, Type: "standard"}},
		representations: map[string][]models.Representation{
			"Swan Lake": {
				{ID: 7, Title: "Swan Lake", Schedule: "2025-06-01T20:00", Location: "Hall A", Bookable: true},
			},
		},
		cart: &models.CartSnapshot{Items: []models.CartLineItem{
			{Title: "Swan Lake", Schedule: "2025-06-01T20:00", Location: "Hall A", Quantity: 2, Price: models.PriceRef{Type: "standard"}},
		}},
	}
}

func TestCheckout_HappyPath(t *testing.T) {
	backend := swanLakeBackend()
	store := newSessionStore(t, true)
	orchestrator := NewCheckoutOrchestrator(backend, store, logger.NewNop())

	result, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, result.State)
	assert.NoError(t, result.SubmitErr)
	assert.Zero(t, result.Dropped)
	require.Len(t, result.Submitted, 1)
	assert.Equal(t, models.OrderLine{RepresentationID: 7, PriceID: 3, Quantity: 2}, result.Submitted[0])

	assert.EqualValues(t, 1, backend.clearCalls)
	assert.EqualValues(t, 1, backend.submitCalls)
	require.Len(t, backend.submitted, 1)
	assert.Equal(t, []models.OrderLine{{RepresentationID: 7, PriceID: 3, Quantity: 2}}, backend.submitted[0].Quantities)

	// Local cart snapshot is emptied alongside the server-side clear
	assert.False(t, store.HasItemsInCart())
}

func TestCheckout_UnknownPriceCategoryAborts(t *testing.T) {
	backend := swanLakeBackend()
	backend.prices = []models.PriceCategory{{ID: 9, Type: "premium"}}
	store := newSessionStore(t, true)
	orchestrator := NewCheckoutOrchestrator(backend, store, logger.NewNop())

	result, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	// The only line resolved to nothing: no purchase, cart untouched
	assert.Equal(t, StateAborted, result.State)
	assert.Empty(t, result.Submitted)
	assert.Zero(t, backend.clearCalls)
	assert.Zero(t, backend.submitCalls)
	assert.True(t, store.HasItemsInCart())
}

func TestCheckout_DropsUnresolvableLinesSubmitsRest(t *testing.T) {
	backend := swanLakeBackend()
	backend.cart.Items = append(backend.cart.Items,
		models.CartLineItem{Title: "Phantom", Schedule: "2025-07-01T19:00", Location: "Hall B", Quantity: 1, Price: models.PriceRef{Type: "standard"}},
		models.CartLineItem{Title: "Swan Lake", Schedule: "2025-06-01T20:00", Location: "Hall A", Quantity: 1, Price: models.PriceRef{Type: "vip"}},
	)
	store := newSessionStore(t, true)
	orchestrator := NewCheckoutOrchestrator(backend, store, logger.NewNop())

	result, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	// Exactly the N resolvable lines are submitted, the M bad ones drop
	assert.Equal(t, StateCompleted, result.State)
	require.Len(t, result.Submitted, 1)
	assert.Equal(t, 2, result.Dropped)
	assert.EqualValues(t, 1, backend.submitCalls)
	require.Len(t, backend.submitted, 1)
	assert.Len(t, backend.submitted[0].Quantities, 1)
}

func TestCheckout_NotAuthenticated(t *testing.T) {
	backend := swanLakeBackend()
	store := newSessionStore(t, false)
	orchestrator := NewCheckoutOrchestrator(backend, store, logger.NewNop())

	result, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateAborted, result.State)
	assert.Zero(t, backend.pricesCalls, "no network call without a session")
	assert.Zero(t, backend.cartCalls)
	assert.Zero(t, backend.clearCalls)
	assert.Zero(t, backend.submitCalls)
}

func TestCheckout_PriceFetchFailureAbortsBeforeCart(t *testing.T) {
	backend := swanLakeBackend()
	backend.pricesErr = errors.New("price service down")
	store := newSessionStore(t, true)
	orchestrator := NewCheckoutOrchestrator(backend, store, logger.NewNop())

	result, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateAborted, result.State)
	assert.Zero(t, backend.cartCalls, "price fetch is a precondition, cart is never touched")
	assert.Zero(t, backend.clearCalls)
	assert.Zero(t, backend.submitCalls)
}

func TestCheckout_EmptyServerCartAborts(t *testing.T) {
	backend := swanLakeBackend()
	backend.cart = &models.CartSnapshot{}
	store := newSessionStore(t, true)
	orchestrator := NewCheckoutOrchestrator(backend, store, logger.NewNop())

	result, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateAborted, result.State)
	assert.Zero(t, backend.clearCalls)
	assert.Zero(t, backend.submitCalls)
}

func TestCheckout_SubmitFailureStillCompletes(t *testing.T) {
	backend := swanLakeBackend()
	backend.submitErr = errors.New("payment endpoint exploded")
	store := newSessionStore(t, true)
	orchestrator := NewCheckoutOrchestrator(backend, store, logger.NewNop())

	result, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	// Documented failure window: cart cleared, order unconfirmed, no
	// retry and no rollback.
	assert.Equal(t, StateCompleted, result.State)
	assert.Error(t, result.SubmitErr)
	assert.EqualValues(t, 1, backend.clearCalls)
	assert.EqualValues(t, 1, backend.submitCalls)
}

func TestCheckout_ClearFailureStillSubmits(t *testing.T) {
	backend := swanLakeBackend()
	backend.clearErr = errors.New("clear endpoint down")
	store := newSessionStore(t, true)
	orchestrator := NewCheckoutOrchestrator(backend, store, logger.NewNop())

	result, err := orchestrator.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, result.State)
	assert.EqualValues(t, 1, backend.clearCalls, "the clear is not retried")
	assert.EqualValues(t, 1, backend.submitCalls)
}

func TestCheckout_ReentrancyGuard(t *testing.T) {
	backend := swanLakeBackend()
	backend.holdCart = make(chan struct{})
	store := newSessionStore(t, true)
	orchestrator := NewCheckoutOrchestrator(backend, store, logger.NewNop())

	first := make(chan *CheckoutResult, 1)
	go func() {
		result, err := orchestrator.Run(context.Background())
		require.NoError(t, err)
		first <- result
	}()

	// Wait until the first attempt is inside the cart fetch
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&backend.cartCalls) == 1
	}, time.Second, time.Millisecond)

	_, err := orchestrator.Run(context.Background())
	assert.True(t, errors.Is(err, ErrCheckoutInProgress))

	close(backend.holdCart)
	result := <-first

	assert.Equal(t, StateCompleted, result.State)
	assert.EqualValues(t, 1, backend.clearCalls, "duplicate trigger produced no second clear")
	assert.EqualValues(t, 1, backend.submitCalls, "duplicate trigger produced no second submit")

	// Once the attempt has finished, a new trigger is accepted again
	backend2 := swanLakeBackend()
	orchestrator2 := NewCheckoutOrchestrator(backend2, newSessionStore(t, true), logger.NewNop())
	_, err = orchestrator2.Run(context.Background())
	assert.NoError(t, err)
}
