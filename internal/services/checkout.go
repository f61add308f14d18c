package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"show-reservations-client/internal/logger"
	"show-reservations-client/internal/models"
	"show-reservations-client/internal/session"
)

// CheckoutState is the phase a checkout attempt is in
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateResolving  CheckoutState = "resolving"
	StateSubmitting CheckoutState = "submitting"
	StateCleared    CheckoutState = "cleared"
	StateCompleted  CheckoutState = "completed"
	StateAborted    CheckoutState = "aborted"
)

// ErrCheckoutInProgress is returned when a checkout is triggered while
// another attempt is still running
var ErrCheckoutInProgress = errors.New("a checkout attempt is already in progress")

// CheckoutResult describes the outcome of one checkout attempt
type CheckoutResult struct {
	State     CheckoutState
	Submitted []models.OrderLine
	Dropped   int
	// Reason explains an abort; empty on completion
	Reason string
	// SubmitErr records a post-clear submission failure. The attempt
	// still completes: the cart is gone, the order is unconfirmed.
	SubmitErr error
}

// CheckoutOrchestrator converts the user's server-side cart into a
// priced order: it re-derives canonical representation and price
// identifiers from the denormalized cart lines, clears the cart, and
// submits the order.
//
// Clearing and submission are two independent calls with no compensating
// transaction between them. The authoritative record of the purchase is
// the submission; a cleared cart with a failed submission is a known,
// accepted outcome and is reported in the result rather than rolled
// back.
type CheckoutOrchestrator struct {
	backend  CheckoutBackend
	store    *session.Store
	resolver *CatalogResolver
	logger   *logger.Logger

	// inFlight is the only mutual exclusion in the workflow: at most one
	// attempt runs at a time, duplicate triggers are rejected.
	inFlight atomic.Bool

	mu    sync.RWMutex
	state CheckoutState
}

// NewCheckoutOrchestrator creates the orchestrator
func NewCheckoutOrchestrator(backend CheckoutBackend, store *session.Store, log *logger.Logger) *CheckoutOrchestrator {
	return &CheckoutOrchestrator{
		backend:  backend,
		store:    store,
		resolver: NewCatalogResolver(backend, log),
		logger:   log,
		state:    StateIdle,
	}
}

// State returns the phase of the current (or last) attempt
func (o *CheckoutOrchestrator) State() CheckoutState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *CheckoutOrchestrator) setState(state CheckoutState) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

func (o *CheckoutOrchestrator) abort(reason string) *CheckoutResult {
	o.setState(StateAborted)
	o.logger.Infow("checkout aborted", "reason", reason)
	return &CheckoutResult{State: StateAborted, Reason: reason}
}

// Run executes one checkout attempt. It returns ErrCheckoutInProgress
// when another attempt has not yet reached Completed or Aborted; no
// second clear or submit call can be produced by a duplicate trigger.
func (o *CheckoutOrchestrator) Run(ctx context.Context) (*CheckoutResult, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInProgress
	}
	defer o.inFlight.Store(false)

	o.setState(StateIdle)

	// Preconditions, checked before any mutating call
	sess, ok := o.store.Get()
	if !ok || !sess.Authenticated() {
		return o.abort("not authenticated"), nil
	}

	// The price list is fetched fresh on every attempt; prices may have
	// changed since the last one.
	prices, err := o.backend.Prices(ctx)
	if err != nil {
		o.logger.Errorw("price list unavailable", "error", err)
		return o.abort("price list unavailable"), nil
	}
	priceIndex := models.BuildPriceIndex(prices)

	o.setState(StateResolving)

	cart, err := o.backend.UserCart(ctx, sess.Token, sess.UserID())
	if err != nil {
		o.logger.Errorw("failed to fetch server-side cart", "error", err)
		return o.abort("cart unavailable"), nil
	}
	if !cart.HasItems() {
		return o.abort("cart is empty"), nil
	}

	lines, dropped := o.resolveLines(ctx, cart.Items, priceIndex)
	if len(lines) == 0 {
		// Nothing was purchased, so the cart survives untouched.
		return o.abort("no cart line could be resolved"), nil
	}

	o.setState(StateSubmitting)

	// The cart is cleared before the order is submitted, matching the
	// backend's contract: payment already happened upstream, the clear
	// must not be retried within this attempt.
	if err := o.backend.ClearCart(ctx, sess.Token); err != nil {
		o.logger.Errorw("failed to clear server-side cart", "error", err)
	}
	if err := o.store.UpdateCart(models.CartSnapshot{}); err != nil {
		o.logger.Errorw("failed to empty local cart snapshot", "error", err)
	}

	o.setState(StateCleared)

	result := &CheckoutResult{Submitted: lines, Dropped: dropped}
	order := &models.Order{Quantities: lines}
	if err := o.backend.SubmitOrder(ctx, sess.Token, order); err != nil {
		o.logger.Errorw("order submission failed after cart clear",
			"user_id", sess.UserID(),
			"lines", len(lines),
			"error", err,
		)
		result.SubmitErr = err
	}

	o.setState(StateCompleted)
	result.State = StateCompleted

	o.logger.Infow("checkout completed",
		"user_id", sess.UserID(),
		"submitted_lines", len(lines),
		"dropped_lines", dropped,
		"submission_confirmed", result.SubmitErr == nil,
	)
	return result, nil
}

// resolveLines resolves every cart line independently. A line failing
// representation or price resolution is dropped with a diagnostic and
// does not disturb its siblings.
func (o *CheckoutOrchestrator) resolveLines(ctx context.Context, items []models.CartLineItem, priceIndex models.PriceIndex) ([]models.OrderLine, int) {
	var lines []models.OrderLine
	dropped := 0

	for _, item := range items {
		if err := item.Validate(); err != nil {
			o.logger.Warnw("dropping invalid cart line",
				"title", item.Title,
				"error", err,
			)
			dropped++
			continue
		}

		representationID, err := o.resolver.ResolveRepresentation(ctx, item.Title, item.Schedule, item.Location)
		if err != nil {
			o.logger.Warnw("dropping unresolvable cart line",
				"title", item.Title,
				"schedule", item.Schedule,
				"location", item.Location,
			)
			dropped++
			continue
		}

		priceID, ok := priceIndex.Lookup(item.Price.Type)
		if !ok {
			o.logger.Warnw("dropping cart line with unknown price category",
				"title", item.Title,
				"price_type", item.Price.Type,
			)
			dropped++
			continue
		}

		lines = append(lines, models.OrderLine{
			RepresentationID: representationID,
			PriceID:          priceID,
			Quantity:         item.Quantity,
		})
	}

	return lines, dropped
}
