package session

import (
	"context"
	"time"

	"show-reservations-client/internal/api"
	"show-reservations-client/internal/logger"
	"show-reservations-client/internal/models"
)

// AuthChecker answers whether the session's user is still authenticated.
// *api.Client satisfies it.
type AuthChecker interface {
	UserMeta(ctx context.Context, token string, userID int) (*models.User, error)
}

// DefaultPollInterval matches the original client's 10 second poll
const DefaultPollInterval = 10 * time.Second

// Validator keeps the store's belief about authentication aligned with
// server truth by polling on a fixed interval. A negative answer or a
// transport failure both clear the session: stale authenticated state is
// worse than a spurious logout.
type Validator struct {
	store    *Store
	checker  AuthChecker
	interval time.Duration
	logger   *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewValidator creates a validator. A non-positive interval falls back to
// the default.
func NewValidator(store *Store, checker AuthChecker, interval time.Duration, log *logger.Logger) *Validator {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Validator{
		store:    store,
		checker:  checker,
		interval: interval,
		logger:   log,
	}
}

// Start begins polling: one immediate check, then one per interval.
// Stop or cancellation of ctx ends the loop.
func (v *Validator) Start(ctx context.Context) {
	ctx, v.cancel = context.WithCancel(ctx)
	v.done = make(chan struct{})

	go func() {
		defer close(v.done)

		v.Check(ctx)

		ticker := time.NewTicker(v.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				v.Check(ctx)
			}
		}
	}()
}

// Stop cancels the polling loop and waits until it has fully stopped.
// No check runs after Stop returns.
func (v *Validator) Stop() {
	if v.cancel == nil {
		return
	}
	v.cancel()
	<-v.done
	v.cancel = nil
}

// Check runs a single validation pass
func (v *Validator) Check(ctx context.Context) {
	session, ok := v.store.Get()
	if !ok {
		return
	}

	// A session missing its token or user id is logged out locally, no
	// network call needed.
	if !session.Authenticated() {
		if err := v.store.Clear(); err != nil {
			v.logger.Errorw("failed to clear incomplete session", "error", err)
		}
		return
	}

	_, err := v.checker.UserMeta(ctx, session.Token, session.UserID())
	if err == nil {
		v.logger.Debugw("session still valid",
			"user_id", session.UserID(),
			"cart_items", session.Cart.HasItems(),
		)
		return
	}

	if api.IsUnauthorized(err) || api.IsNotFound(err) {
		v.logger.Infow("session revoked by backend, logging out", "user_id", session.UserID())
	} else {
		// Transport failure: fail closed rather than keep presenting a
		// possibly dead session.
		v.logger.Warnw("session check failed, logging out", "error", err)
	}

	if err := v.store.Clear(); err != nil {
		v.logger.Errorw("failed to clear session", "error", err)
	}
}
