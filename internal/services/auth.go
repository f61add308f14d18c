package services

import (
	"context"
	"fmt"

	"show-reservations-client/internal/logger"
	"show-reservations-client/internal/models"
	"show-reservations-client/internal/session"
)

// AuthService handles login, registration and logout against the
// accounts API, keeping the session store in sync.
type AuthService struct {
	backend AccountBackend
	store   *session.Store
	logger  *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(backend AccountBackend, store *session.Store, log *logger.Logger) *AuthService {
	return &AuthService{backend: backend, store: store, logger: log}
}

// Login authenticates and persists the resulting session. Any cart
// cached for a previous user is discarded.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	result, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	sess := models.Session{
		Token: result.Token,
		User:  &result.User,
		Cart:  models.CartSnapshot{},
	}
	if err := s.store.Set(sess); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Infow("logged in", "user_id", result.User.ID, "username", result.User.Username)
	return &result.User, nil
}

// Register creates a new account. It does not log the user in; the
// backend expects a separate login afterwards.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) error {
	return s.backend.Register(ctx, req)
}

// Logout wipes the session wholesale
func (s *AuthService) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Infow("logged out")
	return nil
}
