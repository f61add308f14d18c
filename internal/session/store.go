package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"show-reservations-client/internal/logger"
	"show-reservations-client/internal/models"
	"show-reservations-client/internal/storage"
)

// Storage keys for the persisted session pieces
const (
	keyToken = "token"
	keyUser  = "user"
	keyCart  = "cart"
)

// Subscriber is notified after every session change. The second argument
// is false when the change was a logout.
type Subscriber func(session models.Session, loggedIn bool)

// Store owns the client's session state: the opaque token, the user
// record and the locally cached cart. All mutations go through the store
// and are written to durable local storage before readers can observe
// them. There is no ambient global; dependents hold the store and may
// subscribe to changes.
type Store struct {
	mu          sync.RWMutex
	storage     *storage.Store
	logger      *logger.Logger
	current     *models.Session
	subscribers []Subscriber
}

// NewStore creates a session store and restores any persisted session
func NewStore(st *storage.Store, log *logger.Logger) (*Store, error) {
	store := &Store{storage: st, logger: log}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

// load restores the persisted session. A missing token means logged out;
// a token without a readable user record is treated as logged out too,
// the stale pieces are left for the next Clear to sweep.
func (s *Store) load() error {
	token, err := s.storage.Get(keyToken)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	userRaw, err := s.storage.Get(keyUser)
	if err != nil {
		s.logger.Warnw("persisted token without user record, treating as logged out")
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		s.logger.Warnw("corrupt persisted user record, treating as logged out", "error", err)
		return nil
	}

	session := models.Session{Token: token, User: &user}
	if cartRaw, err := s.storage.Get(keyCart); err == nil {
		if err := json.Unmarshal([]byte(cartRaw), &session.Cart); err != nil {
			s.logger.Warnw("corrupt persisted cart, starting empty", "error", err)
			session.Cart = models.CartSnapshot{}
		}
	}

	s.current = &session
	return nil
}

// Get returns a copy of the current session. The second return is false
// when no session is held.
func (s *Store) Get() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return models.Session{}, false
	}
	return cloneSession(*s.current), true
}

// cloneSession copies the session so callers cannot mutate store state
// through the returned user pointer or cart slice.
func cloneSession(session models.Session) models.Session {
	if session.User != nil {
		user := *session.User
		session.User = &user
	}
	if session.Cart.Items != nil {
		items := make([]models.CartLineItem, len(session.Cart.Items))
		copy(items, session.Cart.Items)
		session.Cart.Items = items
	}
	return session
}

// Set replaces the session and persists it
func (s *Store) Set(session models.Session) error {
	userRaw, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	cartRaw, err := json.Marshal(session.Cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	s.mu.Lock()
	if err := s.storage.Put(keyToken, session.Token); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.storage.Put(keyUser, string(userRaw)); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.storage.Put(keyCart, string(cartRaw)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = &session
	s.mu.Unlock()

	s.notify(session, true)
	return nil
}

// Clear removes token, user and cart as one unit. A partial clear is a
// correctness bug, so the persisted keys go in a single transaction.
func (s *Store) Clear() error {
	s.mu.Lock()
	if err := s.storage.Delete(keyToken, keyUser, keyCart); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = nil
	s.mu.Unlock()

	s.notify(models.Session{}, false)
	return nil
}

// UpdateCart replaces the cached cart snapshot of the current session
func (s *Store) UpdateCart(cart models.CartSnapshot) error {
	cartRaw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return models.ErrNotLoggedIn
	}
	if err := s.storage.Put(keyCart, string(cartRaw)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current.Cart = cart
	session := *s.current
	s.mu.Unlock()

	s.notify(session, true)
	return nil
}

// HasItemsInCart reports whether the cached cart holds any line
func (s *Store) HasItemsInCart() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Cart.HasItems()
}

// Subscribe registers a change listener. Listeners run synchronously
// after each mutation, outside the store lock.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Store) notify(session models.Session, loggedIn bool) {
	s.mu.RLock()
	subscribers := make([]Subscriber, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(session, loggedIn)
	}
}
