// Package apitest provides an in-process fake of the reservations
// backend for integration tests: the real catalogue and accounts routes,
// token authentication, and counters for the mutating calls so tests can
// assert on side effects.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"show-reservations-client/internal/models"
)

var signingSecret = []byte("apitest-signing-secret")

// Account is a seeded backend account
type Account struct {
	User     models.User
	Password string
}

// Server is the fake backend. Fields are safe to adjust before the
// client calls in, and inspected after.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	Accounts        map[string]*Account
	Representations []models.Representation
	PriceList       []models.PriceCategory
	Carts           map[int]*models.CartSnapshot
	Reservations    map[int][]models.Reservation
	Shows           []models.ShowReviews
	Artists         map[int]*models.ArtistDetail

	// Failure switches
	FailPrices bool
	FailClear  bool
	FailSubmit bool

	// Revoked marks every issued token invalid, simulating server-side
	// session revocation
	Revoked bool

	ClearCalls  int
	SubmitCalls int
	Submitted   []models.Order
}

// New starts a fake backend with empty fixtures
func New() *Server {
	s := &Server{
		Accounts:     make(map[string]*Account),
		Carts:        make(map[int]*models.CartSnapshot),
		Reservations: make(map[int][]models.Reservation),
		Artists:      make(map[int]*models.ArtistDetail),
	}

	r := chi.NewRouter()

	r.Post("/accounts/api/login/", s.handleLogin)
	r.Post("/accounts/api/register/", s.handleRegister)
	r.Get("/accounts/api/prices/", s.handlePrices)
	r.Get("/catalogue/api/representations/", s.handleRepresentations)
	r.Get("/catalogue/api/shows/reviews/", s.handleShows)
	r.Get("/catalogue/api/artists/{id}/detail/", s.handleArtist)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/catalogue/api/user-meta/{id}/", s.handleUserMeta)
		r.Get("/accounts/api/user-cart/{id}/", s.handleUserCart)
		r.Post("/accounts/api/clear-cart/", s.handleClearCart)
		r.Post("/accounts/api/payment-success/", s.handleSubmit)
		r.Get("/accounts/api/user-reservations/{id}/", s.handleReservations)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Seed installs a ready-to-use account with a cart
func (s *Server) Seed(account Account, cart *models.CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Accounts[account.User.Username] = &account
	if cart != nil {
		s.Carts[account.User.ID] = cart
	}
}

func (s *Server) issueToken(userID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(userID),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingSecret)
}

func (s *Server) userIDFromToken(raw string) (int, bool) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return signingSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.Atoi(sub)
	if err != nil {
		return 0, false
	}
	return id, true
}

type contextKey string

const userIDKey contextKey = "userID"

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Token "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		s.mu.Lock()
		revoked := s.Revoked
		s.mu.Unlock()

		userID, ok := s.userIDFromToken(header[len(prefix):])
		if !ok || revoked {
			writeError(w, http.StatusUnauthorized, "Invalid token.")
			return
		}

		r.Header.Set("X-Authenticated-User", strconv.Itoa(userID))
		next.ServeHTTP(w, r)
	})
}

func authedUser(r *http.Request) int {
	id, _ := strconv.Atoi(r.Header.Get("X-Authenticated-User"))
	return id
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	account, ok := s.Accounts[creds.Username]
	s.mu.Unlock()
	if !ok || account.Password != creds.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.issueToken(account.User.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token issue failed")
		return
	}

	writeJSON(w, map[string]interface{}{"token": token, "user": account.User})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Accounts[req.Username]; exists {
		writeError(w, http.StatusBadRequest, "username already taken")
		return
	}
	s.Accounts[req.Username] = &Account{
		User: models.User{
			ID:        len(s.Accounts) + 1,
			Username:  req.Username,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
		Password: req.Password,
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	fail, prices := s.FailPrices, s.PriceList
	s.mu.Unlock()
	if fail {
		writeError(w, http.StatusInternalServerError, "prices unavailable")
		return
	}
	writeJSON(w, prices)
}

func (s *Server) handleRepresentations(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	s.mu.Lock()
	defer s.mu.Unlock()

	matches := []models.Representation{}
	for _, rep := range s.Representations {
		if rep.Title == title {
			matches = append(matches, rep)
		}
	}
	writeJSON(w, matches)
}

func (s *Server) handleShows(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.Shows)
}

func (s *Server) handleArtist(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	s.mu.Lock()
	artist, ok := s.Artists[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "artist not found")
		return
	}
	writeJSON(w, artist)
}

func (s *Server) handleUserMeta(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	if id != authedUser(r) {
		writeError(w, http.StatusForbidden, "not your account")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.Accounts {
		if account.User.ID == id {
			writeJSON(w, map[string]interface{}{"user": account.User})
			return
		}
	}
	writeError(w, http.StatusNotFound, "user not found")
}

func (s *Server) handleUserCart(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	s.mu.Lock()
	cart, ok := s.Carts[id]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, models.CartSnapshot{})
		return
	}
	writeJSON(w, cart)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ClearCalls++
	if s.FailClear {
		writeError(w, http.StatusInternalServerError, "clear failed")
		return
	}
	s.Carts[authedUser(r)] = &models.CartSnapshot{}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.SubmitCalls++
	if s.FailSubmit {
		writeError(w, http.StatusInternalServerError, "submission failed")
		return
	}

	s.Submitted = append(s.Submitted, order)
	userID := authedUser(r)
	for _, line := range order.Quantities {
		s.Reservations[userID] = append(s.Reservations[userID], models.Reservation{
			ID:          len(s.Reservations[userID]) + 1,
			Quantity:    line.Quantity,
			BookingDate: time.Now(),
			Status:      models.ReservationConfirmed,
		})
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReservations(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	reservations := s.Reservations[id]
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	writeJSON(w, reservations)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
