package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"show-reservations-client/internal/logger"
	"show-reservations-client/internal/models"
	"show-reservations-client/internal/session"
)

// CatalogService serves the browsing surface: artist profiles and
// representation listings, plus the path that turns browsed display data
// into cart lines. Responses are cached briefly by display attributes
// only; canonical identifiers are deliberately not kept, resolution back
// to ids happens at checkout time.
type CatalogService struct {
	backend CatalogBackend
	store   *session.Store
	logger  *logger.Logger
	cache   *cache.Cache
}

// NewCatalogService creates a catalog service with a short-lived browse
// cache. ttl <= 0 disables expiry-based reuse in all but name.
func NewCatalogService(backend CatalogBackend, store *session.Store, ttl time.Duration, log *logger.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogService{
		backend: backend,
		store:   store,
		logger:  log,
		cache:   cache.New(ttl, 2*ttl),
	}
}

// ArtistDetail fetches an artist profile, serving repeat lookups from
// the browse cache.
func (s *CatalogService) ArtistDetail(ctx context.Context, artistID int) (*models.ArtistDetail, error) {
	key := fmt.Sprintf("artist:%d", artistID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.ArtistDetail), nil
	}

	artist, err := s.backend.ArtistDetail(ctx, artistID)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, artist)
	return artist, nil
}

// Representations lists the representations for a title, cached briefly
func (s *CatalogService) Representations(ctx context.Context, title string) ([]models.Representation, error) {
	key := "representations:" + title
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Representation), nil
	}

	representations, err := s.backend.RepresentationsByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, representations)
	return representations, nil
}

// AddToCart appends a line built from browsed display attributes to the
// locally cached cart. Quantity must be positive; invalid lines never
// reach the store or the backend.
func (s *CatalogService) AddToCart(line models.CartLineItem) error {
	if err := line.Validate(); err != nil {
		return err
	}

	sess, ok := s.store.Get()
	if !ok {
		return models.ErrNotLoggedIn
	}

	cart := sess.Cart
	if err := cart.Add(line); err != nil {
		return err
	}
	if err := s.store.UpdateCart(cart); err != nil {
		return err
	}

	s.logger.Infow("added to cart",
		"title", line.Title,
		"schedule", line.Schedule,
		"quantity", line.Quantity,
	)
	return nil
}
