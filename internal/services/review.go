package services

import (
	"context"
	"strings"

	"show-reservations-client/internal/models"
)

// ReviewService is the read-only reviews view
type ReviewService struct {
	backend CatalogBackend
}

// NewReviewService creates a new review service
func NewReviewService(backend CatalogBackend) *ReviewService {
	return &ReviewService{backend: backend}
}

// ShowsWithReviews lists shows and their reviews, optionally filtered by
// a case-insensitive title search.
func (s *ReviewService) ShowsWithReviews(ctx context.Context, search string) ([]models.ShowReviews, error) {
	shows, err := s.backend.ShowsWithReviews(ctx)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return shows, nil
	}

	query := strings.ToLower(search)
	filtered := make([]models.ShowReviews, 0, len(shows))
	for _, show := range shows {
		if strings.Contains(strings.ToLower(show.Show.Title), query) {
			filtered = append(filtered, show)
		}
	}
	return filtered, nil
}
