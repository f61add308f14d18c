package api

import (
	"context"
	"fmt"
	"net/url"

	"show-reservations-client/internal/models"
)

// RepresentationsByTitle fetches every representation whose title matches
// the query. The backend filters by title only; narrowing by schedule and
// location is the caller's job.
func (c *Client) RepresentationsByTitle(ctx context.Context, title string) ([]models.Representation, error) {
	query := url.Values{}
	query.Set("title", title)

	var representations []models.Representation
	if err := c.get(ctx, "/catalogue/api/representations/", query, "", &representations); err != nil {
		return nil, fmt.Errorf("failed to fetch representations for %q: %w", title, err)
	}
	return representations, nil
}

// ShowsWithReviews fetches all shows together with their reviews
func (c *Client) ShowsWithReviews(ctx context.Context) ([]models.ShowReviews, error) {
	var shows []models.ShowReviews
	if err := c.get(ctx, "/catalogue/api/shows/reviews/", nil, "", &shows); err != nil {
		return nil, fmt.Errorf("failed to fetch shows with reviews: %w", err)
	}
	return shows, nil
}

// ArtistDetail fetches the full profile of one artist
func (c *Client) ArtistDetail(ctx context.Context, artistID int) (*models.ArtistDetail, error) {
	var artist models.ArtistDetail
	path := fmt.Sprintf("/catalogue/api/artists/%d/detail/", artistID)
	if err := c.get(ctx, path, nil, "", &artist); err != nil {
		return nil, fmt.Errorf("failed to fetch artist %d: %w", artistID, err)
	}
	return &artist, nil
}

// UserMeta fetches the user record behind the session. The backend
// answers 401 when the token has been revoked, which is how the session
// validator detects a dead session.
func (c *Client) UserMeta(ctx context.Context, token string, userID int) (*models.User, error) {
	var payload struct {
		User models.User `json:"user"`
	}
	path := fmt.Sprintf("/catalogue/api/user-meta/%d/", userID)
	if err := c.get(ctx, path, nil, token, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch user meta for %d: %w", userID, err)
	}
	return &payload.User, nil
}
