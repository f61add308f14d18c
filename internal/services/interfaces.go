package services

import (
	"context"

	"show-reservations-client/internal/api"
	"show-reservations-client/internal/models"
)

// RepresentationFinder looks up representations by title.
// *api.Client satisfies it.
type RepresentationFinder interface {
	RepresentationsByTitle(ctx context.Context, title string) ([]models.Representation, error)
}

// CheckoutBackend is the slice of the backend API the checkout
// orchestrator drives. *api.Client satisfies it.
type CheckoutBackend interface {
	RepresentationFinder
	Prices(ctx context.Context) ([]models.PriceCategory, error)
	UserCart(ctx context.Context, token string, userID int) (*models.CartSnapshot, error)
	ClearCart(ctx context.Context, token string) error
	SubmitOrder(ctx context.Context, token string, order *models.Order) error
}

// CatalogBackend is the read-only catalogue surface used while browsing
type CatalogBackend interface {
	RepresentationFinder
	ArtistDetail(ctx context.Context, artistID int) (*models.ArtistDetail, error)
	ShowsWithReviews(ctx context.Context) ([]models.ShowReviews, error)
}

// AccountBackend covers authentication and the per-user query views
type AccountBackend interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	Register(ctx context.Context, req *models.RegisterRequest) error
	UserReservations(ctx context.Context, token string, userID int) ([]models.Reservation, error)
}
