package api

import (
	"context"
	"fmt"

	"show-reservations-client/internal/models"
)

// LoginResult carries the opaque token and user record the backend
// returns on successful authentication
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	var result LoginResult
	if err := c.post(ctx, "/accounts/api/login/", "", body, &result); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &result, nil
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := c.post(ctx, "/accounts/api/register/", "", req, nil); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Prices fetches the complete price category list
func (c *Client) Prices(ctx context.Context) ([]models.PriceCategory, error) {
	var prices []models.PriceCategory
	if err := c.get(ctx, "/accounts/api/prices/", nil, "", &prices); err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	return prices, nil
}

// UserCart fetches the server-side cart for the user
func (c *Client) UserCart(ctx context.Context, token string, userID int) (*models.CartSnapshot, error) {
	var cart models.CartSnapshot
	path := fmt.Sprintf("/accounts/api/user-cart/%d/", userID)
	if err := c.get(ctx, path, nil, token, &cart); err != nil {
		return nil, fmt.Errorf("failed to fetch cart for user %d: %w", userID, err)
	}
	return &cart, nil
}

// ClearCart empties the server-side cart. The call carries no body and is
// idempotent from the client's point of view.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	if err := c.post(ctx, "/accounts/api/clear-cart/", token, nil, nil); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// SubmitOrder submits the resolved, priced order. Called at most once per
// checkout attempt; never retried by the client.
func (c *Client) SubmitOrder(ctx context.Context, token string, order *models.Order) error {
	if err := c.post(ctx, "/accounts/api/payment-success/", token, order, nil); err != nil {
		return fmt.Errorf("failed to submit order: %w", err)
	}
	return nil
}

// UserReservations fetches the booking history for the user
func (c *Client) UserReservations(ctx context.Context, token string, userID int) ([]models.Reservation, error) {
	var reservations []models.Reservation
	path := fmt.Sprintf("/accounts/api/user-reservations/%d/", userID)
	if err := c.get(ctx, path, nil, token, &reservations); err != nil {
		return nil, fmt.Errorf("failed to fetch reservations for user %d: %w", userID, err)
	}
	return reservations, nil
}
