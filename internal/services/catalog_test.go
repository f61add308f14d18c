package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"show-reservations-client/internal/logger"
	"show-reservations-client/internal/models"
)

func TestCatalogService_ArtistDetailCached(t *testing.T) {
	backend := &fakeCatalogBackend{artist: &models.ArtistDetail{
		ID: 4, Firstname: "Anna", Lastname: "Pavlova",
	}}
	service := NewCatalogService(backend, newSessionStore(t, false), time.Minute, logger.NewNop())

	for i := 0; i < 3; i++ {
		artist, err := service.ArtistDetail(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, "Pavlova", artist.Lastname)
	}

	assert.Equal(t, 1, backend.artistCalls, "repeat lookups come from the browse cache")
}

func TestCatalogService_RepresentationsCachedPerTitle(t *testing.T) {
	backend := &fakeCatalogBackend{reps: []models.Representation{
		{ID: 7, Title: "Swan Lake", Schedule: "2025-06-01T20:00", Location: "Hall A"},
	}}
	service := NewCatalogService(backend, newSessionStore(t, false), time.Minute, logger.NewNop())

	_, err := service.Representations(context.Background(), "Swan Lake")
	require.NoError(t, err)
	_, err = service.Representations(context.Background(), "Swan Lake")
	require.NoError(t, err)

	assert.Equal(t, 1, backend.repsCalls)
}

func TestCatalogService_AddToCart(t *testing.T) {
	store := newSessionStore(t, true)
	service := NewCatalogService(&fakeCatalogBackend{}, store, time.Minute, logger.NewNop())

	line := models.CartLineItem{
		Title:    "Faust",
		Schedule: "2025-09-12T19:30",
		Location: "Grand Hall",
		Quantity: 1,
		Price:    models.PriceRef{Type: "reduced"},
	}
	require.NoError(t, service.AddToCart(line))

	sess, ok := store.Get()
	require.True(t, ok)
	assert.Len(t, sess.Cart.Items, 2)
}

func TestCatalogService_AddToCart_Invalid(t *testing.T) {
	store := newSessionStore(t, true)
	service := NewCatalogService(&fakeCatalogBackend{}, store, time.Minute, logger.NewNop())

	err := service.AddToCart(models.CartLineItem{Title: "Faust", Schedule: "x", Location: "y", Quantity: 0, Price: models.PriceRef{Type: "standard"}})
	assert.True(t, errors.Is(err, models.ErrInvalidQuantity), "zero quantity never reaches the store")

	sess, _ := store.Get()
	assert.Len(t, sess.Cart.Items, 1, "cart unchanged")
}

func TestCatalogService_AddToCart_LoggedOut(t *testing.T) {
	service := NewCatalogService(&fakeCatalogBackend{}, newSessionStore(t, false), time.Minute, logger.NewNop())

	err := service.AddToCart(models.CartLineItem{
		Title: "Faust", Schedule: "2025-09-12T19:30", Location: "Grand Hall",
		Quantity: 1, Price: models.PriceRef{Type: "standard"},
	})
	assert.True(t, errors.Is(err, models.ErrNotLoggedIn))
}
