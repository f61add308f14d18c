package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"show-reservations-client/internal/logger"
	"show-reservations-client/internal/models"
)

type fakeFinder struct {
	representations []models.Representation
	err             error
}

func (f *fakeFinder) RepresentationsByTitle(ctx context.Context, title string) ([]models.Representation, error) {
	return f.representations, f.err
}

func TestCatalogResolver_ExactMatch(t *testing.T) {
	finder := &fakeFinder{representations: []models.Representation{
		{ID: 5, Title: "Swan Lake", Schedule: "2025-06-01T14:00", Location: "Hall A"},
		{ID: 7, Title: "Swan Lake", Schedule: "2025-06-01T20:00", Location: "Hall A"},
		{ID: 9, Title: "Swan Lake", Schedule: "2025-06-01T20:00", Location: "Hall B"},
	}}
	resolver := NewCatalogResolver(finder, logger.NewNop())

	id, err := resolver.ResolveRepresentation(context.Background(), "Swan Lake", "2025-06-01T20:00", "Hall A")
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestCatalogResolver_NoMatch(t *testing.T) {
	finder := &fakeFinder{representations: []models.Representation{
		{ID: 5, Title: "Swan Lake", Schedule: "2025-06-01T14:00", Location: "Hall A"},
	}}
	resolver := NewCatalogResolver(finder, logger.NewNop())

	_, err := resolver.ResolveRepresentation(context.Background(), "Swan Lake", "2025-06-01T20:00", "Hall A")
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestCatalogResolver_EmptyCandidates(t *testing.T) {
	resolver := NewCatalogResolver(&fakeFinder{}, logger.NewNop())

	_, err := resolver.ResolveRepresentation(context.Background(), "Unknown", "2025-06-01T20:00", "Hall A")
	assert.True(t, errors.Is(err, ErrNoMatch))
}

func TestCatalogResolver_FetchFailureIsNotFound(t *testing.T) {
	resolver := NewCatalogResolver(&fakeFinder{err: errors.New("boom")}, logger.NewNop())

	_, err := resolver.ResolveRepresentation(context.Background(), "Swan Lake", "2025-06-01T20:00", "Hall A")
	assert.True(t, errors.Is(err, ErrNoMatch), "fetch failures surface as not-found, never as a panic")
}

func TestCatalogResolver_DuplicatesStayDeterministic(t *testing.T) {
	finder := &fakeFinder{representations: []models.Representation{
		{ID: 7, Title: "Swan Lake", Schedule: "2025-06-01T20:00", Location: "Hall A"},
		{ID: 8, Title: "Swan Lake", Schedule: "2025-06-01T20:00", Location: "Hall A"},
	}}
	resolver := NewCatalogResolver(finder, logger.NewNop())

	// Identical input against identical server state always yields the
	// same id: the first candidate in server order.
	for i := 0; i < 5; i++ {
		id, err := resolver.ResolveRepresentation(context.Background(), "Swan Lake", "2025-06-01T20:00", "Hall A")
		require.NoError(t, err)
		assert.Equal(t, 7, id)
	}
}

func TestCatalogResolver_NoToleranceWindow(t *testing.T) {
	// One minute off is not a match; comparison is verbatim
	finder := &fakeFinder{representations: []models.Representation{
		{ID: 7, Title: "Swan Lake", Schedule: "2025-06-01T20:01", Location: "Hall A"},
	}}
	resolver := NewCatalogResolver(finder, logger.NewNop())

	_, err := resolver.ResolveRepresentation(context.Background(), "Swan Lake", "2025-06-01T20:00", "Hall A")
	assert.True(t, errors.Is(err, ErrNoMatch))
}
