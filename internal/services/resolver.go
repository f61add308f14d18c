package services

import (
	"context"
	"errors"

	"show-reservations-client/internal/logger"
)

// ErrNoMatch is returned when a cart line cannot be resolved to a
// canonical representation
var ErrNoMatch = errors.New("no matching representation")

// CatalogResolver maps the denormalized display attributes of a cart
// line (title, schedule, location) back to the canonical representation
// identifier. The backend filters by title only; schedule and location
// are narrowed here by exact string comparison.
type CatalogResolver struct {
	finder RepresentationFinder
	logger *logger.Logger
}

// NewCatalogResolver creates a new resolver
func NewCatalogResolver(finder RepresentationFinder, log *logger.Logger) *CatalogResolver {
	return &CatalogResolver{finder: finder, logger: log}
}

// ResolveRepresentation returns the id of the first representation whose
// schedule and location both equal the given values exactly. Candidates
// arrive in server order, so repeated calls against unchanged server
// state pick the same id. A fetch failure or an empty candidate set both
// come back as ErrNoMatch; the resolver never aborts sibling lookups.
func (r *CatalogResolver) ResolveRepresentation(ctx context.Context, title, schedule, location string) (int, error) {
	representations, err := r.finder.RepresentationsByTitle(ctx, title)
	if err != nil {
		r.logger.Warnw("representation lookup failed",
			"title", title,
			"error", err,
		)
		return 0, ErrNoMatch
	}

	matched := 0
	first := 0
	for _, rep := range representations {
		if !rep.Matches(schedule, location) {
			continue
		}
		matched++
		if matched == 1 {
			first = rep.ID
		}
	}

	switch {
	case matched == 0:
		r.logger.Infow("no representation matches cart line",
			"title", title,
			"schedule", schedule,
			"location", location,
			"candidates", len(representations),
		)
		return 0, ErrNoMatch
	case matched > 1:
		// Duplicate title+schedule+location triplets are a backend data
		// problem; keep the first id so the choice stays deterministic.
		r.logger.Warnw("ambiguous representation match, using first",
			"title", title,
			"schedule", schedule,
			"location", location,
			"matches", matched,
			"representation_id", first,
		)
	}

	return first, nil
}
