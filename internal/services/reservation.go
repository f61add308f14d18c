package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"show-reservations-client/internal/models"
	"show-reservations-client/internal/session"
)

// ReservationService is the read-only booking history view. It needs the
// session token but never feeds back into checkout.
type ReservationService struct {
	backend AccountBackend
	store   *session.Store
}

// NewReservationService creates a new reservation service
func NewReservationService(backend AccountBackend, store *session.Store) *ReservationService {
	return &ReservationService{backend: backend, store: store}
}

// History fetches the booking history of the logged-in user
func (s *ReservationService) History(ctx context.Context) ([]models.Reservation, error) {
	sess, ok := s.store.Get()
	if !ok || !sess.Authenticated() {
		return nil, models.ErrNotLoggedIn
	}
	return s.backend.UserReservations(ctx, sess.Token, sess.UserID())
}

// WriteCSV exports reservations in the booking-history export format
func (s *ReservationService) WriteCSV(w io.Writer, reservations []models.Reservation) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Spectacle", "Quantité", "Date de réservation", "Statut"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, res := range reservations {
		record := []string{
			res.Title,
			fmt.Sprintf("%d places", res.Quantity),
			res.BookingDate.Format("02/01/2006 15:04"),
			string(res.Status),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write reservation %d: %w", res.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
