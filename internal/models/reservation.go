package models

import "time"

// ReservationStatus represents the status of a booking
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationPending   ReservationStatus = "pending"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is one entry of the user's booking history. Read-only on
// the client; created server-side when an order is submitted.
type Reservation struct {
	ID          int               `json:"id"`
	Title       string            `json:"title"`
	Quantity    int               `json:"quantity"`
	BookingDate time.Time         `json:"booking_date"`
	Status      ReservationStatus `json:"status"`
}
