package models

// OrderLine pairs a resolved representation and price with a quantity.
// Lines are transient: they exist only for one checkout submission.
type OrderLine struct {
	RepresentationID int `json:"representation_id"`
	PriceID          int `json:"price_id"`
	Quantity         int `json:"quantity"`
}

// Validate validates a resolved order line before submission
func (l *OrderLine) Validate() error {
	if l.RepresentationID <= 0 || l.PriceID <= 0 {
		return ErrInvalidOrderLine
	}
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// Order is the payload submitted once per checkout attempt. It is never
// retried automatically.
type Order struct {
	Quantities []OrderLine `json:"quantities"`
}
