package models

// PriceRef is the denormalized price reference carried by a cart line.
// Only the human-readable category name is known while browsing; the
// numeric price identifier is resolved at checkout time.
type PriceRef struct {
	Type string `json:"type"`
}

// CartLineItem is one entry of the cart, keyed by display attributes.
// Title, schedule and location together identify a representation; no
// canonical identifier is stored on the client.
type CartLineItem struct {
	Title    string   `json:"title"`
	Schedule string   `json:"schedule"`
	Location string   `json:"location"`
	Quantity int      `json:"quantity"`
	Price    PriceRef `json:"price"`
}

// Validate validates a cart line before it is accepted into the cart
func (li *CartLineItem) Validate() error {
	if li.Title == "" {
		return ErrTitleRequired
	}
	if li.Schedule == "" {
		return ErrScheduleRequired
	}
	if li.Location == "" {
		return ErrLocationRequired
	}
	if li.Price.Type == "" {
		return ErrPriceTypeRequired
	}
	if li.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// CartSnapshot is the locally cached cart, built from catalog display
// data while browsing. It mirrors the server-side cart payload shape.
type CartSnapshot struct {
	Items []CartLineItem `json:"items"`
}

// HasItems reports whether the cart holds at least one line
func (c *CartSnapshot) HasItems() bool {
	return c != nil && len(c.Items) > 0
}

// TotalQuantity sums the quantities across all lines
func (c *CartSnapshot) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Add merges a line into the snapshot. A line matching an existing entry
// on title, schedule, location and price type increments its quantity.
func (c *CartSnapshot) Add(line CartLineItem) error {
	if err := line.Validate(); err != nil {
		return err
	}
	for i := range c.Items {
		existing := &c.Items[i]
		if existing.Title == line.Title &&
			existing.Schedule == line.Schedule &&
			existing.Location == line.Location &&
			existing.Price.Type == line.Price.Type {
			existing.Quantity += line.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, line)
	return nil
}
