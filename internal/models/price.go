package models

import "github.com/shopspring/decimal"

// PriceCategory is one named ticket tier from the backend price list
type PriceCategory struct {
	ID     int             `json:"id"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"price"`
}

// PriceIndex maps a price category name to its canonical identifier.
// Built fresh from the backend price list on every checkout attempt.
type PriceIndex map[string]int

// BuildPriceIndex folds a price list into a category-name lookup table
func BuildPriceIndex(prices []PriceCategory) PriceIndex {
	index := make(PriceIndex, len(prices))
	for _, price := range prices {
		index[price.Type] = price.ID
	}
	return index
}

// Lookup resolves a category name to its price identifier
func (idx PriceIndex) Lookup(priceType string) (int, bool) {
	id, ok := idx[priceType]
	return id, ok
}
