// Package products provides the product-variation search used when composing
// manual orders. Variations are flattened across matching products and
// annotated with the parent product name for selection UIs.
package products

import (
	"context"

	"github.com/shopspring/decimal"
)

// Variation is a sellable product variation candidate for a manual order
// line item.
type Variation struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	VariationName string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
}

// Service searches the backend catalog.
type Service interface {
	// SearchVariations returns candidate variations for the search term.
	// Zero results is a valid outcome, not an error.
	SearchVariations(ctx context.Context, token, term string, limit int) ([]Variation, error)
}
