package products

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// StaticService provides deterministic catalog data for local development
// and handler tests.
type StaticService struct {
	variations []Variation
}

// NewStaticService returns a StaticService with a representative catalog.
func NewStaticService() *StaticService {
	price := func(v string) decimal.Decimal {
		d, _ := decimal.NewFromString(v)
		return d
	}

	return &StaticService{
		variations: []Variation{
			{ID: "var-101", ProductID: "prod-10", ProductName: "Classic Panjabi", VariationName: "Navy / M", SKU: "CP-NM", Price: price("2450.00"), StockQuantity: 14},
			{ID: "var-102", ProductID: "prod-10", ProductName: "Classic Panjabi", VariationName: "Navy / L", SKU: "CP-NL", Price: price("2450.00"), StockQuantity: 6},
			{ID: "var-201", ProductID: "prod-20", ProductName: "Festive Saree", VariationName: "Maroon", SKU: "FS-MR", Price: price("5600.00"), StockQuantity: 3},
			{ID: "var-301", ProductID: "prod-30", ProductName: "Leather Sandal", VariationName: "Brown / 42", SKU: "LS-B42", Price: price("1890.00"), StockQuantity: 0},
			{ID: "var-302", ProductID: "prod-30", ProductName: "Leather Sandal", VariationName: "Brown / 43", SKU: "LS-B43", Price: price("1890.00"), StockQuantity: 9},
		},
	}
}

// SearchVariations filters the fixture catalog by substring match on product
// and variation names.
func (s *StaticService) SearchVariations(_ context.Context, _ string, term string, limit int) ([]Variation, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	var matched []Variation
	for _, v := range s.variations {
		if needle != "" {
			haystack := strings.ToLower(v.ProductName + " " + v.VariationName + " " + v.SKU)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matched = append(matched, v)
		if len(matched) >= limit {
			break
		}
	}
	return matched, nil
}
