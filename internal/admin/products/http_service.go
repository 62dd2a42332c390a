package products

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trendora/storefront-admin/internal/admin/api"
)

const defaultSearchLimit = 25

// HTTPService implements Service against GET /products.
type HTTPService struct {
	client *api.Client
}

// NewHTTPService constructs an HTTPService on top of the shared API client.
func NewHTTPService(client *api.Client) *HTTPService {
	return &HTTPService{client: client}
}

type productsResponse struct {
	Products []struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Variations []struct {
			ID            string          `json:"id"`
			Name          string          `json:"name"`
			SKU           string          `json:"sku"`
			Price         decimal.Decimal `json:"price"`
			StockQuantity int             `json:"stockQuantity"`
		} `json:"variations"`
	} `json:"products"`
}

// SearchVariations fetches matching products with their variations embedded
// and flattens them into selectable line-item candidates.
func (s *HTTPService) SearchVariations(ctx context.Context, token, term string, limit int) ([]Variation, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("includeVariations", "true")
	if trimmed := strings.TrimSpace(term); trimmed != "" {
		values.Set("search", trimmed)
	}

	var resp productsResponse
	if err := s.client.Get(ctx, token, "/products", values, &resp); err != nil {
		return nil, err
	}

	var variations []Variation
	for _, product := range resp.Products {
		for _, v := range product.Variations {
			variations = append(variations, Variation{
				ID:            v.ID,
				ProductID:     product.ID,
				ProductName:   product.Name,
				VariationName: v.Name,
				SKU:           v.SKU,
				Price:         v.Price,
				StockQuantity: v.StockQuantity,
			})
		}
	}
	return variations, nil
}
