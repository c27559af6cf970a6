// Package recommend talks to the external recommendation service and turns
// its answers into catalog-safe values.
package recommend

import (
	"context"

	"github.com/bhanu79755/Shopbuy/internal/domain"
)

// Interpretation is the service's structured reading of a search query. Prices
// are in dollars, as the service returns them.
type Interpretation struct {
	SearchTerm string   `json:"searchTerm"`
	Category   *string  `json:"category"`
	MinPrice   *float64 `json:"minPrice"`
	MaxPrice   *float64 `json:"maxPrice"`
}

// Suggestion is a generated product idea. Price is in dollars.
type Suggestion struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// Service is the external recommendation service. Implementations return raw
// answers; validation and degradation happen in Adapter.
type Service interface {
	InterpretQuery(ctx context.Context, query string, categories []string) (Interpretation, error)
	SimilarProducts(ctx context.Context, product domain.Product, catalog []domain.Product) ([]int64, error)
	RelatedProducts(ctx context.Context, history []domain.Product) ([]Suggestion, error)
}
