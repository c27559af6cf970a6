// Package catalog holds the fixed product list the storefront starts from.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/bhanu79755/Shopbuy/internal/domain"
)

//go:embed seed.json
var seedJSON []byte

// Seed decodes a fresh copy of the seed catalog, ordered by ID.
func Seed() ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(seedJSON, &products); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	return products, nil
}
