package repository

import (
	"context"
	"strconv"
	"strings"
)

// OverrideKeyPrefix prefixes every image override key.
const OverrideKeyPrefix = "product_image_"

// OverrideKey returns the storage key for a product's image override.
func OverrideKey(productID int64) string {
	return OverrideKeyPrefix + strconv.FormatInt(productID, 10)
}

// ParseOverrideKey extracts the product ID from an override key.
func ParseOverrideKey(key string) (int64, bool) {
	rest, ok := strings.CutPrefix(key, OverrideKeyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ImageOverrideStore persists per-product image overrides.
type ImageOverrideStore interface {
	// GetMany returns the overrides that exist for ids. Missing keys are simply
	// absent from the result.
	GetMany(ctx context.Context, ids []int64) (map[int64]string, error)

	// Set stores or replaces the override for a product.
	Set(ctx context.Context, productID int64, image string) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
