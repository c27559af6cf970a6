// Package engine filters and orders catalog products. Every function is pure:
// inputs are never modified and a new slice is returned.
package engine

import (
	"slices"
	"strings"

	"github.com/bhanu79755/Shopbuy/internal/domain"
)

// ComputeVisibleProducts applies, in order: the search term (case-insensitive
// substring of name or description), the exact category, the inclusive price
// bounds, and finally the sort order.
func ComputeVisibleProducts(
	all []domain.Product,
	category *string,
	priceRange domain.PriceRange,
	sortOrder domain.SortOrder,
	searchTerm string,
) []domain.Product {
	out := filter(all, searchTerm, category, priceRange.Min, priceRange.Max)
	sortProducts(out, sortOrder)
	return out
}

// Visible is ComputeVisibleProducts driven by a session's filter state.
func Visible(all []domain.Product, f domain.FilterState, searchTerm string) []domain.Product {
	return ComputeVisibleProducts(all, f.Category, f.PriceRange, f.SortOrder, searchTerm)
}

// Apply narrows products by interpreted query criteria without reordering.
func Apply(products []domain.Product, c domain.QueryCriteria) []domain.Product {
	return filter(products, c.SearchTerm, c.Category, c.MinPrice, c.MaxPrice)
}

func filter(products []domain.Product, term string, category *string, minPrice, maxPrice *int64) []domain.Product {
	termLower := strings.ToLower(term)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if termLower != "" &&
			!strings.Contains(strings.ToLower(p.Name), termLower) &&
			!strings.Contains(strings.ToLower(p.Description), termLower) {
			continue
		}
		if category != nil && p.Category != *category {
			continue
		}
		if minPrice != nil && p.Price < *minPrice {
			continue
		}
		if maxPrice != nil && p.Price > *maxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortProducts(products []domain.Product, order domain.SortOrder) {
	switch order {
	case domain.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compare(a.Price, b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compare(b.Price, a.Price)
		})
	case domain.SortRatingDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compare(b.AverageRating, a.AverageRating)
		})
	default:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compare(a.ID, b.ID)
		})
	}
}

func compare[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Categories returns the distinct categories of products, sorted.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	slices.Sort(out)
	return out
}
