package domain

import (
	"fmt"

	apperrors "github.com/bhanu79755/Shopbuy/pkg/errors"
)

// SortOrder selects how visible products are ordered.
type SortOrder string

const (
	SortDefault    SortOrder = "default"
	SortPriceAsc   SortOrder = "price-asc"
	SortPriceDesc  SortOrder = "price-desc"
	SortRatingDesc SortOrder = "rating-desc"
)

// ParseSortOrder accepts the four known orders. An empty string means default.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortDefault:
		return SortDefault, nil
	case SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return SortOrder(s), nil
	default:
		return "", apperrors.InvalidInput(fmt.Sprintf("unknown sort order %q", s))
	}
}

// PriceRange bounds are inclusive and in cents. Nil means unbounded.
type PriceRange struct {
	Min *int64 `json:"min"`
	Max *int64 `json:"max"`
}

// Inverted reports whether both bounds are set with min above max.
func (r PriceRange) Inverted() bool {
	return r.Min != nil && r.Max != nil && *r.Min > *r.Max
}

// FilterState is a session's sidebar selection.
type FilterState struct {
	Category   *string    `json:"category"`
	PriceRange PriceRange `json:"price_range"`
	SortOrder  SortOrder  `json:"sort_order"`
}

// DefaultFilterState has no category, no price bounds and default order.
func DefaultFilterState() FilterState {
	return FilterState{SortOrder: SortDefault}
}

// Clone copies the pointer fields.
func (f FilterState) Clone() FilterState {
	out := FilterState{SortOrder: f.SortOrder}
	if f.Category != nil {
		c := *f.Category
		out.Category = &c
	}
	if f.PriceRange.Min != nil {
		m := *f.PriceRange.Min
		out.PriceRange.Min = &m
	}
	if f.PriceRange.Max != nil {
		m := *f.PriceRange.Max
		out.PriceRange.Max = &m
	}
	return out
}
