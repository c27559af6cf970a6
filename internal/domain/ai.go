package domain

import "math"

// AiProduct is a generated recommendation. It has no catalog ID.
type AiProduct struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// QueryCriteria is a free-text query interpreted into catalog filters. Prices
// are in cents.
type QueryCriteria struct {
	SearchTerm string  `json:"search_term"`
	Category   *string `json:"category"`
	MinPrice   *int64  `json:"min_price"`
	MaxPrice   *int64  `json:"max_price"`
}

// RawCriteria uses the query text as a plain search term.
func RawCriteria(query string) QueryCriteria {
	return QueryCriteria{SearchTerm: query}
}

// CentsFromDollars converts a dollar amount to cents, rounding to the nearest
// cent. It rejects negative and non-finite values.
func CentsFromDollars(d float64) (int64, bool) {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, false
	}
	// float64(MaxInt64) is 2^63, which does not fit in int64.
	c := math.Round(d * 100)
	if c >= math.MaxInt64 {
		return 0, false
	}
	return int64(c), true
}

// Dollars converts cents to a dollar amount.
func Dollars(cents int64) float64 {
	return float64(cents) / 100
}
