package domain

import "math"

// Specification is one name/value row of a product's spec sheet.
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is a catalog entry. Price is in cents.
type Product struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Price          int64           `json:"price"`
	Description    string          `json:"description"`
	Image          string          `json:"image"`
	AverageRating  float64         `json:"average_rating"`
	ReviewCount    int             `json:"review_count"`
	Category       string          `json:"category"`
	Brand          string          `json:"brand"`
	Specifications []Specification `json:"specifications,omitempty"`
	Reviews        []Review        `json:"reviews,omitempty"`
	Questions      []Question      `json:"questions,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate catalog-owned slices.
func (p Product) Clone() Product {
	c := p
	if p.Specifications != nil {
		c.Specifications = append([]Specification(nil), p.Specifications...)
	}
	if p.Reviews != nil {
		c.Reviews = append([]Review(nil), p.Reviews...)
	}
	if p.Questions != nil {
		c.Questions = make([]Question, len(p.Questions))
		for i, q := range p.Questions {
			c.Questions[i] = q.clone()
		}
	}
	return c
}

// ReviewSummary is the rating shown next to a product.
type ReviewSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Summary averages the listed reviews. Products without listed reviews fall
// back to their catalog rating and count.
func (p Product) Summary() ReviewSummary {
	if len(p.Reviews) == 0 {
		return ReviewSummary{Average: p.AverageRating, Count: p.ReviewCount}
	}
	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(p.Reviews))
	return ReviewSummary{Average: math.Round(avg*10) / 10, Count: len(p.Reviews)}
}

// CloneProducts deep-copies a product list.
func CloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// IndexOf returns the position of the product with id, or -1.
func IndexOf(products []Product, id int64) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
