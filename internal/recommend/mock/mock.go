// Package mock is an in-process recommendation service. It is used when no
// Gemini API key is configured and in tests.
package mock

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/internal/recommend"
)

const suggestionCount = 4

// Service answers from simple keyword rules. Delay and Err simulate a slow or
// failing remote.
type Service struct {
	Delay time.Duration
	Err   error

	calls atomic.Int64
}

var _ recommend.Service = (*Service)(nil)

func New() *Service {
	return &Service{}
}

// Calls reports how many requests the service has received.
func (s *Service) Calls() int64 {
	return s.calls.Load()
}

func (s *Service) wait(ctx context.Context) error {
	s.calls.Add(1)
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return s.Err
}

var (
	underRe = regexp.MustCompile(`(?i)\b(?:under|below|less than|max(?:imum)?)\s*\$?(\d+(?:\.\d+)?)`)
	overRe  = regexp.MustCompile(`(?i)\b(?:over|above|more than|min(?:imum)?|at least)\s*\$?(\d+(?:\.\d+)?)`)
)

// InterpretQuery picks the first category named in the query and reads
// "under N" and "over N" as price bounds. What remains is the search term.
func (s *Service) InterpretQuery(ctx context.Context, query string, categories []string) (recommend.Interpretation, error) {
	if err := s.wait(ctx); err != nil {
		return recommend.Interpretation{}, err
	}

	var out recommend.Interpretation
	term := query
	lower := strings.ToLower(query)
	for _, c := range categories {
		if i := strings.Index(lower, strings.ToLower(c)); i >= 0 {
			cat := c
			out.Category = &cat
			if len(lower) == len(term) {
				term = term[:i] + term[i+len(c):]
			}
			break
		}
	}
	if m := underRe.FindStringSubmatch(term); m != nil {
		out.MaxPrice = parseDollars(m[1])
		term = strings.Replace(term, m[0], "", 1)
	}
	if m := overRe.FindStringSubmatch(term); m != nil {
		out.MinPrice = parseDollars(m[1])
		term = strings.Replace(term, m[0], "", 1)
	}
	out.SearchTerm = strings.Join(strings.Fields(term), " ")
	return out, nil
}

// SimilarProducts returns up to four other products, same category first.
func (s *Service) SimilarProducts(ctx context.Context, product domain.Product, catalog []domain.Product) ([]int64, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, suggestionCount)
	for _, sameCategory := range []bool{true, false} {
		for _, p := range catalog {
			if len(ids) == suggestionCount {
				return ids, nil
			}
			if p.ID == product.ID || (p.Category == product.Category) != sameCategory {
				continue
			}
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

// RelatedProducts invents one accessory per browsed product, up to four.
func (s *Service) RelatedProducts(ctx context.Context, history []domain.Product) ([]recommend.Suggestion, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	out := make([]recommend.Suggestion, 0, suggestionCount)
	for _, p := range history {
		if len(out) == suggestionCount {
			break
		}
		out = append(out, recommend.Suggestion{
			Name:        fmt.Sprintf("%s Companion Kit", p.Brand),
			Price:       domain.Dollars(p.Price / 4),
			Description: fmt.Sprintf("Accessories picked for owners of the %s.", p.Name),
			Category:    p.Category,
		})
	}
	return out, nil
}

func parseDollars(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
