package recommend

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/pkg/breaker"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
	"github.com/bhanu79755/Shopbuy/pkg/tracing"
)

const tracerName = "shopbuy/recommend"

// DefaultCallTimeout bounds a single external call when none is configured.
const DefaultCallTimeout = 10 * time.Second

// AdapterConfig configures Adapter.
type AdapterConfig struct {
	// CallTimeout bounds each external call.
	CallTimeout time.Duration

	// Breaker is the template for the per-operation breakers. Name is used as
	// a prefix.
	Breaker breaker.Config
}

// Adapter wraps a Service with timeouts, circuit breaking and validation. Its
// methods never return errors: a failed call degrades to a safe default.
type Adapter struct {
	svc     Service
	timeout time.Duration
	logger  *slog.Logger

	interpret *breaker.Breaker[Interpretation]
	similar   *breaker.Breaker[[]int64]
	related   *breaker.Breaker[[]Suggestion]

	inflight singleflight.Group
}

// NewAdapter creates an Adapter over svc.
func NewAdapter(svc Service, cfg AdapterConfig, l *slog.Logger) *Adapter {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = breaker.DefaultConfig("ai")
	}
	named := func(op string) breaker.Config {
		c := cfg.Breaker
		c.Name = cfg.Breaker.Name + "_" + op
		return c
	}

	return &Adapter{
		svc:       svc,
		timeout:   cfg.CallTimeout,
		logger:    l,
		interpret: breaker.New[Interpretation](named(opInterpret), l),
		similar:   breaker.New[[]int64](named(opSimilar), l),
		related:   breaker.New[[]Suggestion](named(opRelated), l),
	}
}

// InterpretQuery turns a free-text query into catalog criteria. A category
// outside knownCategories is dropped, as are negative or non-finite prices. On
// any failure the raw query becomes the search term.
func (a *Adapter) InterpretQuery(ctx context.Context, rawQuery string, knownCategories []string) domain.QueryCriteria {
	fallback := domain.RawCriteria(rawQuery)
	if strings.TrimSpace(rawQuery) == "" {
		aiCallsTotal.WithLabelValues(opInterpret, outcomeSkipped).Inc()
		return fallback
	}

	res, err := call(ctx, a, opInterpret, a.interpret, func(ctx context.Context) (Interpretation, error) {
		return a.svc.InterpretQuery(ctx, rawQuery, knownCategories)
	}, attribute.Int("query.length", len(rawQuery)))
	if err != nil {
		return fallback
	}

	criteria := domain.QueryCriteria{SearchTerm: strings.TrimSpace(res.SearchTerm)}
	if res.Category != nil && slices.Contains(knownCategories, *res.Category) {
		c := *res.Category
		criteria.Category = &c
	}
	criteria.MinPrice = cents(res.MinPrice)
	criteria.MaxPrice = cents(res.MaxPrice)
	return criteria
}

// SuggestSimilar returns up to the service's choice of catalog IDs similar to
// product. IDs not in catalog, the product's own ID and repeats are dropped.
// Concurrent calls for the same product share one external call.
func (a *Adapter) SuggestSimilar(ctx context.Context, product domain.Product, catalog []domain.Product) []int64 {
	if len(catalog) == 0 {
		aiCallsTotal.WithLabelValues(opSimilar, outcomeSkipped).Inc()
		return []int64{}
	}

	key := strconv.FormatInt(product.ID, 10)
	ch := a.inflight.DoChan(key, func() (any, error) {
		// The shared call outlives any single caller's cancellation.
		shared := context.WithoutCancel(ctx)
		return call(shared, a, opSimilar, a.similar, func(ctx context.Context) ([]int64, error) {
			return a.svc.SimilarProducts(ctx, product, catalog)
		}, attribute.Int64("product.id", product.ID))
	})

	var ids []int64
	select {
	case <-ctx.Done():
		return []int64{}
	case res := <-ch:
		if res.Err != nil {
			return []int64{}
		}
		ids = res.Val.([]int64)
	}

	known := make(map[int64]struct{}, len(catalog))
	for _, p := range catalog {
		known[p.ID] = struct{}{}
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == product.ID {
			continue
		}
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SuggestRelated returns generated products inspired by the browsing history.
// Entries with a blank name or an invalid price are dropped.
func (a *Adapter) SuggestRelated(ctx context.Context, history []domain.Product) []domain.AiProduct {
	if len(history) == 0 {
		aiCallsTotal.WithLabelValues(opRelated, outcomeSkipped).Inc()
		return []domain.AiProduct{}
	}

	suggestions, err := call(ctx, a, opRelated, a.related, func(ctx context.Context) ([]Suggestion, error) {
		return a.svc.RelatedProducts(ctx, history)
	}, attribute.Int("history.length", len(history)))
	if err != nil {
		return []domain.AiProduct{}
	}

	out := make([]domain.AiProduct, 0, len(suggestions))
	for _, s := range suggestions {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		price, ok := domain.CentsFromDollars(s.Price)
		if !ok {
			continue
		}
		out = append(out, domain.AiProduct{
			Name:        name,
			Price:       price,
			Description: strings.TrimSpace(s.Description),
			Category:    strings.TrimSpace(s.Category),
		})
	}
	return out
}

func call[T any](
	ctx context.Context,
	a *Adapter,
	op string,
	b *breaker.Breaker[T],
	fn func(ctx context.Context) (T, error),
	attrs ...attribute.KeyValue,
) (T, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "recommend."+op, attrs...)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	out, err := b.Execute(ctx, fn)
	aiCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	outcome := classify(err)
	aiCallsTotal.WithLabelValues(op, outcome).Inc()
	span.SetAttributes(attribute.String("ai.outcome", outcome))

	if err != nil {
		tracing.RecordError(span, err)
		l := logger.WithContext(ctx, a.logger)
		l.Warn("recommendation call failed, degrading",
			slog.String("operation", op),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
	}
	return out, err
}

func classify(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case breaker.Rejected(err):
		return outcomeRejected
	case errors.Is(err, context.DeadlineExceeded):
		return outcomeTimeout
	default:
		return outcomeError
	}
}

func cents(dollars *float64) *int64 {
	if dollars == nil {
		return nil
	}
	c, ok := domain.CentsFromDollars(*dollars)
	if !ok {
		return nil
	}
	return &c
}
