package service

import (
	"context"
	"log/slog"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/internal/engine"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
)

// Recommender is the degrading AI boundary. *recommend.Adapter satisfies it.
type Recommender interface {
	InterpretQuery(ctx context.Context, rawQuery string, knownCategories []string) domain.QueryCriteria
	SuggestSimilar(ctx context.Context, product domain.Product, catalog []domain.Product) []int64
}

// SearchResult is an interpreted query and the products it selects.
type SearchResult struct {
	Query    string               `json:"query"`
	Criteria domain.QueryCriteria `json:"criteria"`
	Products []domain.Product     `json:"products"`
}

// BrowseService computes what a session sees: the filtered catalog, search
// results and similar products.
type BrowseService struct {
	catalog *CatalogService
	ai      Recommender
	logger  *slog.Logger
}

func NewBrowseService(catalog *CatalogService, ai Recommender, logger *slog.Logger) *BrowseService {
	return &BrowseService{catalog: catalog, ai: ai, logger: logger}
}

// Visible applies the session's filters to the catalog.
func (b *BrowseService) Visible(sess *Session) []domain.Product {
	return engine.Visible(b.catalog.Products(), sess.Filters(), "")
}

// Search interprets query, narrows the catalog by the interpreted criteria,
// then applies the session's filters and sort on top.
func (b *BrowseService) Search(ctx context.Context, sess *Session, query string) SearchResult {
	all := b.catalog.Products()
	criteria := b.ai.InterpretQuery(ctx, query, engine.Categories(all))

	narrowed := engine.Apply(all, criteria)
	products := engine.Visible(narrowed, sess.Filters(), "")

	logger.WithContext(ctx, b.logger).Info("search",
		slog.String("search_term", criteria.SearchTerm),
		slog.Bool("category", criteria.Category != nil),
		slog.Int("results", len(products)),
	)
	return SearchResult{Query: query, Criteria: criteria, Products: products}
}

// Similar returns catalog products the recommender considers like id, in the
// recommender's order.
func (b *BrowseService) Similar(ctx context.Context, id int64) ([]domain.Product, error) {
	product, err := b.catalog.Product(id)
	if err != nil {
		return nil, err
	}
	all := b.catalog.Products()

	ids := b.ai.SuggestSimilar(ctx, product, all)
	out := make([]domain.Product, 0, len(ids))
	for _, sid := range ids {
		if i := domain.IndexOf(all, sid); i >= 0 {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// ViewProduct returns a product with its review summary and records the view
// in the session's history.
func (b *BrowseService) ViewProduct(sess *Session, id int64) (domain.Product, domain.ReviewSummary, error) {
	product, err := b.catalog.Product(id)
	if err != nil {
		return domain.Product{}, domain.ReviewSummary{}, err
	}
	sess.AddToHistory(product)
	return product, product.Summary(), nil
}
