package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/internal/engine"
	"github.com/bhanu79755/Shopbuy/internal/repository"
	apperrors "github.com/bhanu79755/Shopbuy/pkg/errors"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
	"github.com/bhanu79755/Shopbuy/pkg/pagination"
	"github.com/bhanu79755/Shopbuy/pkg/validator"
)

// AdminPerPage is the admin product table's page size.
const AdminPerPage = 10

// CatalogService owns the product list shared by every session.
type CatalogService struct {
	seed      []domain.Product
	overrides repository.ImageOverrideStore
	events    EventPublisher
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	products []domain.Product
}

// NewCatalogService creates a catalog over seed. Until Load is called it
// serves the seed as-is.
func NewCatalogService(seed []domain.Product, overrides repository.ImageOverrideStore, events EventPublisher, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		seed:      domain.CloneProducts(seed),
		overrides: overrides,
		events:    events,
		logger:    logger,
		now:       time.Now,
		products:  domain.CloneProducts(seed),
	}
}

// Load rebuilds the catalog from the seed and the stored image overrides. If
// the overrides cannot be read the seed is used unchanged.
func (s *CatalogService) Load(ctx context.Context) []domain.Product {
	products := domain.CloneProducts(s.seed)

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	overrides, err := s.overrides.GetMany(ctx, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read image overrides, using seed catalog",
			slog.String("error", err.Error()),
		)
		overrides = nil
	}

	for i := range products {
		if image, ok := overrides[products[i].ID]; ok {
			products[i].Image = image
		}
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "catalog loaded",
		slog.Int("products", len(products)),
		slog.Int("image_overrides", len(overrides)),
	)
	return domain.CloneProducts(products)
}

// Products returns a copy of the whole catalog, ordered by ID.
func (s *CatalogService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneProducts(s.products)
}

// Product returns one product by ID.
func (s *CatalogService) Product(id int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := domain.IndexOf(s.products, id)
	if i < 0 {
		return domain.Product{}, productNotFound(id)
	}
	return s.products[i].Clone(), nil
}

// Categories returns the distinct product categories, sorted.
func (s *CatalogService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return engine.Categories(s.products)
}

// SetProductImage replaces a product's image and stores the override. A
// storage failure is logged and the in-memory update still happens.
func (s *CatalogService) SetProductImage(ctx context.Context, id int64, image string) (domain.Product, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return domain.Product{}, apperrors.InvalidInput("image reference is required")
	}
	if _, err := s.Product(id); err != nil {
		return domain.Product{}, err
	}

	l := logger.WithContext(ctx, s.logger)

	if err := s.overrides.Set(ctx, id, image); err != nil {
		l.Error("failed to store image override",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.mu.Lock()
	i := domain.IndexOf(s.products, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Product{}, productNotFound(id)
	}
	s.products[i].Image = image
	updated := s.products[i].Clone()
	s.mu.Unlock()

	if err := s.events.PublishProductImageUpdated(ctx, id, image); err != nil {
		l.Error("failed to publish product.image_updated event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	l.Info("product image updated", slog.Int64("product_id", id))
	return updated, nil
}

// AddReview validates input and prepends a review dated today (UTC).
func (s *CatalogService) AddReview(ctx context.Context, id int64, input domain.ReviewInput) (domain.Review, error) {
	if err := validator.Validate(input); err != nil {
		return domain.Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := domain.IndexOf(s.products, id)
	if i < 0 {
		return domain.Review{}, productNotFound(id)
	}

	p := &s.products[i]
	var nextID int64
	for _, r := range p.Reviews {
		nextID = max(nextID, r.ID)
	}

	review := domain.Review{
		ID:      nextID + 1,
		Author:  strings.TrimSpace(input.Author),
		Rating:  input.Rating,
		Comment: strings.TrimSpace(input.Comment),
		Date:    s.now().UTC().Format(domain.ReviewDateLayout),
	}
	p.Reviews = append([]domain.Review{review}, p.Reviews...)

	logger.WithContext(ctx, s.logger).Info("review added",
		slog.Int64("product_id", id),
		slog.Int("rating", review.Rating),
	)
	return review, nil
}

// AskQuestion validates input and prepends an unanswered question. A blank
// author is recorded as domain.GuestAuthor.
func (s *CatalogService) AskQuestion(ctx context.Context, id int64, input domain.QuestionInput) (domain.Question, error) {
	if err := validator.Validate(input); err != nil {
		return domain.Question{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := domain.IndexOf(s.products, id)
	if i < 0 {
		return domain.Question{}, productNotFound(id)
	}

	p := &s.products[i]
	var nextID int64
	for _, q := range p.Questions {
		nextID = max(nextID, q.ID)
	}

	author := strings.TrimSpace(input.Author)
	if author == "" {
		author = domain.GuestAuthor
	}
	question := domain.Question{
		ID:       nextID + 1,
		Author:   author,
		Question: strings.TrimSpace(input.Question),
		Date:     s.now().UTC(),
	}
	p.Questions = append([]domain.Question{question}, p.Questions...)

	logger.WithContext(ctx, s.logger).Info("question asked", slog.Int64("product_id", id))
	return question, nil
}

// AdminList pages through products whose name contains query, ignoring case.
func (s *CatalogService) AdminList(query string, params pagination.Params) pagination.Result[domain.Product] {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			matched = append(matched, p.Clone())
		}
	}
	s.mu.RUnlock()

	return pagination.Paginate(matched, params)
}

func productNotFound(id int64) *apperrors.AppError {
	return apperrors.NotFound("product", strconv.FormatInt(id, 10))
}
