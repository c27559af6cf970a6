package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/internal/service"
	"github.com/bhanu79755/Shopbuy/pkg/httputil"
	"github.com/bhanu79755/Shopbuy/pkg/validator"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// ProductHandler serves catalog browsing, search, reviews and questions.
type ProductHandler struct {
	catalog *service.CatalogService
	browse  *service.BrowseService
	logger  *slog.Logger
}

func NewProductHandler(catalog *service.CatalogService, browse *service.BrowseService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, browse: browse, logger: logger}
}

// --- Response DTOs ---

type productListResponse struct {
	Products []domain.Product   `json:"products"`
	Total    int                `json:"total"`
	Filters  domain.FilterState `json:"filters"`
}

type productDetailResponse struct {
	Product       domain.Product       `json:"product"`
	ReviewSummary domain.ReviewSummary `json:"review_summary"`
	InWishlist    bool                 `json:"in_wishlist"`
}

// --- Handlers ---

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	products := h.browse.Visible(sess)

	httputil.WriteData(w, http.StatusOK, productListResponse{
		Products: products,
		Total:    len(products),
		Filters:  sess.Filters(),
	})
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	sess := sessionFromContext(r.Context())
	product, summary, err := h.browse.ViewProduct(sess, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, productDetailResponse{
		Product:       product,
		ReviewSummary: summary,
		InWishlist:    sess.IsInWishlist(id),
	})
}

// Similar handles GET /api/v1/products/{id}/similar
func (h *ProductHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	products, err := h.browse.Similar(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, products)
}

// Categories handles GET /api/v1/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.catalog.Categories())
}

// Search handles GET /api/v1/search?q=
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	res := h.browse.Search(r.Context(), sessionFromContext(r.Context()), query)
	httputil.WriteData(w, http.StatusOK, res)
}

// AddReview handles POST /api/v1/products/{id}/reviews
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req domain.ReviewInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	review, err := h.catalog.AddReview(r.Context(), id, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, review)
}

// AskQuestion handles POST /api/v1/products/{id}/questions
func (h *ProductHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req domain.QuestionInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	question, err := h.catalog.AskQuestion(r.Context(), id, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, question)
}
