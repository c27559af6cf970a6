package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Session header
// ============================================================================

func TestSessionRoutes_RequireHeader(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/products", "/api/v1/cart", "/api/v1/wishlist", "/api/v1/filters"} {
		rec := env.doAs(t, "", http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)

		resp := decodeResponse(t, rec, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "MISSING_SESSION", resp.Error.Code)
	}
	assert.Zero(t, env.sessions.Len())
}

func TestSessionRoutes_IsolatedPerSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAs(t, "alice", http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	var cart cartResponse
	decodeResponse(t, env.doAs(t, "bob", http.MethodGet, "/api/v1/cart", nil), &cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 2, env.sessions.Len())
}

// ============================================================================
// Catalog browsing
// ============================================================================

func TestListProducts_DefaultOrder(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []productJSON `json:"products"`
		Total    int           `json:"total"`
	}
	decodeResponse(t, rec, &body)
	assert.Equal(t, 21, body.Total)
	assert.Equal(t, int64(1), body.Products[0].ID)
	assert.Equal(t, int64(21), body.Products[20].ID)
}

func TestListProducts_AppliesSessionFilters(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/filters", map[string]any{
		"category":    "Home & Kitchen",
		"price_range": map[string]any{"min": 5000, "max": 15000},
		"sort_order":  "price-asc",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []productJSON `json:"products"`
	}
	decodeResponse(t, env.do(t, http.MethodGet, "/api/v1/products", nil), &body)
	assert.Equal(t, []int64{10, 9, 8}, ids(body.Products))
}

func TestGetProduct_RecordsHistoryAndSummary(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		Product       productJSON `json:"product"`
		ReviewSummary struct {
			Count int `json:"count"`
		} `json:"review_summary"`
		InWishlist bool `json:"in_wishlist"`
	}
	decodeResponse(t, rec, &detail)
	assert.Equal(t, int64(3), detail.Product.ID)
	assert.False(t, detail.InWishlist)

	var history []productJSON
	decodeResponse(t, env.do(t, http.MethodGet, "/api/v1/history", nil), &history)
	assert.Equal(t, []int64{3}, ids(history))
}

func TestGetProduct_NotFoundAndBadID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeResponse(t, rec, nil).Error.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeResponse(t, rec, nil).Error.Code)
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)

	var cats []string
	decodeResponse(t, env.doAs(t, "", http.MethodGet, "/api/v1/categories", nil), &cats)
	assert.Len(t, cats, 7)
	assert.Contains(t, cats, "Books")
}

// ============================================================================
// Search and similar products
// ============================================================================

func TestSearch_InterpretsQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/search?q=books+under+20", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Criteria struct {
			Category *string `json:"category"`
			MaxPrice *int64  `json:"max_price"`
		} `json:"criteria"`
		Products []productJSON `json:"products"`
	}
	decodeResponse(t, rec, &res)
	require.NotNil(t, res.Criteria.Category)
	assert.Equal(t, "Books", *res.Criteria.Category)
	require.NotNil(t, res.Criteria.MaxPrice)
	assert.Equal(t, int64(2000), *res.Criteria.MaxPrice)
	assert.Equal(t, []int64{5, 6}, ids(res.Products))
}

func TestSearch_ServiceFailureFallsBackToRawQuery(t *testing.T) {
	env := newTestEnv(t)
	env.ai.Err = assert.AnError

	var res struct {
		Criteria struct {
			SearchTerm string  `json:"search_term"`
			Category   *string `json:"category"`
		} `json:"criteria"`
		Products []productJSON `json:"products"`
	}
	decodeResponse(t, env.do(t, http.MethodGet, "/api/v1/search?q=laptop", nil), &res)

	assert.Equal(t, "laptop", res.Criteria.SearchTerm)
	assert.Nil(t, res.Criteria.Category)
	assert.Equal(t, []int64{1}, ids(res.Products))
}

func TestSearch_EmptyQueryNeverCallsService(t *testing.T) {
	env := newTestEnv(t)

	var res struct {
		Products []productJSON `json:"products"`
	}
	decodeResponse(t, env.do(t, http.MethodGet, "/api/v1/search", nil), &res)
	assert.Len(t, res.Products, 21)
	assert.Zero(t, env.ai.Calls())
}

func TestSimilar(t *testing.T) {
	env := newTestEnv(t)

	var similar []productJSON
	decodeResponse(t, env.doAs(t, "", http.MethodGet, "/api/v1/products/1/similar", nil), &similar)
	assert.Equal(t, []int64{2, 3, 4, 5}, ids(similar))

	env.ai.Err = assert.AnError
	rec := env.doAs(t, "", http.MethodGet, "/api/v1/products/2/similar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	similar = nil
	decodeResponse(t, rec, &similar)
	assert.Empty(t, similar)
}

// ============================================================================
// Reviews and questions
// ============================================================================

func TestAddReview(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAs(t, "", http.MethodPost, "/api/v1/products/2/reviews",
		map[string]any{"author": "Kim", "rating": 4, "comment": "Solid"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var review struct {
		ID     int64  `json:"id"`
		Author string `json:"author"`
		Date   string `json:"date"`
	}
	decodeResponse(t, rec, &review)
	assert.Equal(t, "Kim", review.Author)
	assert.Equal(t, time.Now().UTC().Format(time.DateOnly), review.Date)

	p, err := env.catalog.Product(2)
	require.NoError(t, err)
	assert.Equal(t, review.ID, p.Reviews[0].ID)
}

func TestAddReview_ValidationFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAs(t, "", http.MethodPost, "/api/v1/products/2/reviews",
		map[string]any{"author": "", "rating": 9, "comment": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "author")
	assert.Contains(t, resp.Error.Fields, "rating")
	assert.Contains(t, resp.Error.Fields, "comment")
}

func TestAskQuestion_GuestDefault(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doAs(t, "", http.MethodPost, "/api/v1/products/4/questions", map[string]any{"question": "Battery?"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var q struct {
		Author string  `json:"author"`
		Answer *string `json:"answer"`
	}
	decodeResponse(t, rec, &q)
	assert.Equal(t, "Guest", q.Author)
	assert.Nil(t, q.Answer)
}

func TestReviews_RejectNonJSONContentType(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/2/reviews", strings.NewReader("author=Kim"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
