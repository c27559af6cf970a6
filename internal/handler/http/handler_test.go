package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bhanu79755/Shopbuy/internal/catalog"
	"github.com/bhanu79755/Shopbuy/internal/event"
	"github.com/bhanu79755/Shopbuy/internal/recommend"
	aimock "github.com/bhanu79755/Shopbuy/internal/recommend/mock"
	"github.com/bhanu79755/Shopbuy/internal/repository/memory"
	"github.com/bhanu79755/Shopbuy/internal/service"
	"github.com/bhanu79755/Shopbuy/pkg/breaker"
	"github.com/bhanu79755/Shopbuy/pkg/health"
	"github.com/bhanu79755/Shopbuy/pkg/httputil"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
	"github.com/bhanu79755/Shopbuy/pkg/middleware"
)

// ============================================================================
// Test helpers
// ============================================================================

type testEnv struct {
	router    http.Handler
	catalog   *service.CatalogService
	sessions  *service.SessionStore
	ai        *aimock.Service
	overrides *memory.OverrideStore
}

// newTestEnv wires the production router over in-memory dependencies and the
// keyword recommendation service.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	l := logger.Discard()

	seed, err := catalog.Seed()
	require.NoError(t, err)

	overrides := memory.NewOverrideStore()
	producer := event.NewProducer(nil, l)

	ai := aimock.New()
	bc := breaker.DefaultConfig("handler_" + t.Name())
	adapter := recommend.NewAdapter(ai, recommend.AdapterConfig{CallTimeout: time.Second, Breaker: bc}, l)

	cat := service.NewCatalogService(seed, overrides, producer, l)
	cat.Load(t.Context())

	sessions := service.NewSessionStore(adapter.SuggestRelated, 10*time.Millisecond, time.Hour, l)
	t.Cleanup(sessions.Close)

	svc := Services{
		Catalog:  cat,
		Browse:   service.NewBrowseService(cat, adapter, l),
		Checkout: service.NewCheckoutService(producer, l),
		Sessions: sessions,
	}
	router := NewRouter(svc, health.NewHandler(), RouterConfig{CORS: middleware.DefaultCORSConfig()}, l)

	return &testEnv{router: router, catalog: cat, sessions: sessions, ai: ai, overrides: overrides}
}

// do sends a request as session "s1". A nil body sends none; a string is sent
// as-is; anything else is JSON-encoded.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doAs(t, "s1", method, path, body)
}

func (e *testEnv) doAs(t *testing.T, sessionID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionIDHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeResponse reads the envelope and decodes its data into dst when dst
// is not nil.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) httputil.Response {
	t.Helper()
	var raw struct {
		Data  json.RawMessage         `json:"data"`
		Error *httputil.ErrorResponse `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	if dst != nil {
		require.NotEmpty(t, raw.Data, "response has no data")
		require.NoError(t, json.Unmarshal(raw.Data, dst))
	}
	return httputil.Response{Data: raw.Data, Error: raw.Error}
}

func ids(products []productJSON) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// productJSON is the subset of a product the tests look at.
type productJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Image    string `json:"image"`
}
