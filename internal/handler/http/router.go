package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bhanu79755/Shopbuy/internal/service"
	"github.com/bhanu79755/Shopbuy/pkg/health"
	"github.com/bhanu79755/Shopbuy/pkg/middleware"
)

const serviceName = "storefront"

// Services groups what the handlers call into.
type Services struct {
	Catalog  *service.CatalogService
	Browse   *service.BrowseService
	Checkout *service.CheckoutService
	Sessions *service.SessionStore
}

// RouterConfig holds the router's cross-cutting settings.
type RouterConfig struct {
	CORS middleware.CORSConfig

	// AILimit throttles endpoints that call the recommendation service. Nil
	// disables throttling.
	AILimit func(http.Handler) http.Handler
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(svc Services, healthHandler *health.Handler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	aiLimit := cfg.AILimit
	if aiLimit == nil {
		aiLimit = func(next http.Handler) http.Handler { return next }
	}

	products := NewProductHandler(svc.Catalog, svc.Browse, logger)
	shopper := NewSessionHandler(svc.Catalog, logger)
	checkout := NewCheckoutHandler(svc.Checkout, logger)
	admin := NewAdminHandler(svc.Catalog, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", products.Categories)

		r.With(aiLimit).Get("/products/{id}/similar", products.Similar)
		r.With(ContentTypeJSON).Post("/products/{id}/reviews", products.AddReview)
		r.With(ContentTypeJSON).Post("/products/{id}/questions", products.AskQuestion)

		// Session-scoped endpoints
		r.Group(func(r chi.Router) {
			r.Use(SessionFromHeader(svc.Sessions))
			r.Use(ContentTypeJSON)

			r.Get("/products", products.List)
			r.Get("/products/{id}", products.Get)
			r.With(aiLimit).Get("/search", products.Search)

			r.Get("/filters", shopper.GetFilters)
			r.Put("/filters", shopper.SetFilters)
			r.Delete("/filters", shopper.ClearFilters)

			r.Get("/cart", shopper.GetCart)
			r.Delete("/cart", shopper.ClearCart)
			r.Post("/cart/items", shopper.AddCartItem)
			r.Put("/cart/items/{productId}", shopper.UpdateCartItem)
			r.Delete("/cart/items/{productId}", shopper.RemoveCartItem)

			r.Get("/wishlist", shopper.GetWishlist)
			r.Put("/wishlist/{productId}", shopper.AddToWishlist)
			r.Delete("/wishlist/{productId}", shopper.RemoveFromWishlist)
			r.Post("/wishlist/{productId}/toggle", shopper.ToggleWishlist)

			r.Get("/history", shopper.GetHistory)
			r.Get("/recommendations", shopper.GetRecommendations)

			r.Post("/checkout", checkout.PlaceOrder)
		})

		r.Get("/admin/products", admin.List)
		r.Put("/admin/products/{id}/image", admin.SetImage)
	})

	return r
}
