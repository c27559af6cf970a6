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

// SessionHandler serves a shopper's cart, wishlist, history, filters and
// recommendations.
type SessionHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

func NewSessionHandler(catalog *service.CatalogService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{catalog: catalog, logger: logger}
}

// --- Request DTOs ---

// AddCartItemRequest is the JSON body for adding to the cart. Quantity
// defaults to 1 when omitted.
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity"`
}

// UpdateQuantityRequest is the JSON body for changing a line's quantity. Zero
// or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// --- Response DTOs ---

type cartResponse struct {
	Items     []domain.CartItem `json:"items"`
	Total     int64             `json:"total"`
	ItemCount int               `json:"item_count"`
}

type wishlistToggleResponse struct {
	ProductID  int64 `json:"product_id"`
	InWishlist bool  `json:"in_wishlist"`
}

func newCartResponse(s *service.Session) cartResponse {
	cart := s.Cart()
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cartResponse{Items: cart.Items, Total: cart.TotalAmount(), ItemCount: cart.ItemCount()}
}

func orEmpty(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}

// --- Filters ---

// GetFilters handles GET /api/v1/filters
func (h *SessionHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, sessionFromContext(r.Context()).Filters())
}

// SetFilters handles PUT /api/v1/filters
func (h *SessionHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req domain.FilterState
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	sess := sessionFromContext(r.Context())
	if err := sess.SetFilters(req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, sess.Filters())
}

// ClearFilters handles DELETE /api/v1/filters
func (h *SessionHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.ClearFilters()
	httputil.WriteData(w, http.StatusOK, sess.Filters())
}

// --- Cart ---

// GetCart handles GET /api/v1/cart
func (h *SessionHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, newCartResponse(sessionFromContext(r.Context())))
}

// ClearCart handles DELETE /api/v1/cart
func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	sess.ClearCart()
	httputil.WriteData(w, http.StatusOK, newCartResponse(sess))
}

// AddCartItem handles POST /api/v1/cart/items
func (h *SessionHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req AddCartItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	product, err := h.catalog.Product(req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sess := sessionFromContext(r.Context())
	if err := sess.AddToCart(product, quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, newCartResponse(sess))
}

// UpdateCartItem handles PUT /api/v1/cart/items/{productId}
func (h *SessionHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	sess := sessionFromContext(r.Context())
	sess.UpdateQuantity(id, *req.Quantity)
	httputil.WriteData(w, http.StatusOK, newCartResponse(sess))
}

// RemoveCartItem handles DELETE /api/v1/cart/items/{productId}
func (h *SessionHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	sess := sessionFromContext(r.Context())
	sess.RemoveFromCart(id)
	httputil.WriteData(w, http.StatusOK, newCartResponse(sess))
}

// --- Wishlist ---

// GetWishlist handles GET /api/v1/wishlist
func (h *SessionHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, orEmpty(sessionFromContext(r.Context()).Wishlist()))
}

// AddToWishlist handles PUT /api/v1/wishlist/{productId}
func (h *SessionHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	product, err := h.catalog.Product(id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := sessionFromContext(r.Context())
	sess.AddToWishlist(product)
	httputil.WriteData(w, http.StatusOK, orEmpty(sess.Wishlist()))
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/{productId}
func (h *SessionHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	sess := sessionFromContext(r.Context())
	sess.RemoveFromWishlist(id)
	httputil.WriteData(w, http.StatusOK, orEmpty(sess.Wishlist()))
}

// ToggleWishlist handles POST /api/v1/wishlist/{productId}/toggle
func (h *SessionHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, "productId", chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	product, err := h.catalog.Product(id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	saved := sessionFromContext(r.Context()).ToggleWishlist(product)
	httputil.WriteData(w, http.StatusOK, wishlistToggleResponse{ProductID: id, InWishlist: saved})
}

// --- History and recommendations ---

// GetHistory handles GET /api/v1/history
func (h *SessionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, orEmpty(sessionFromContext(r.Context()).History()))
}

// GetRecommendations handles GET /api/v1/recommendations
func (h *SessionHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	snap := sessionFromContext(r.Context()).Recommendations()
	if snap.Items == nil {
		snap.Items = []domain.AiProduct{}
	}
	httputil.WriteData(w, http.StatusOK, snap)
}
