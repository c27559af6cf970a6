package http

import (
	"log/slog"
	"net/http"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/internal/service"
	"github.com/bhanu79755/Shopbuy/pkg/httputil"
	"github.com/bhanu79755/Shopbuy/pkg/validator"
)

// CheckoutHandler serves the simulated checkout.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: svc, logger: logger}
}

// PlaceOrder handles POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req domain.ShippingDetails
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), sessionFromContext(r.Context()), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, order)
}
