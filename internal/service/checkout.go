package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
	"github.com/bhanu79755/Shopbuy/pkg/validator"
)

// CheckoutService simulates placing an order. Nothing is persisted and no
// payment is attempted.
type CheckoutService struct {
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewCheckoutService(events EventPublisher, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		events: events,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// PlaceOrder validates the shipping form, empties the session's cart and
// returns a confirmation. Invalid input or an empty cart leaves the cart as it
// was.
func (c *CheckoutService) PlaceOrder(ctx context.Context, sess *Session, details domain.ShippingDetails) (domain.OrderConfirmation, error) {
	if err := validator.Validate(details); err != nil {
		return domain.OrderConfirmation{}, err
	}

	cart, total, err := sess.takeCart()
	if err != nil {
		return domain.OrderConfirmation{}, err
	}

	order := domain.OrderConfirmation{
		OrderID:  c.newID(),
		Items:    cart.Items,
		Total:    total,
		PlacedAt: c.now().UTC(),
	}

	l := logger.WithContext(ctx, c.logger)
	if err := c.events.PublishOrderPlaced(ctx, sess.ID(), order); err != nil {
		l.Error("failed to publish order.placed event",
			slog.String("order_id", order.OrderID),
			slog.String("error", err.Error()),
		)
	}

	l.Info("order placed",
		slog.String("order_id", order.OrderID),
		slog.Int64("total", order.Total),
		slog.Int("items", len(order.Items)),
	)
	return order, nil
}
