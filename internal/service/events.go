package service

import (
	"context"

	"github.com/bhanu79755/Shopbuy/internal/domain"
)

// EventPublisher publishes storefront domain events. Failures are logged by
// callers and never fail the operation that raised the event.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, sessionID string, order domain.OrderConfirmation) error
	PublishProductImageUpdated(ctx context.Context, productID int64, image string) error
}
