package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bhanu79755/Shopbuy/internal/domain"
	pkgkafka "github.com/bhanu79755/Shopbuy/pkg/kafka"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
)

// Kafka topic constants for storefront domain events.
const (
	TopicOrderPlaced         = "shopbuy.order.placed"
	TopicProductImageUpdated = "shopbuy.product.image_updated"
)

// Aggregate type constants.
const (
	AggregateTypeOrder   = "order"
	AggregateTypeProduct = "product"
)

// SourceStorefront identifies events published by this service.
const SourceStorefront = "shopbuy-storefront"

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID   string          `json:"order_id"`
	SessionID string          `json:"session_id"`
	Items     []OrderItemData `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     int64           `json:"total"`
	PlacedAt  time.Time       `json:"placed_at"`
}

// OrderItemData is one line of an order.placed event.
type OrderItemData struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// ProductImageUpdatedData is the payload for a product.image_updated event.
// Data URIs are not copied into the event; only their size is reported.
type ProductImageUpdatedData struct {
	ProductID int64  `json:"product_id"`
	ImageURL  string `json:"image_url,omitempty"`
	DataURI   bool   `json:"data_uri"`
	Size      int    `json:"size"`
}

// Publisher is satisfied by *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

type discard struct{}

func (discard) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

// Producer publishes storefront domain events.
type Producer struct {
	pub    Publisher
	logger *slog.Logger
}

// NewProducer creates a producer. A nil pub drops every event, which is how
// the service runs without Kafka.
func NewProducer(pub Publisher, logger *slog.Logger) *Producer {
	if pub == nil {
		pub = discard{}
	}
	return &Producer{pub: pub, logger: logger}
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, sessionID string, order domain.OrderConfirmation) error {
	items := make([]OrderItemData, len(order.Items))
	count := 0
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
		count += item.Quantity
	}

	data := OrderPlacedData{
		OrderID:   order.OrderID,
		SessionID: sessionID,
		Items:     items,
		ItemCount: count,
		Total:     order.Total,
		PlacedAt:  order.PlacedAt,
	}

	event, err := pkgkafka.NewEvent(TopicOrderPlaced, order.OrderID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}
	event.WithMetadata(metadataSessionID, sessionID)
	if err := p.pub.Publish(ctx, TopicOrderPlaced, withCorrelation(ctx, event)); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", order.OrderID),
		slog.Int64("total", order.Total),
	)
	return nil
}

// PublishProductImageUpdated publishes a product.image_updated event.
func (p *Producer) PublishProductImageUpdated(ctx context.Context, productID int64, image string) error {
	data := ProductImageUpdatedData{ProductID: productID, Size: len(image)}
	if strings.HasPrefix(image, "data:") {
		data.DataURI = true
	} else {
		data.ImageURL = image
	}

	aggregateID := strconv.FormatInt(productID, 10)
	event, err := pkgkafka.NewEvent(TopicProductImageUpdated, aggregateID, AggregateTypeProduct, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create product.image_updated event: %w", err)
	}
	if err := p.pub.Publish(ctx, TopicProductImageUpdated, withCorrelation(ctx, event)); err != nil {
		return fmt.Errorf("publish product.image_updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.image_updated event",
		slog.Int64("product_id", productID),
		slog.Bool("data_uri", data.DataURI),
	)
	return nil
}

// metadataSessionID carries the shopper's session on order events.
const metadataSessionID = "session_id"

func withCorrelation(ctx context.Context, e *pkgkafka.Event) *pkgkafka.Event {
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		return e.WithCorrelationID(id)
	}
	return e
}
