package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Kafka topic for storefront activity events.
const TopicCartItemAdded = "storefront.cart.item_added"

// Aggregate type constant.
const AggregateTypeCartSession = "cart_session"

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CartItemAddedData is the payload for a cart.item_added activity event.
type CartItemAddedData struct {
	CartID    string  `json:"cart_id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Producer publishes storefront activity events to Kafka. Publishing is
// best-effort telemetry: failures are logged by the caller and never affect
// the shopper-facing operation.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new activity event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartItemAdded publishes a cart.item_added event for a successful
// cart mutation.
func (p *Producer) PublishCartItemAdded(ctx context.Context, cartID string, line domain.CartLineSnapshot) error {
	data := CartItemAddedData{
		CartID:    cartID,
		ProductID: line.ProductID,
		Name:      line.Name,
		Price:     line.Price,
		Quantity:  line.Quantity,
	}

	event, err := pkgkafka.NewEvent(TopicCartItemAdded, cartID, AggregateTypeCartSession, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.item_added event: %w", err)
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, TopicCartItemAdded, event); err != nil {
		return fmt.Errorf("publish cart.item_added event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.item_added event",
		slog.String("cart_id", cartID),
		slog.String("product_id", line.ProductID),
	)

	return nil
}
