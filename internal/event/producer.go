package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ModyAssociates/saffronsociety/internal/domain"
	pkgkafka "github.com/ModyAssociates/saffronsociety/pkg/kafka"
)

// Kafka topics for storefront domain events.
const (
	TopicCartUpdated    = "saffron.cart.updated"
	TopicCartCleared    = "saffron.cart.cleared"
	TopicCatalogSynced  = "saffron.catalog.synced"
	TopicOrderSubmitted = "saffron.order.submitted"
)

// Aggregate type constants.
const (
	AggregateTypeCart    = "cart"
	AggregateTypeCatalog = "catalog"
	AggregateTypeOrder   = "order"
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Items     []CartLineData `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  float64        `json:"subtotal"`
}

// CartLineData is the line payload within cart events.
type CartLineData struct {
	ProductID string  `json:"product_id"`
	Size      string  `json:"size"`
	ColorHex  string  `json:"color_hex"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// CatalogSyncedData is the payload for a catalog.synced event.
type CatalogSyncedData struct {
	ProductCount int `json:"product_count"`
	SkippedCount int `json:"skipped_count"`
}

// OrderSubmittedData is the payload for an order.submitted event.
type OrderSubmittedData struct {
	SessionID string  `json:"session_id"`
	OrderID   string  `json:"order_id"`
	ItemCount int     `json:"item_count"`
	Subtotal  float64 `json:"subtotal"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartLineData, len(cart.Items))
	for i := range cart.Items {
		line := &cart.Items[i]
		items[i] = CartLineData{
			ProductID: line.Product.ID,
			Size:      line.Size,
			ColorHex:  line.ColorHex,
			Quantity:  line.Quantity,
			UnitPrice: line.EffectivePrice(),
		}
	}

	data := CartUpdatedData{
		SessionID: cart.SessionID,
		Items:     items,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	}

	ev, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, ev); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	ev, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, ev); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	return nil
}

// PublishCatalogSynced publishes a catalog.synced event.
func (p *Producer) PublishCatalogSynced(ctx context.Context, productCount, skippedCount int) error {
	data := CatalogSyncedData{ProductCount: productCount, SkippedCount: skippedCount}

	ev, err := pkgkafka.NewEvent(TopicCatalogSynced, AggregateTypeCatalog, AggregateTypeCatalog, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create catalog.synced event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCatalogSynced, ev); err != nil {
		return fmt.Errorf("publish catalog.synced event: %w", err)
	}

	return nil
}

// PublishOrderSubmitted publishes an order.submitted event.
func (p *Producer) PublishOrderSubmitted(ctx context.Context, sessionID, orderID string, itemCount int, subtotal float64) error {
	data := OrderSubmittedData{
		SessionID: sessionID,
		OrderID:   orderID,
		ItemCount: itemCount,
		Subtotal:  subtotal,
	}

	ev, err := pkgkafka.NewEvent(TopicOrderSubmitted, orderID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderSubmitted, ev); err != nil {
		return fmt.Errorf("publish order.submitted event: %w", err)
	}

	return nil
}
