package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
)

// OrderEvent is the message published whenever an order is placed or its
// status changes.
type OrderEvent struct {
	Type        string             `json:"type"` // "order.placed" or "order.status_changed"
	OrderID     uuid.UUID          `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	BuyerID     uuid.UUID          `json:"buyerId"`
	ArtisanIDs  []uuid.UUID        `json:"artisanIds"`
	Status      entity.OrderStatus `json:"status"`
	OccurredAt  time.Time          `json:"occurredAt"`
}

// Event type names.
const (
	OrderPlacedEvent        = "order.placed"
	OrderStatusChangedEvent = "order.status_changed"
)

// EventPublisher publishes order events to the message broker.
type EventPublisher interface {
	// PublishOrderEvent publishes an order event.
	PublishOrderEvent(ctx context.Context, event OrderEvent) error

	// Close releases broker resources.
	Close() error
}
