package usecase

import (
	"context"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
)

// --- Input DTOs ---

// OrderItemInput is one requested line item at checkout.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput defines the data required to place an order.
type PlaceOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress entity.Address
	BillingAddress  entity.Address
	PaymentMethod   entity.PaymentMethod
}

// OrderUsecase defines the interface for order-related business operations.
type OrderUsecase interface {
	Place(ctx context.Context, caller Caller, input *PlaceOrderInput) (*entity.Order, error)

	// Get enforces visibility: buyers see their own orders, artisans orders
	// containing their items, admins everything.
	Get(ctx context.Context, caller Caller, orderID uuid.UUID) (*entity.Order, error)

	List(ctx context.Context, caller Caller, limit, offset int) ([]*entity.Order, error)

	UpdateStatus(ctx context.Context, caller Caller, orderID uuid.UUID, status entity.OrderStatus, note string) (*entity.Order, error)
}
