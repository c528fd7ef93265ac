package repository

import (
	"context"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error

	// FindByID fetches an order by id. Returns ErrOrderNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	Update(ctx context.Context, order *entity.Order) error

	// ListByBuyer lists the buyer's orders, newest first.
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*entity.Order, error)

	// ListByArtisan lists orders containing at least one of the artisan's
	// items, newest first.
	ListByArtisan(ctx context.Context, artisanID uuid.UUID, limit, offset int) ([]*entity.Order, error)

	// Count returns the total number of orders ever placed. Used for order
	// number generation.
	Count(ctx context.Context) (int64, error)
}
