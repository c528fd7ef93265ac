package repository

import (
	"context"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
	"kalaghar/internal/domain/store"
)

// ProductQuery narrows and orders a product listing. Nil pointer fields are
// not applied.
type ProductQuery struct {
	ArtisanID *uuid.UUID
	Category  *entity.ProductCategory
	Status    *entity.ProductStatus
	MinPrice  *float64
	MaxPrice  *float64

	// Search is forwarded as an advisory marker; results are a superset and
	// real text search needs an external index.
	Search string

	SortBy    string
	SortOrder store.SortOrder
	Limit     int
	Offset    int
}

// ProductRepository defines persistence operations for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error

	// FindByID fetches a product by id. Returns ErrProductNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, query ProductQuery) ([]*entity.Product, error)

	// CountByArtisan counts the artisan's products regardless of status.
	CountByArtisan(ctx context.Context, artisanID uuid.UUID) (int64, error)
}
