package usecase

import (
	"context"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
	"kalaghar/internal/domain/store"
)

// --- Input DTOs ---

// CreateProductInput defines the data required to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Category    entity.ProductCategory
	Price       float64
	Quantity    int
	IsUnlimited bool
	Images      []string
}

// UpdateProductInput defines the mutable product fields. Nil fields are left
// unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *entity.ProductCategory
	Price       *float64
	Quantity    *int
	IsUnlimited *bool
	Status      *entity.ProductStatus
	Images      *[]string
}

// ListProductsInput narrows and orders the public catalog listing.
type ListProductsInput struct {
	ArtisanID *uuid.UUID
	Category  *entity.ProductCategory
	Status    *entity.ProductStatus
	MinPrice  *float64
	MaxPrice  *float64
	Search    string
	SortBy    string
	SortOrder store.SortOrder
	Limit     int
	Offset    int
}

// ReviewInput defines a product review submission.
type ReviewInput struct {
	Rating  int
	Comment string
}

// UploadImageInput defines an image upload for a product.
type UploadImageInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Caller identifies the authenticated user performing an operation.
type Caller struct {
	UserID uuid.UUID
	Role   entity.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == entity.RoleAdmin
}

// ProductUsecase defines the interface for catalog-related business operations.
type ProductUsecase interface {
	Create(ctx context.Context, caller Caller, input *CreateProductInput) (*entity.Product, error)
	Get(ctx context.Context, productID uuid.UUID) (*entity.Product, error)
	List(ctx context.Context, input *ListProductsInput) ([]*entity.Product, error)
	ListMine(ctx context.Context, caller Caller, limit, offset int) ([]*entity.Product, error)
	Update(ctx context.Context, caller Caller, productID uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	Delete(ctx context.Context, caller Caller, productID uuid.UUID) error

	AddReview(ctx context.Context, caller Caller, productID uuid.UUID, input *ReviewInput) (*entity.Product, error)
	UpdateReview(ctx context.Context, caller Caller, productID, reviewID uuid.UUID, input *ReviewInput) (*entity.Product, error)
	DeleteReview(ctx context.Context, caller Caller, productID, reviewID uuid.UUID) (*entity.Product, error)

	UploadImage(ctx context.Context, caller Caller, productID uuid.UUID, input *UploadImageInput) (*entity.Product, error)
	ShareQR(ctx context.Context, productID uuid.UUID) ([]byte, error)
}
