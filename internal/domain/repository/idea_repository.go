package repository

import (
	"context"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
	"kalaghar/internal/domain/store"
)

// IdeaQuery narrows and orders an idea listing. Nil pointer fields are not
// applied.
type IdeaQuery struct {
	ArtisanID *uuid.UUID
	Category  *entity.ProductCategory
	Status    *entity.IdeaStatus

	SortBy    string
	SortOrder store.SortOrder
	Limit     int
	Offset    int
}

// IdeaRepository defines persistence operations for pitched product ideas.
type IdeaRepository interface {
	Create(ctx context.Context, idea *entity.Idea) error

	// FindByID fetches an idea by id. Returns ErrIdeaNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Idea, error)

	Update(ctx context.Context, idea *entity.Idea) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, query IdeaQuery) ([]*entity.Idea, error)
}
