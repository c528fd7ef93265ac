package usecase

import (
	"context"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
)

// --- Input DTOs ---

// CreateIdeaInput defines the data required to pitch a product idea.
type CreateIdeaInput struct {
	Title          string
	Description    string
	Category       entity.ProductCategory
	EstimatedPrice float64
}

// UpdateIdeaInput defines the mutable idea fields. Nil fields are left
// unchanged.
type UpdateIdeaInput struct {
	Title          *string
	Description    *string
	Category       *entity.ProductCategory
	EstimatedPrice *float64
	Status         *entity.IdeaStatus
}

// ListIdeasInput narrows the idea listing.
type ListIdeasInput struct {
	ArtisanID *uuid.UUID
	Category  *entity.ProductCategory
	Status    *entity.IdeaStatus
	Limit     int
	Offset    int
}

// IdeaUsecase defines the interface for idea-related business operations.
type IdeaUsecase interface {
	Create(ctx context.Context, caller Caller, input *CreateIdeaInput) (*entity.Idea, error)
	Get(ctx context.Context, ideaID uuid.UUID) (*entity.Idea, error)
	List(ctx context.Context, input *ListIdeasInput) ([]*entity.Idea, error)
	Update(ctx context.Context, caller Caller, ideaID uuid.UUID, input *UpdateIdeaInput) (*entity.Idea, error)
	Delete(ctx context.Context, caller Caller, ideaID uuid.UUID) error

	Vote(ctx context.Context, caller Caller, ideaID uuid.UUID, vote entity.VoteType) (*entity.Idea, error)
	AddComment(ctx context.Context, caller Caller, ideaID uuid.UUID, text string) (*entity.Idea, error)
	AddPreOrder(ctx context.Context, caller Caller, ideaID uuid.UUID, quantity int) (*entity.Idea, error)
}
