package repository

import (
	"context"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
)

// InvestmentQuery narrows an investment listing. Nil pointer fields are not
// applied.
type InvestmentQuery struct {
	InvestorID *uuid.UUID
	ArtisanID  *uuid.UUID
	Status     *entity.InvestmentStatus

	Limit  int
	Offset int
}

// InvestmentRepository defines persistence operations for investments.
type InvestmentRepository interface {
	Create(ctx context.Context, investment *entity.Investment) error

	// FindByID fetches an investment by id. Returns ErrInvestmentNotFound
	// when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Investment, error)

	Update(ctx context.Context, investment *entity.Investment) error

	List(ctx context.Context, query InvestmentQuery) ([]*entity.Investment, error)
}
