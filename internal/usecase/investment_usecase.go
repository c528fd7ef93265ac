package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kalaghar/internal/domain/entity"
)

// --- Input DTOs ---

// CreateInvestmentInput defines the data required to propose an investment.
type CreateInvestmentInput struct {
	ArtisanID    uuid.UUID
	Type         entity.InvestmentType
	Principal    float64
	TargetAmount float64
	Terms        string

	// Schedule holds the planned repayment installments, if any.
	Schedule []entity.RepaymentEntry
}

// ListInvestmentsInput narrows the investment listing.
type ListInvestmentsInput struct {
	Status *entity.InvestmentStatus
	Limit  int
	Offset int
}

// InvestmentUsecase defines the interface for investment-related business operations.
type InvestmentUsecase interface {
	Create(ctx context.Context, caller Caller, input *CreateInvestmentInput) (*entity.Investment, error)
	Get(ctx context.Context, caller Caller, investmentID uuid.UUID) (*entity.Investment, error)

	// List returns the caller's investments: an investor sees those they
	// proposed, an artisan those funding them, an admin everything.
	List(ctx context.Context, caller Caller, input *ListInvestmentsInput) ([]*entity.Investment, error)

	Contribute(ctx context.Context, caller Caller, investmentID uuid.UUID, amount float64) (*entity.Investment, error)
	RecordRepayment(ctx context.Context, caller Caller, investmentID uuid.UUID, dueDate time.Time) (*entity.Investment, error)
}
