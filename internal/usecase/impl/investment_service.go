package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	deliverycontext "kalaghar/internal/delivery/context"
	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/repository"
	"kalaghar/internal/errors"
	"kalaghar/internal/usecase"
)

// investmentService implements the InvestmentUsecase interface.
type investmentService struct {
	investmentRepo repository.InvestmentRepository
	userRepo       repository.UserRepository
	logger         *slog.Logger
}

// InvestmentServiceParams holds dependencies for InvestmentService, injected by Fx.
type InvestmentServiceParams struct {
	fx.In

	InvestmentRepo repository.InvestmentRepository
	UserRepo       repository.UserRepository
	Logger         *slog.Logger
}

// NewInvestmentService is the constructor for investmentService.
func NewInvestmentService(params InvestmentServiceParams) usecase.InvestmentUsecase {
	return &investmentService{
		investmentRepo: params.InvestmentRepo,
		userRepo:       params.UserRepo,
		logger:         params.Logger,
	}
}

func (srv *investmentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create proposes a new investment from the calling investor to an artisan.
func (srv *investmentService) Create(ctx context.Context, caller usecase.Caller, input *usecase.CreateInvestmentInput) (*entity.Investment, error) {
	if caller.Role != entity.RoleInvestor && !caller.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only investors can propose investments")
	}
	if !input.Type.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown investment type")
	}
	if input.Principal <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("principal must be positive")
	}

	artisan, err := srv.userRepo.FindByID(ctx, input.ArtisanID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load artisan for investment")
	}
	if artisan.Role != entity.RoleArtisan {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "investment target is not an artisan")
	}

	investment := &entity.Investment{
		ID:         uuid.New(),
		InvestorID: caller.UserID,
		ArtisanID:  input.ArtisanID,
		Type:       input.Type,
		Principal:  input.Principal,
		Terms:      input.Terms,
		FundingProgress: entity.FundingProgress{
			TargetAmount: input.TargetAmount,
		},
		Repayment: entity.Repayment{
			Schedule:         input.Schedule,
			RemainingBalance: input.Principal,
		},
		Status: entity.InvestmentProposed,
	}

	if err := srv.investmentRepo.Create(ctx, investment); err != nil {
		return nil, errors.Wrap(err, "failed to create investment")
	}

	srv.log(ctx).Info("Investment created",
		slog.Any("investmentID", investment.ID),
		slog.Any("investorID", caller.UserID),
		slog.Any("artisanID", input.ArtisanID))

	return investment, nil
}

// Get returns one investment, visible only to its parties and admins.
func (srv *investmentService) Get(ctx context.Context, caller usecase.Caller, investmentID uuid.UUID) (*entity.Investment, error) {
	investment, err := srv.investmentRepo.FindByID(ctx, investmentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load investment")
	}
	if investment.InvestorID != caller.UserID && investment.ArtisanID != caller.UserID && !caller.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "investment belongs to other parties")
	}

	return investment, nil
}

// List returns the caller's investments per role.
func (srv *investmentService) List(ctx context.Context, caller usecase.Caller, input *usecase.ListInvestmentsInput) ([]*entity.Investment, error) {
	query := repository.InvestmentQuery{
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	}

	switch {
	case caller.IsAdmin():
	case caller.Role == entity.RoleInvestor:
		investorID := caller.UserID
		query.InvestorID = &investorID
	case caller.Role == entity.RoleArtisan:
		artisanID := caller.UserID
		query.ArtisanID = &artisanID
	default:
		return nil, errors.Wrap(domainerrors.ErrForbidden, "role cannot list investments")
	}

	investments, err := srv.investmentRepo.List(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list investments")
	}

	return investments, nil
}

// Contribute appends a funding contribution and accumulates the raised amount.
func (srv *investmentService) Contribute(ctx context.Context, caller usecase.Caller, investmentID uuid.UUID, amount float64) (*entity.Investment, error) {
	if amount <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("contribution amount must be positive")
	}

	investment, err := srv.investmentRepo.FindByID(ctx, investmentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load investment for contribution")
	}
	if investment.Status == entity.InvestmentCancelled || investment.Status == entity.InvestmentRepaid {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "investment is closed to contributions")
	}

	investment.AddContribution(caller.UserID, amount, time.Now().UTC())
	if investment.Status == entity.InvestmentProposed {
		investment.Status = entity.InvestmentFunding
	}
	if investment.FundingProgress.TargetAmount > 0 &&
		investment.FundingProgress.AmountRaised >= investment.FundingProgress.TargetAmount {
		investment.Status = entity.InvestmentActive
	}

	if err := srv.investmentRepo.Update(ctx, investment); err != nil {
		return nil, errors.Wrap(err, "failed to save contribution")
	}

	return investment, nil
}

// RecordRepayment marks the schedule entry with the exact due date as paid.
func (srv *investmentService) RecordRepayment(ctx context.Context, caller usecase.Caller, investmentID uuid.UUID, dueDate time.Time) (*entity.Investment, error) {
	investment, err := srv.investmentRepo.FindByID(ctx, investmentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load investment for repayment")
	}
	if investment.ArtisanID != caller.UserID && !caller.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only the funded artisan records repayments")
	}

	if !investment.RecordRepayment(dueDate, time.Now().UTC()) {
		return nil, errors.Wrap(domainerrors.ErrRepaymentEntryNotFound, "repayment failed")
	}

	if investment.Repayment.RemainingBalance == 0 {
		investment.Status = entity.InvestmentRepaid
	}

	if err := srv.investmentRepo.Update(ctx, investment); err != nil {
		return nil, errors.Wrap(err, "failed to save repayment")
	}

	return investment, nil
}
