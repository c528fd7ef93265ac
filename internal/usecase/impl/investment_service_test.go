package impl_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/store"
	"kalaghar/internal/errors"
	"kalaghar/internal/infra/persistence/docstore"
	"kalaghar/internal/usecase"
	"kalaghar/internal/usecase/impl"
)

type investmentFixture struct {
	svc      usecase.InvestmentUsecase
	store    *store.Store
	artisan  usecase.Caller
	investor usecase.Caller
}

func newInvestmentFixture(t *testing.T) *investmentFixture {
	t.Helper()

	s := newTestStore()
	artisan := &entity.User{ID: uuid.New(), Email: "artisan@example.com", Name: "Ravi", Role: entity.RoleArtisan}
	require.NoError(t, docstore.NewUserRepository(s).Create(context.Background(), artisan))

	return &investmentFixture{
		svc: impl.NewInvestmentService(impl.InvestmentServiceParams{
			InvestmentRepo: docstore.NewInvestmentRepository(s),
			UserRepo:       docstore.NewUserRepository(s),
			Logger:         slog.New(slog.DiscardHandler),
		}),
		store:    s,
		artisan:  asCaller(artisan.ID, entity.RoleArtisan),
		investor: asCaller(uuid.New(), entity.RoleInvestor),
	}
}

func proposeLoan(t *testing.T, fix *investmentFixture, schedule []entity.RepaymentEntry) *entity.Investment {
	t.Helper()

	investment, err := fix.svc.Create(context.Background(), fix.investor, &usecase.CreateInvestmentInput{
		ArtisanID:    fix.artisan.UserID,
		Type:         entity.InvestmentLoan,
		Principal:    1000,
		TargetAmount: 1000,
		Terms:        "12 months, zero interest",
		Schedule:     schedule,
	})
	require.NoError(t, err)

	return investment
}

func TestCreateInvestmentInvestorOnly(t *testing.T) {
	t.Parallel()

	fix := newInvestmentFixture(t)

	_, err := fix.svc.Create(context.Background(), asCaller(uuid.New(), entity.RoleBuyer), &usecase.CreateInvestmentInput{
		ArtisanID: fix.artisan.UserID,
		Type:      entity.InvestmentGrant,
		Principal: 500,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestCreateInvestmentRejectsNonArtisanTarget(t *testing.T) {
	t.Parallel()

	fix := newInvestmentFixture(t)

	_, err := fix.svc.Create(context.Background(), fix.investor, &usecase.CreateInvestmentInput{
		ArtisanID: uuid.New(),
		Type:      entity.InvestmentGrant,
		Principal: 500,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestContributeAccumulatesAndActivates(t *testing.T) {
	t.Parallel()

	fix := newInvestmentFixture(t)
	ctx := context.Background()
	investment := proposeLoan(t, fix, nil)

	got, err := fix.svc.Contribute(ctx, fix.investor, investment.ID, 400)
	require.NoError(t, err)
	assert.Equal(t, entity.InvestmentFunding, got.Status)
	assert.InDelta(t, 400, got.FundingProgress.AmountRaised, 1e-9)

	got, err = fix.svc.Contribute(ctx, fix.investor, investment.ID, 600)
	require.NoError(t, err)
	assert.Equal(t, entity.InvestmentActive, got.Status)
	assert.InDelta(t, 1000, got.FundingProgress.AmountRaised, 1e-9)
	require.Len(t, got.FundingProgress.Contributors, 2)

	_, err = fix.svc.Contribute(ctx, fix.investor, investment.ID, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestRecordRepaymentMatchesDueDateExactly(t *testing.T) {
	t.Parallel()

	fix := newInvestmentFixture(t)
	ctx := context.Background()

	first := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	investment := proposeLoan(t, fix, []entity.RepaymentEntry{
		{DueDate: first, Amount: 500},
		{DueDate: second, Amount: 500},
	})

	_, err := fix.svc.RecordRepayment(ctx, fix.investor, investment.ID, first)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	got, err := fix.svc.RecordRepayment(ctx, fix.artisan, investment.ID, first)
	require.NoError(t, err)
	assert.InDelta(t, 500, got.Repayment.TotalPaid, 1e-9)
	assert.InDelta(t, 500, got.Repayment.RemainingBalance, 1e-9)

	_, err = fix.svc.RecordRepayment(ctx, fix.artisan, investment.ID, first.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRepaymentEntryNotFound))

	got, err = fix.svc.RecordRepayment(ctx, fix.artisan, investment.ID, second)
	require.NoError(t, err)
	assert.Zero(t, got.Repayment.RemainingBalance)
	assert.Equal(t, entity.InvestmentRepaid, got.Status)
}

func TestInvestmentVisibility(t *testing.T) {
	t.Parallel()

	fix := newInvestmentFixture(t)
	ctx := context.Background()
	investment := proposeLoan(t, fix, nil)

	_, err := fix.svc.Get(ctx, fix.investor, investment.ID)
	require.NoError(t, err)
	_, err = fix.svc.Get(ctx, fix.artisan, investment.ID)
	require.NoError(t, err)
	_, err = fix.svc.Get(ctx, asCaller(uuid.New(), entity.RoleAdmin), investment.ID)
	require.NoError(t, err)

	_, err = fix.svc.Get(ctx, asCaller(uuid.New(), entity.RoleInvestor), investment.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	mine, err := fix.svc.List(ctx, fix.investor, &usecase.ListInvestmentsInput{Limit: 10})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	funded, err := fix.svc.List(ctx, fix.artisan, &usecase.ListInvestmentsInput{Limit: 10})
	require.NoError(t, err)
	require.Len(t, funded, 1)

	other, err := fix.svc.List(ctx, asCaller(uuid.New(), entity.RoleInvestor), &usecase.ListInvestmentsInput{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, other)
}
