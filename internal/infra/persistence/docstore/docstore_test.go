package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/entity"
	"kalaghar/internal/domain/repository"
	"kalaghar/internal/domain/store"
	"kalaghar/internal/infra/persistence/memory"
)

func newStore() *store.Store {
	return store.New(memory.NewDriver())
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository(newStore())

	user := &entity.User{
		ID:           uuid.New(),
		Email:        "mira@example.com",
		PasswordHash: "$2a$12$fakehash",
		Name:         "Mira",
		Role:         entity.RoleArtisan,
	}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, "mira@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "$2a$12$fakehash", found.PasswordHash)
	assert.False(t, found.CreatedAt.IsZero())

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	found.Name = "Mira K"
	require.NoError(t, repo.Update(ctx, found))
	again, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mira K", again.Name)
}

func TestUserRepositoryListByRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository(newStore())

	for i, role := range []entity.Role{entity.RoleArtisan, entity.RoleBuyer, entity.RoleArtisan} {
		user := &entity.User{
			ID:        uuid.New(),
			Email:     uuid.NewString() + "@example.com",
			Role:      role,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, user))
	}

	artisans, err := repo.ListByRole(ctx, entity.RoleArtisan, 0, 0)
	require.NoError(t, err)
	assert.Len(t, artisans, 2)
}

func TestProductRepositoryQuery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewProductRepository(newStore())
	artisanID := uuid.New()

	products := []*entity.Product{
		{ID: uuid.New(), ArtisanID: artisanID, Name: "Clay Bowl", Category: entity.CategoryPottery, Price: 24.5, Status: entity.ProductActive},
		{ID: uuid.New(), ArtisanID: artisanID, Name: "Clay Vase", Category: entity.CategoryPottery, Price: 60, Status: entity.ProductDraft},
		{ID: uuid.New(), ArtisanID: uuid.New(), Name: "Silver Ring", Category: entity.CategoryJewelry, Price: 120, Status: entity.ProductActive},
	}
	for _, p := range products {
		require.NoError(t, repo.Create(ctx, p))
	}

	category := entity.CategoryPottery
	got, err := repo.List(ctx, repository.ProductQuery{Category: &category})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	minPrice := 50.0
	got, err = repo.List(ctx, repository.ProductQuery{MinPrice: &minPrice})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Search is advisory; every backend returns the unnarrowed superset.
	got, err = repo.List(ctx, repository.ProductQuery{Search: "clay"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	count, err := repo.CountByArtisan(ctx, artisanID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.Delete(ctx, products[0].ID))
	_, err = repo.FindByID(ctx, products[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestOrderRepositoryArtisanVisibility(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewOrderRepository(newStore())
	buyerID := uuid.New()
	artisanA := uuid.New()
	artisanB := uuid.New()

	order := &entity.Order{
		ID:          uuid.New(),
		OrderNumber: "KG123456000001",
		BuyerID:     buyerID,
		Items: []entity.OrderItem{
			{ProductID: uuid.New(), ArtisanID: artisanA, Quantity: 1, UnitPrice: 40, Status: entity.ItemPending},
			{ProductID: uuid.New(), ArtisanID: artisanA, Quantity: 2, UnitPrice: 10, Status: entity.ItemPending},
		},
		Status: entity.OrderPending,
	}
	require.NoError(t, repo.Create(ctx, order))

	byBuyer, err := repo.ListByBuyer(ctx, buyerID, 0, 0)
	require.NoError(t, err)
	require.Len(t, byBuyer, 1)
	assert.Equal(t, order.OrderNumber, byBuyer[0].OrderNumber)

	byArtisan, err := repo.ListByArtisan(ctx, artisanA, 0, 0)
	require.NoError(t, err)
	assert.Len(t, byArtisan, 1)

	other, err := repo.ListByArtisan(ctx, artisanB, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, other)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInvestmentRepositoryList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewInvestmentRepository(newStore())
	investorID := uuid.New()

	inv := &entity.Investment{
		ID:         uuid.New(),
		InvestorID: investorID,
		ArtisanID:  uuid.New(),
		Type:       entity.InvestmentLoan,
		Principal:  1000,
		Status:     entity.InvestmentActive,
	}
	require.NoError(t, repo.Create(ctx, inv))

	got, err := repo.List(ctx, repository.InvestmentQuery{InvestorID: &investorID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inv.ID, got[0].ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrInvestmentNotFound)
}

func TestIdeaRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewIdeaRepository(newStore())

	idea := &entity.Idea{
		ID:        uuid.New(),
		ArtisanID: uuid.New(),
		Title:     "Brass Lamp",
		Category:  entity.CategoryMetalwork,
		Status:    entity.IdeaPublished,
	}
	require.NoError(t, repo.Create(ctx, idea))

	idea.ApplyVote(uuid.New(), entity.VoteUp, time.Now().UTC())
	require.NoError(t, repo.Update(ctx, idea))

	found, err := repo.FindByID(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.Votes.Upvotes)
	require.Len(t, found.Votes.Voters, 1)
}
