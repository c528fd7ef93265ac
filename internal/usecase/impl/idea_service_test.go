package impl_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/errors"
	"kalaghar/internal/infra/persistence/docstore"
	"kalaghar/internal/usecase"
	"kalaghar/internal/usecase/impl"
)

func newIdeaService() usecase.IdeaUsecase {
	return impl.NewIdeaService(impl.IdeaServiceParams{
		IdeaRepo: docstore.NewIdeaRepository(newTestStore()),
		Logger:   slog.New(slog.DiscardHandler),
	})
}

func pitchIdea(t *testing.T, svc usecase.IdeaUsecase, artisan usecase.Caller) *entity.Idea {
	t.Helper()

	idea, err := svc.Create(context.Background(), artisan, &usecase.CreateIdeaInput{
		Title:          "Terracotta Wind Chimes",
		Description:    "Hand-tuned chimes from river clay",
		Category:       entity.CategoryPottery,
		EstimatedPrice: 35,
	})
	require.NoError(t, err)

	return idea
}

func TestVoteIsIdempotentPerUser(t *testing.T) {
	t.Parallel()

	svc := newIdeaService()
	ctx := context.Background()
	artisan := asCaller(uuid.New(), entity.RoleArtisan)
	idea := pitchIdea(t, svc, artisan)

	voter := asCaller(uuid.New(), entity.RoleBuyer)

	// Up, up, down, down, up: one voter record, tallies never double-count.
	for _, vote := range []entity.VoteType{entity.VoteUp, entity.VoteUp, entity.VoteDown, entity.VoteDown, entity.VoteUp} {
		_, err := svc.Vote(ctx, voter, idea.ID, vote)
		require.NoError(t, err)
	}

	got, err := svc.Get(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, got.Votes.Voters, 1)
	assert.Equal(t, 1, got.Votes.Upvotes)
	assert.Equal(t, 0, got.Votes.Downvotes)
	assert.Equal(t, entity.VoteUp, got.Votes.Voters[0].Vote)
}

func TestVoteTwoUsers(t *testing.T) {
	t.Parallel()

	svc := newIdeaService()
	ctx := context.Background()
	artisan := asCaller(uuid.New(), entity.RoleArtisan)
	idea := pitchIdea(t, svc, artisan)

	_, err := svc.Vote(ctx, asCaller(uuid.New(), entity.RoleBuyer), idea.ID, entity.VoteUp)
	require.NoError(t, err)
	got, err := svc.Vote(ctx, asCaller(uuid.New(), entity.RoleBuyer), idea.ID, entity.VoteDown)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Votes.Upvotes)
	assert.Equal(t, 1, got.Votes.Downvotes)
	assert.Len(t, got.Votes.Voters, 2)
}

func TestVoteRejectsUnknownDirection(t *testing.T) {
	t.Parallel()

	svc := newIdeaService()
	artisan := asCaller(uuid.New(), entity.RoleArtisan)
	idea := pitchIdea(t, svc, artisan)

	_, err := svc.Vote(context.Background(), asCaller(uuid.New(), entity.RoleBuyer), idea.ID, entity.VoteType("sideways"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestIdeaCreateArtisanOnly(t *testing.T) {
	t.Parallel()

	svc := newIdeaService()

	_, err := svc.Create(context.Background(), asCaller(uuid.New(), entity.RoleBuyer), &usecase.CreateIdeaInput{
		Title:    "Woven Coasters",
		Category: entity.CategoryTextiles,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestIdeaDeleteDiscontinues(t *testing.T) {
	t.Parallel()

	svc := newIdeaService()
	ctx := context.Background()
	artisan := asCaller(uuid.New(), entity.RoleArtisan)
	idea := pitchIdea(t, svc, artisan)

	require.NoError(t, svc.Delete(ctx, artisan, idea.ID))

	got, err := svc.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.IdeaDiscontinued, got.Status)
}

func TestIdeaCommentsAndPreOrders(t *testing.T) {
	t.Parallel()

	svc := newIdeaService()
	ctx := context.Background()
	artisan := asCaller(uuid.New(), entity.RoleArtisan)
	idea := pitchIdea(t, svc, artisan)
	buyer := asCaller(uuid.New(), entity.RoleBuyer)

	_, err := svc.AddComment(ctx, buyer, idea.ID, "")
	require.Error(t, err)

	got, err := svc.AddComment(ctx, buyer, idea.ID, "would buy two")
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)

	_, err = svc.AddPreOrder(ctx, buyer, idea.ID, 0)
	require.Error(t, err)

	got, err = svc.AddPreOrder(ctx, buyer, idea.ID, 2)
	require.NoError(t, err)
	require.Len(t, got.PreOrders, 1)
	assert.Equal(t, 2, got.PreOrders[0].Quantity)
}
