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

// ideaService implements the IdeaUsecase interface.
type ideaService struct {
	ideaRepo repository.IdeaRepository
	logger   *slog.Logger
}

// IdeaServiceParams holds dependencies for IdeaService, injected by Fx.
type IdeaServiceParams struct {
	fx.In

	IdeaRepo repository.IdeaRepository
	Logger   *slog.Logger
}

// NewIdeaService is the constructor for ideaService.
func NewIdeaService(params IdeaServiceParams) usecase.IdeaUsecase {
	return &ideaService{
		ideaRepo: params.IdeaRepo,
		logger:   params.Logger,
	}
}

func (srv *ideaService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create persists a new idea pitched by the calling artisan.
func (srv *ideaService) Create(ctx context.Context, caller usecase.Caller, input *usecase.CreateIdeaInput) (*entity.Idea, error) {
	if caller.Role != entity.RoleArtisan {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only artisans can pitch ideas")
	}
	if !input.Category.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown idea category")
	}

	idea := &entity.Idea{
		ID:             uuid.New(),
		ArtisanID:      caller.UserID,
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		EstimatedPrice: input.EstimatedPrice,
		Status:         entity.IdeaPublished,
	}

	if err := srv.ideaRepo.Create(ctx, idea); err != nil {
		return nil, errors.Wrap(err, "failed to create idea")
	}

	srv.log(ctx).Info("Idea created", slog.Any("ideaID", idea.ID), slog.Any("artisanID", caller.UserID))

	return idea, nil
}

// Get returns one idea.
func (srv *ideaService) Get(ctx context.Context, ideaID uuid.UUID) (*entity.Idea, error) {
	idea, err := srv.ideaRepo.FindByID(ctx, ideaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load idea")
	}

	return idea, nil
}

// List returns ideas matching the input.
func (srv *ideaService) List(ctx context.Context, input *usecase.ListIdeasInput) ([]*entity.Idea, error) {
	ideas, err := srv.ideaRepo.List(ctx, repository.IdeaQuery{
		ArtisanID: input.ArtisanID,
		Category:  input.Category,
		Status:    input.Status,
		Limit:     input.Limit,
		Offset:    input.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ideas")
	}

	return ideas, nil
}

// Update applies the non-nil fields of the input. Owner or admin only.
func (srv *ideaService) Update(ctx context.Context, caller usecase.Caller, ideaID uuid.UUID, input *usecase.UpdateIdeaInput) (*entity.Idea, error) {
	idea, err := srv.loadOwned(ctx, caller, ideaID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		idea.Title = *input.Title
	}
	if input.Description != nil {
		idea.Description = *input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown idea category")
		}
		idea.Category = *input.Category
	}
	if input.EstimatedPrice != nil {
		idea.EstimatedPrice = *input.EstimatedPrice
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown idea status")
		}
		idea.Status = *input.Status
	}

	if err := srv.ideaRepo.Update(ctx, idea); err != nil {
		return nil, errors.Wrap(err, "failed to update idea")
	}

	return idea, nil
}

// Delete retires an idea by marking it discontinued. Owner or admin only.
func (srv *ideaService) Delete(ctx context.Context, caller usecase.Caller, ideaID uuid.UUID) error {
	idea, err := srv.loadOwned(ctx, caller, ideaID)
	if err != nil {
		return err
	}

	idea.Status = entity.IdeaDiscontinued
	if err := srv.ideaRepo.Update(ctx, idea); err != nil {
		return errors.Wrap(err, "failed to retire idea")
	}

	return nil
}

// Vote records the caller's vote. Each user holds one active vote per idea;
// re-voting moves the tally rather than double-counting.
func (srv *ideaService) Vote(ctx context.Context, caller usecase.Caller, ideaID uuid.UUID, vote entity.VoteType) (*entity.Idea, error) {
	if !vote.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("vote must be up or down")
	}

	idea, err := srv.ideaRepo.FindByID(ctx, ideaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load idea for vote")
	}

	idea.ApplyVote(caller.UserID, vote, time.Now().UTC())

	if err := srv.ideaRepo.Update(ctx, idea); err != nil {
		return nil, errors.Wrap(err, "failed to save vote")
	}

	return idea, nil
}

// AddComment appends a community comment.
func (srv *ideaService) AddComment(ctx context.Context, caller usecase.Caller, ideaID uuid.UUID, text string) (*entity.Idea, error) {
	if text == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("comment text must not be empty")
	}

	idea, err := srv.ideaRepo.FindByID(ctx, ideaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load idea for comment")
	}

	idea.Comments = append(idea.Comments, entity.IdeaComment{
		ID:        uuid.New(),
		UserID:    caller.UserID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})

	if err := srv.ideaRepo.Update(ctx, idea); err != nil {
		return nil, errors.Wrap(err, "failed to save comment")
	}

	return idea, nil
}

// AddPreOrder records a commitment to buy once the idea is manufactured.
func (srv *ideaService) AddPreOrder(ctx context.Context, caller usecase.Caller, ideaID uuid.UUID, quantity int) (*entity.Idea, error) {
	if quantity <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be positive")
	}

	idea, err := srv.ideaRepo.FindByID(ctx, ideaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load idea for pre-order")
	}

	idea.PreOrders = append(idea.PreOrders, entity.PreOrder{
		UserID:    caller.UserID,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
	})

	if err := srv.ideaRepo.Update(ctx, idea); err != nil {
		return nil, errors.Wrap(err, "failed to save pre-order")
	}

	return idea, nil
}

func (srv *ideaService) loadOwned(ctx context.Context, caller usecase.Caller, ideaID uuid.UUID) (*entity.Idea, error) {
	idea, err := srv.ideaRepo.FindByID(ctx, ideaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load idea")
	}
	if idea.ArtisanID != caller.UserID && !caller.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "idea belongs to another artisan")
	}

	return idea, nil
}
