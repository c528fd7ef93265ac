package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/entity"
	"kalaghar/internal/domain/repository"
	"kalaghar/internal/domain/store"
	"kalaghar/internal/errors"
)

const ideaCollection = "ideas"

// IdeaRepository persists pitched product ideas in the document store.
type IdeaRepository struct {
	store *store.Store
}

// NewIdeaRepository creates a document-store-backed idea repository.
func NewIdeaRepository(s *store.Store) repository.IdeaRepository {
	return &IdeaRepository{store: s}
}

// Create persists a new idea.
func (r *IdeaRepository) Create(ctx context.Context, idea *entity.Idea) error {
	now := time.Now().UTC()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now

	doc, err := store.Encode(idea)
	if err != nil {
		return err
	}

	return r.store.Create(ctx, ideaCollection, idea.ID.String(), doc)
}

// FindByID fetches an idea by id.
func (r *IdeaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Idea, error) {
	doc, err := r.store.Get(ctx, ideaCollection, id.String())
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil, apperrors.ErrIdeaNotFound
		}

		return nil, err
	}

	return decodeIdea(doc)
}

// Update overwrites an existing idea.
func (r *IdeaRepository) Update(ctx context.Context, idea *entity.Idea) error {
	idea.UpdatedAt = time.Now().UTC()

	doc, err := store.Encode(idea)
	if err != nil {
		return err
	}

	if err := r.store.Update(ctx, ideaCollection, idea.ID.String(), doc); err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return apperrors.ErrIdeaNotFound
		}

		return err
	}

	return nil
}

// Delete removes an idea.
func (r *IdeaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, ideaCollection, id.String())
}

// List returns ideas matching the query, default-ordered by creation time
// descending.
func (r *IdeaRepository) List(ctx context.Context, query repository.IdeaQuery) ([]*entity.Idea, error) {
	var filters []store.Filter
	if query.ArtisanID != nil {
		filters = append(filters, store.Eq{Field: "artisanId", Value: query.ArtisanID.String()})
	}
	if query.Category != nil {
		filters = append(filters, store.Eq{Field: "category", Value: string(*query.Category)})
	}
	if query.Status != nil {
		filters = append(filters, store.Eq{Field: "status", Value: string(*query.Status)})
	}

	opts := store.FindOptions{
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Limit:     query.Limit,
		Offset:    query.Offset,
	}
	if opts.SortBy == "" {
		opts.SortBy = "createdAt"
		opts.SortOrder = store.SortDesc
	}

	docs, err := r.store.FindMany(ctx, ideaCollection, filters, opts)
	if err != nil {
		return nil, err
	}

	ideas := make([]*entity.Idea, 0, len(docs))
	for _, doc := range docs {
		idea, err := decodeIdea(doc)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}

	return ideas, nil
}

func decodeIdea(doc store.Document) (*entity.Idea, error) {
	idea := &entity.Idea{}
	if err := store.Decode(doc, idea); err != nil {
		return nil, err
	}

	return idea, nil
}
