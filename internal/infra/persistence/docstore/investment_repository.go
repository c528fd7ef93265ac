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

const investmentCollection = "investments"

// InvestmentRepository persists investments in the document store.
type InvestmentRepository struct {
	store *store.Store
}

// NewInvestmentRepository creates a document-store-backed investment repository.
func NewInvestmentRepository(s *store.Store) repository.InvestmentRepository {
	return &InvestmentRepository{store: s}
}

// Create persists a new investment.
func (r *InvestmentRepository) Create(ctx context.Context, investment *entity.Investment) error {
	now := time.Now().UTC()
	if investment.CreatedAt.IsZero() {
		investment.CreatedAt = now
	}
	investment.UpdatedAt = now

	doc, err := store.Encode(investment)
	if err != nil {
		return err
	}

	return r.store.Create(ctx, investmentCollection, investment.ID.String(), doc)
}

// FindByID fetches an investment by id.
func (r *InvestmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Investment, error) {
	doc, err := r.store.Get(ctx, investmentCollection, id.String())
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}

		return nil, err
	}

	return decodeInvestment(doc)
}

// Update overwrites an existing investment.
func (r *InvestmentRepository) Update(ctx context.Context, investment *entity.Investment) error {
	investment.UpdatedAt = time.Now().UTC()

	doc, err := store.Encode(investment)
	if err != nil {
		return err
	}

	if err := r.store.Update(ctx, investmentCollection, investment.ID.String(), doc); err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return apperrors.ErrInvestmentNotFound
		}

		return err
	}

	return nil
}

// List returns investments matching the query, default-ordered by creation
// time descending.
func (r *InvestmentRepository) List(ctx context.Context, query repository.InvestmentQuery) ([]*entity.Investment, error) {
	var filters []store.Filter
	if query.InvestorID != nil {
		filters = append(filters, store.Eq{Field: "investorId", Value: query.InvestorID.String()})
	}
	if query.ArtisanID != nil {
		filters = append(filters, store.Eq{Field: "artisanId", Value: query.ArtisanID.String()})
	}
	if query.Status != nil {
		filters = append(filters, store.Eq{Field: "status", Value: string(*query.Status)})
	}

	docs, err := r.store.FindMany(ctx, investmentCollection, filters, store.FindOptions{
		SortBy:    "createdAt",
		SortOrder: store.SortDesc,
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		return nil, err
	}

	investments := make([]*entity.Investment, 0, len(docs))
	for _, doc := range docs {
		investment, err := decodeInvestment(doc)
		if err != nil {
			return nil, err
		}
		investments = append(investments, investment)
	}

	return investments, nil
}

func decodeInvestment(doc store.Document) (*entity.Investment, error) {
	investment := &entity.Investment{}
	if err := store.Decode(doc, investment); err != nil {
		return nil, err
	}

	return investment, nil
}
