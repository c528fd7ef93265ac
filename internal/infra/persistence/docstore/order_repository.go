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

const orderCollection = "orders"

// OrderRepository persists orders in the document store.
type OrderRepository struct {
	store *store.Store
}

// NewOrderRepository creates a document-store-backed order repository.
func NewOrderRepository(s *store.Store) repository.OrderRepository {
	return &OrderRepository{store: s}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	doc, err := encodeOrder(order)
	if err != nil {
		return err
	}

	return r.store.Create(ctx, orderCollection, order.ID.String(), doc)
}

// FindByID fetches an order by id.
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	doc, err := r.store.Get(ctx, orderCollection, id.String())
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}

		return nil, err
	}

	return decodeOrder(doc)
}

// Update overwrites an existing order.
func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	order.UpdatedAt = time.Now().UTC()

	doc, err := encodeOrder(order)
	if err != nil {
		return err
	}

	if err := r.store.Update(ctx, orderCollection, order.ID.String(), doc); err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return apperrors.ErrOrderNotFound
		}

		return err
	}

	return nil
}

// ListByBuyer lists the buyer's orders, newest first.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	return r.list(ctx,
		[]store.Filter{store.Eq{Field: "buyerId", Value: buyerID.String()}},
		limit, offset)
}

// ListByArtisan lists orders containing at least one of the artisan's items,
// newest first. The stored document carries a derived artisanIds array for
// this query.
func (r *OrderRepository) ListByArtisan(ctx context.Context, artisanID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	return r.list(ctx,
		[]store.Filter{store.Contains{Field: "artisanIds", Value: artisanID.String()}},
		limit, offset)
}

// Count returns the total number of orders ever placed.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, orderCollection, nil)
}

func (r *OrderRepository) list(ctx context.Context, filters []store.Filter, limit, offset int) ([]*entity.Order, error) {
	docs, err := r.store.FindMany(ctx, orderCollection, filters, store.FindOptions{
		SortBy:    "createdAt",
		SortOrder: store.SortDesc,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}

	orders := make([]*entity.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := decodeOrder(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func encodeOrder(order *entity.Order) (store.Document, error) {
	doc, err := store.Encode(order)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(order.Items))
	artisanIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		if _, ok := seen[item.ArtisanID]; ok {
			continue
		}
		seen[item.ArtisanID] = struct{}{}
		artisanIDs = append(artisanIDs, item.ArtisanID.String())
	}
	doc["artisanIds"] = artisanIDs

	return doc, nil
}

func decodeOrder(doc store.Document) (*entity.Order, error) {
	order := &entity.Order{}
	if err := store.Decode(doc, order); err != nil {
		return nil, err
	}

	return order, nil
}
