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

const productCollection = "products"

// ProductRepository persists catalog products in the document store.
type ProductRepository struct {
	store *store.Store
}

// NewProductRepository creates a document-store-backed product repository.
func NewProductRepository(s *store.Store) repository.ProductRepository {
	return &ProductRepository{store: s}
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	doc, err := store.Encode(product)
	if err != nil {
		return err
	}

	return r.store.Create(ctx, productCollection, product.ID.String(), doc)
}

// FindByID fetches a product by id.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	doc, err := r.store.Get(ctx, productCollection, id.String())
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil, apperrors.ErrProductNotFound
		}

		return nil, err
	}

	return decodeProduct(doc)
}

// Update overwrites an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now().UTC()

	doc, err := store.Encode(product)
	if err != nil {
		return err
	}

	if err := r.store.Update(ctx, productCollection, product.ID.String(), doc); err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return apperrors.ErrProductNotFound
		}

		return err
	}

	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, productCollection, id.String())
}

// List returns products matching the query, default-ordered by creation time
// descending.
func (r *ProductRepository) List(ctx context.Context, query repository.ProductQuery) ([]*entity.Product, error) {
	filters := buildProductFilters(query)

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

	docs, err := r.store.FindMany(ctx, productCollection, filters, opts)
	if err != nil {
		return nil, err
	}

	products := make([]*entity.Product, 0, len(docs))
	for _, doc := range docs {
		product, err := decodeProduct(doc)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

// CountByArtisan counts the artisan's products regardless of status.
func (r *ProductRepository) CountByArtisan(ctx context.Context, artisanID uuid.UUID) (int64, error) {
	return r.store.Count(ctx, productCollection, []store.Filter{
		store.Eq{Field: "artisanId", Value: artisanID.String()},
	})
}

func buildProductFilters(query repository.ProductQuery) []store.Filter {
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
	if query.MinPrice != nil || query.MaxPrice != nil {
		priceRange := store.Range{Field: "price"}
		if query.MinPrice != nil {
			priceRange.Min = *query.MinPrice
		}
		if query.MaxPrice != nil {
			priceRange.Max = *query.MaxPrice
		}
		filters = append(filters, priceRange)
	}
	if query.Search != "" {
		filters = append(filters, store.TextSearch{
			Fields: []string{"name", "description"},
			Query:  query.Search,
		})
	}

	return filters
}

func decodeProduct(doc store.Document) (*entity.Product, error) {
	product := &entity.Product{}
	if err := store.Decode(doc, product); err != nil {
		return nil, err
	}

	return product, nil
}
