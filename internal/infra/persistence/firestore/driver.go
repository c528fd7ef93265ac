// Package firestore implements the store.Driver contract on Cloud Firestore.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"kalaghar/config"
	"kalaghar/internal/domain/store"
	"kalaghar/internal/errors"
)

// NewClient creates a Firestore client from configuration. Returns nil when
// no Firestore project is configured, which selects the in-memory driver.
func NewClient(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	if cfg.Firestore == nil || cfg.Firestore.ProjectID == "" {
		return nil, nil
	}

	var opts []option.ClientOption
	if cfg.Firestore.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firestore.CredentialsPath))
	}

	var (
		client *firestore.Client
		err    error
	)
	if cfg.Firestore.DatabaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, cfg.Firestore.ProjectID, cfg.Firestore.DatabaseID, opts...)
	} else {
		client, err = firestore.NewClient(ctx, cfg.Firestore.ProjectID, opts...)
	}
	if err != nil {
		return nil, errors.Wrap(err, "create firestore client")
	}

	return client, nil
}

// Driver adapts a Firestore client to the store.Driver contract.
type Driver struct {
	client *firestore.Client
}

// NewDriver creates a Firestore-backed driver.
func NewDriver(client *firestore.Client) *Driver {
	return &Driver{client: client}
}

// Create inserts a new document under the given id.
func (d *Driver) Create(ctx context.Context, collection, id string, doc store.Document) error {
	_, err := d.client.Collection(collection).Doc(id).Create(ctx, doc)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Get fetches a document by id.
func (d *Driver) Get(ctx context.Context, collection, id string) (store.Document, error) {
	snap, err := d.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, store.ErrDocumentNotFound
		}

		return nil, errors.WithStack(err)
	}

	return snap.Data(), nil
}

// FindMany runs a filtered query. TextSearch filters are advisory and never
// narrow results; serving them takes an external search index.
func (d *Driver) FindMany(ctx context.Context, collection string, filters []store.Filter, opts store.FindOptions) ([]store.Document, error) {
	query := applyFilters(d.client.Collection(collection).Query, filters)

	if opts.SortBy != "" {
		direction := firestore.Asc
		if opts.SortOrder == store.SortDesc {
			direction = firestore.Desc
		}
		query = query.OrderBy(opts.SortBy, direction)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	docs := make([]store.Document, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		docs = append(docs, snap.Data())
	}

	return docs, nil
}

// Update overwrites the document with the given id, failing when absent.
func (d *Driver) Update(ctx context.Context, collection, id string, doc store.Document) error {
	ref := d.client.Collection(collection).Doc(id)

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrDocumentNotFound
		}

		return errors.WithStack(err)
	}

	if _, err := ref.Set(ctx, doc); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Delete removes the document with the given id. Firestore treats deleting
// an absent document as a no-op, matching the contract.
func (d *Driver) Delete(ctx context.Context, collection, id string) error {
	if _, err := d.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Count runs a server-side count aggregation over the filtered query.
func (d *Driver) Count(ctx context.Context, collection string, filters []store.Filter) (int64, error) {
	query := applyFilters(d.client.Collection(collection).Query, filters)

	result, err := query.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	value, ok := result["count"]
	if !ok {
		return 0, errors.New("count aggregation missing from result")
	}
	pbValue, ok := value.(*firestorepb.Value)
	if !ok {
		return 0, errors.New("unexpected count aggregation value type")
	}

	return pbValue.GetIntegerValue(), nil
}

func applyFilters(query firestore.Query, filters []store.Filter) firestore.Query {
	for _, filter := range filters {
		switch f := filter.(type) {
		case store.Eq:
			query = query.Where(f.Field, "==", f.Value)
		case store.Range:
			if f.Min != nil {
				query = query.Where(f.Field, ">=", f.Min)
			}
			if f.Max != nil {
				query = query.Where(f.Field, "<=", f.Max)
			}
		case store.Contains:
			query = query.Where(f.Field, "array-contains", f.Value)
		case store.TextSearch:
			// advisory, never narrows
		}
	}

	return query
}
