// Package store defines the record-store contract the persistence layer is
// built on. Repositories talk to a Store, which wraps a backend Driver with
// uniform error wrapping and a sort fallback for backends that require
// composite indexes.
package store

import (
	"context"
	"strings"

	"kalaghar/internal/errors"
)

// ErrDocumentNotFound is returned by Get and Update when no document with the
// given id exists in the collection.
var ErrDocumentNotFound = errors.New("document not found")

// Document is the schemaless record form drivers operate on.
type Document = map[string]any

// SortOrder is the direction of a sorted query.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter narrows a FindMany or Count query. Exactly one of the concrete
// filter types is used per Filter value.
type Filter interface {
	filter()
}

// Eq matches documents whose field equals the given value.
type Eq struct {
	Field string
	Value any
}

// Range matches documents whose field lies within [Min, Max]. A nil bound is
// unbounded on that side.
type Range struct {
	Field string
	Min   any
	Max   any
}

// Contains matches documents whose array field contains the given value.
type Contains struct {
	Field string
	Value any
}

// TextSearch marks a substring search over the given fields. Drivers accept
// the filter but do not narrow results; callers must treat results as a
// superset and serve real text search from an external index.
type TextSearch struct {
	Fields []string
	Query  string
}

func (Eq) filter()         {}
func (Range) filter()      {}
func (Contains) filter()   {}
func (TextSearch) filter() {}

// FindOptions controls ordering and pagination of FindMany.
type FindOptions struct {
	SortBy    string
	SortOrder SortOrder
	Limit     int
	Offset    int
}

// Driver is a minimal document-store backend. Implementations exist for
// Firestore and for an in-memory map used in tests and local development.
type Driver interface {
	Create(ctx context.Context, collection, id string, doc Document) error
	Get(ctx context.Context, collection, id string) (Document, error)
	FindMany(ctx context.Context, collection string, filters []Filter, opts FindOptions) ([]Document, error)
	Update(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string, filters []Filter) (int64, error)
}

// Store wraps a Driver with operation-named error context and the
// missing-index sort fallback.
type Store struct {
	driver Driver
}

// New creates a Store backed by the given driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

// Create inserts a new document under the given id.
func (s *Store) Create(ctx context.Context, collection, id string, doc Document) error {
	if err := s.driver.Create(ctx, collection, id, doc); err != nil {
		return errors.Wrapf(err, "store create in %s", collection)
	}

	return nil
}

// Get fetches a document by id. Returns ErrDocumentNotFound when absent.
func (s *Store) Get(ctx context.Context, collection, id string) (Document, error) {
	doc, err := s.driver.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, err
		}

		return nil, errors.Wrapf(err, "store get from %s", collection)
	}

	return doc, nil
}

// FindOne returns the first document matching the filters, or
// ErrDocumentNotFound when none match.
func (s *Store) FindOne(ctx context.Context, collection string, filters []Filter) (Document, error) {
	docs, err := s.FindMany(ctx, collection, filters, FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrDocumentNotFound
	}

	return docs[0], nil
}

// FindMany returns all documents matching the filters. When the backend
// rejects a filtered-and-sorted query because a composite index is missing,
// the query is retried without the sort and the unsorted result is returned
// rather than an error.
func (s *Store) FindMany(ctx context.Context, collection string, filters []Filter, opts FindOptions) ([]Document, error) {
	docs, err := s.driver.FindMany(ctx, collection, filters, opts)
	if err != nil {
		if opts.SortBy != "" && len(filters) > 0 && isIndexMissing(err) {
			unsorted := opts
			unsorted.SortBy = ""
			unsorted.SortOrder = ""

			docs, err = s.driver.FindMany(ctx, collection, filters, unsorted)
			if err != nil {
				return nil, errors.Wrapf(err, "store find in %s without sort", collection)
			}

			return docs, nil
		}

		return nil, errors.Wrapf(err, "store find in %s", collection)
	}

	return docs, nil
}

// Update overwrites the document with the given id. Returns
// ErrDocumentNotFound when absent.
func (s *Store) Update(ctx context.Context, collection, id string, doc Document) error {
	if err := s.driver.Update(ctx, collection, id, doc); err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return err
		}

		return errors.Wrapf(err, "store update in %s", collection)
	}

	return nil
}

// Delete removes the document with the given id. Deleting an absent document
// is not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := s.driver.Delete(ctx, collection, id); err != nil {
		return errors.Wrapf(err, "store delete from %s", collection)
	}

	return nil
}

// Count returns the number of documents matching the filters.
func (s *Store) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	n, err := s.driver.Count(ctx, collection, filters)
	if err != nil {
		return 0, errors.Wrapf(err, "store count in %s", collection)
	}

	return n, nil
}

// Exists reports whether any document matches the filters.
func (s *Store) Exists(ctx context.Context, collection string, filters []Filter) (bool, error) {
	n, err := s.Count(ctx, collection, filters)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// isIndexMissing detects the backend's missing-composite-index rejection.
// Firestore reports it as a FailedPrecondition whose message names the index
// requirement, so message inspection is the only portable signal.
func isIndexMissing(err error) bool {
	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "index") &&
		(strings.Contains(msg, "requires") || strings.Contains(msg, "required") || strings.Contains(msg, "missing"))
}
