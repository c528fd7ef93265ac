// Package memory implements the store.Driver contract on in-process maps.
// It backs local development and tests, where no Firestore project is
// configured.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"kalaghar/internal/domain/store"
	"kalaghar/internal/errors"
)

// Driver holds every collection in a mutex-guarded map. Documents are cloned
// on the way in and out so callers never share backing storage.
type Driver struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Document
}

// NewDriver creates an empty in-memory driver.
func NewDriver() *Driver {
	return &Driver{collections: make(map[string]map[string]store.Document)}
}

// Create inserts a new document under the given id.
func (d *Driver) Create(_ context.Context, collection, id string, doc store.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	coll, ok := d.collections[collection]
	if !ok {
		coll = make(map[string]store.Document)
		d.collections[collection] = coll
	}
	if _, exists := coll[id]; exists {
		return errors.Errorf("document %s already exists in %s", id, collection)
	}
	coll[id] = clone(doc)

	return nil
}

// Get fetches a document by id.
func (d *Driver) Get(_ context.Context, collection, id string) (store.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	doc, ok := d.collections[collection][id]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}

	return clone(doc), nil
}

// FindMany returns all matching documents, sorted and paginated per opts.
// Unlike Firestore this driver needs no indexes, so filtered-and-sorted
// queries always succeed.
func (d *Driver) FindMany(_ context.Context, collection string, filters []store.Filter, opts store.FindOptions) ([]store.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	matched := make([]store.Document, 0)
	for _, doc := range d.collections[collection] {
		if matchesAll(doc, filters) {
			matched = append(matched, clone(doc))
		}
	}

	if opts.SortBy != "" {
		sortDocs(matched, opts.SortBy, opts.SortOrder)
	} else {
		// Map iteration order is random; keep unsorted output stable by id.
		sortDocs(matched, "id", store.SortAsc)
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []store.Document{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	return matched, nil
}

// Update overwrites the document with the given id.
func (d *Driver) Update(_ context.Context, collection, id string, doc store.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	coll, ok := d.collections[collection]
	if !ok {
		return store.ErrDocumentNotFound
	}
	if _, exists := coll[id]; !exists {
		return store.ErrDocumentNotFound
	}
	coll[id] = clone(doc)

	return nil
}

// Delete removes the document with the given id, if present.
func (d *Driver) Delete(_ context.Context, collection, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.collections[collection], id)

	return nil
}

// Count returns the number of matching documents.
func (d *Driver) Count(_ context.Context, collection string, filters []store.Filter) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var n int64
	for _, doc := range d.collections[collection] {
		if matchesAll(doc, filters) {
			n++
		}
	}

	return n, nil
}

func matchesAll(doc store.Document, filters []store.Filter) bool {
	for _, f := range filters {
		if !matches(doc, f) {
			return false
		}
	}

	return true
}

func matches(doc store.Document, filter store.Filter) bool {
	switch f := filter.(type) {
	case store.Eq:
		return equalValues(doc[f.Field], f.Value)
	case store.Range:
		value, ok := doc[f.Field]
		if !ok {
			return false
		}
		if f.Min != nil && compareValues(value, f.Min) < 0 {
			return false
		}
		if f.Max != nil && compareValues(value, f.Max) > 0 {
			return false
		}

		return true
	case store.Contains:
		values, ok := doc[f.Field].([]any)
		if !ok {
			return false
		}
		for _, v := range values {
			if equalValues(v, f.Value) {
				return true
			}
		}

		return false
	case store.TextSearch:
		// Advisory per the driver contract; never narrows results.
		return true
	default:
		return false
	}
}

// equalValues compares after normalizing both sides through JSON, so typed
// values given in filters match the document form produced by store.Encode.
func equalValues(a, b any) bool {
	na, err := normalize(a)
	if err != nil {
		return false
	}
	nb, err := normalize(b)
	if err != nil {
		return false
	}

	switch va := na.(type) {
	case float64:
		vb, ok := nb.(float64)

		return ok && va == vb
	case string:
		vb, ok := nb.(string)

		return ok && va == vb
	case bool:
		vb, ok := nb.(bool)

		return ok && va == vb
	case nil:
		return nb == nil
	default:
		return false
	}
}

func compareValues(a, b any) int {
	na, errA := normalize(a)
	nb, errB := normalize(b)
	if errA != nil || errB != nil {
		return 0
	}

	switch va := na.(type) {
	case float64:
		if vb, ok := nb.(float64); ok {
			switch {
			case va < vb:
				return -1
			case va > vb:
				return 1
			default:
				return 0
			}
		}
	case string:
		if vb, ok := nb.(string); ok {
			return strings.Compare(va, vb)
		}
	}

	return 0
}

func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func sortDocs(docs []store.Document, field string, order store.SortOrder) {
	sort.SliceStable(docs, func(i, j int) bool {
		cmp := compareValues(docs[i][field], docs[j][field])
		if order == store.SortDesc {
			return cmp > 0
		}

		return cmp < 0
	})
}

func clone(doc store.Document) store.Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		return doc
	}

	var out store.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return doc
	}

	return out
}
