package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaghar/internal/errors"
)

// indexlessDriver rejects filtered-and-sorted queries the way a backend
// without the composite index does, and serves the unsorted variant.
type indexlessDriver struct {
	docs      []Document
	findCalls []FindOptions
}

func (d *indexlessDriver) Create(_ context.Context, _, _ string, _ Document) error { return nil }

func (d *indexlessDriver) Get(_ context.Context, _, _ string) (Document, error) {
	return nil, ErrDocumentNotFound
}

func (d *indexlessDriver) FindMany(_ context.Context, _ string, filters []Filter, opts FindOptions) ([]Document, error) {
	d.findCalls = append(d.findCalls, opts)
	if len(filters) > 0 && opts.SortBy != "" {
		return nil, errors.New("rpc error: code = FailedPrecondition desc = The query requires an index")
	}

	return d.docs, nil
}

func (d *indexlessDriver) Update(_ context.Context, _, _ string, _ Document) error { return nil }
func (d *indexlessDriver) Delete(_ context.Context, _, _ string) error             { return nil }

func (d *indexlessDriver) Count(_ context.Context, _ string, _ []Filter) (int64, error) {
	return int64(len(d.docs)), nil
}

func TestFindManyIndexFallback(t *testing.T) {
	t.Parallel()

	matched := []Document{
		{"id": "a", "category": "pottery"},
		{"id": "b", "category": "pottery"},
	}
	driver := &indexlessDriver{docs: matched}
	s := New(driver)

	docs, err := s.FindMany(context.Background(), "products",
		[]Filter{Eq{Field: "category", Value: "pottery"}},
		FindOptions{SortBy: "createdAt", SortOrder: SortDesc})

	require.NoError(t, err)
	assert.Equal(t, matched, docs)

	require.Len(t, driver.findCalls, 2)
	assert.Equal(t, "createdAt", driver.findCalls[0].SortBy)
	assert.Empty(t, driver.findCalls[1].SortBy)
	assert.Empty(t, driver.findCalls[1].SortOrder)
}

func TestFindManyUnsortedErrorNotRetried(t *testing.T) {
	t.Parallel()

	driver := &failingDriver{err: errors.New("connection reset")}
	s := New(driver)

	_, err := s.FindMany(context.Background(), "products",
		[]Filter{Eq{Field: "category", Value: "pottery"}},
		FindOptions{SortBy: "createdAt"})

	require.Error(t, err)
	assert.Equal(t, 1, driver.calls)
}

func TestFindManySortWithoutFilterErrors(t *testing.T) {
	t.Parallel()

	driver := &failingDriver{err: errors.New("query requires an index")}
	s := New(driver)

	_, err := s.FindMany(context.Background(), "products", nil,
		FindOptions{SortBy: "createdAt"})

	require.Error(t, err)
	assert.Equal(t, 1, driver.calls)
}

func TestFindOneNoMatch(t *testing.T) {
	t.Parallel()

	s := New(&indexlessDriver{})

	_, err := s.FindOne(context.Background(), "users",
		[]Filter{Eq{Field: "email", Value: "nobody@example.com"}})

	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	type sample struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	doc, err := Encode(sample{Name: "clay bowl", Price: 24.5})
	require.NoError(t, err)
	assert.Equal(t, "clay bowl", doc["name"])

	var out sample
	require.NoError(t, Decode(doc, &out))
	assert.Equal(t, sample{Name: "clay bowl", Price: 24.5}, out)
}

// failingDriver always returns its configured error from FindMany.
type failingDriver struct {
	err   error
	calls int
}

func (d *failingDriver) Create(_ context.Context, _, _ string, _ Document) error { return nil }

func (d *failingDriver) Get(_ context.Context, _, _ string) (Document, error) {
	return nil, ErrDocumentNotFound
}

func (d *failingDriver) FindMany(_ context.Context, _ string, _ []Filter, _ FindOptions) ([]Document, error) {
	d.calls++

	return nil, d.err
}

func (d *failingDriver) Update(_ context.Context, _, _ string, _ Document) error { return nil }
func (d *failingDriver) Delete(_ context.Context, _, _ string) error             { return nil }

func (d *failingDriver) Count(_ context.Context, _ string, _ []Filter) (int64, error) {
	return 0, d.err
}
