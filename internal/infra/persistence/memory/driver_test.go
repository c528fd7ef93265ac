package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaghar/internal/domain/store"
)

func seedProducts(t *testing.T, d *Driver) {
	t.Helper()

	docs := []store.Document{
		{"id": "p1", "name": "Indigo Scarf", "category": "textiles", "price": 45.0},
		{"id": "p2", "name": "Clay Bowl", "category": "pottery", "price": 24.5},
		{"id": "p3", "name": "Clay Vase", "category": "pottery", "price": 60.0},
		{"id": "p4", "name": "Silver Ring", "category": "jewelry", "price": 120.0},
	}
	for _, doc := range docs {
		require.NoError(t, d.Create(context.Background(), "products", doc["id"].(string), doc))
	}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	ctx := context.Background()

	require.NoError(t, d.Create(ctx, "users", "u1", store.Document{"id": "u1", "name": "Mira"}))

	doc, err := d.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mira", doc["name"])

	_, err = d.Get(ctx, "users", "missing")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	err = d.Create(ctx, "users", "u1", store.Document{"id": "u1"})
	assert.Error(t, err)
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	ctx := context.Background()

	require.NoError(t, d.Create(ctx, "users", "u1", store.Document{"id": "u1", "name": "Mira"}))

	doc, err := d.Get(ctx, "users", "u1")
	require.NoError(t, err)
	doc["name"] = "changed"

	again, err := d.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Mira", again["name"])
}

func TestFindManyEqFilter(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	seedProducts(t, d)

	docs, err := d.FindMany(context.Background(), "products",
		[]store.Filter{store.Eq{Field: "category", Value: "pottery"}},
		store.FindOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p2", docs[0]["id"])
	assert.Equal(t, "p3", docs[1]["id"])
}

func TestFindManyRangeFilter(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	seedProducts(t, d)

	docs, err := d.FindMany(context.Background(), "products",
		[]store.Filter{store.Range{Field: "price", Min: 30.0, Max: 100.0}},
		store.FindOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p1", docs[0]["id"])
	assert.Equal(t, "p3", docs[1]["id"])
}

func TestFindManyTextSearchIsAdvisory(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	seedProducts(t, d)

	// The marker is accepted but never narrows the result set.
	docs, err := d.FindMany(context.Background(), "products",
		[]store.Filter{store.TextSearch{Fields: []string{"name"}, Query: "clay"}},
		store.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, docs, 4)
}

func TestFindManySortAndPaginate(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	seedProducts(t, d)

	docs, err := d.FindMany(context.Background(), "products", nil,
		store.FindOptions{SortBy: "price", SortOrder: store.SortDesc, Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p3", docs[0]["id"])
	assert.Equal(t, "p1", docs[1]["id"])
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	ctx := context.Background()

	err := d.Update(ctx, "products", "p1", store.Document{"id": "p1"})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	seedProducts(t, d)

	require.NoError(t, d.Update(ctx, "products", "p1", store.Document{"id": "p1", "price": 50.0}))
	doc, err := d.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.Equal(t, 50.0, doc["price"])

	require.NoError(t, d.Delete(ctx, "products", "p1"))
	_, err = d.Get(ctx, "products", "p1")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	require.NoError(t, d.Delete(ctx, "products", "p1"))
}

func TestCount(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	seedProducts(t, d)

	n, err := d.Count(context.Background(), "products",
		[]store.Filter{store.Eq{Field: "category", Value: "pottery"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
