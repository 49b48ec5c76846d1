package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddIncrementsExistingRow(t *testing.T) {
	db := newTestDB(t)
	store := NewCartStore(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Icon pack", "10.00")

	first, err := store.Add(ctx, buyer, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := store.Add(ctx, buyer, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	assert.EqualValues(t, 1, countCartItems(t, db, buyer.Email))
}

func TestCartAddValidation(t *testing.T) {
	db := newTestDB(t)
	store := NewCartStore(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Font", "5.00")

	_, err := store.Add(ctx, buyer, 9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Add(ctx, buyer, p.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = store.Add(ctx, Identity{}, p.ID, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCartListJoinsProducts(t *testing.T) {
	db := newTestDB(t)
	store := NewCartStore(db)
	ctx := context.Background()
	a := seedProduct(t, db, "Theme", "49.99")
	b := seedProduct(t, db, "Plugin", "15.00")

	_, err := store.Add(ctx, buyer, a.ID, 1)
	require.NoError(t, err)
	_, err = store.Add(ctx, buyer, b.ID, 3)
	require.NoError(t, err)
	_, err = store.Add(ctx, stranger, a.ID, 1)
	require.NoError(t, err)

	items, err := store.List(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Theme", items[0].Product.Title)
	assert.Equal(t, "Plugin", items[1].Product.Title)

	// Deleted products drop out of the cart view.
	require.NoError(t, db.Delete(&b).Error)
	items, err = store.List(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartMutationsAreScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	store := NewCartStore(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Preset", "3.00")

	item, err := store.Add(ctx, buyer, p.ID, 1)
	require.NoError(t, err)

	_, err = store.UpdateQuantity(ctx, stranger, item.ID, 5)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Remove(ctx, stranger, item.ID), ErrNotFound)

	updated, err := store.UpdateQuantity(ctx, buyer, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	removed, err := store.UpdateQuantity(ctx, buyer, item.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, removed)
	assert.Zero(t, countCartItems(t, db, buyer.Email))

	assert.ErrorIs(t, store.Remove(ctx, buyer, item.ID), ErrNotFound)
}

func TestCartClear(t *testing.T) {
	db := newTestDB(t)
	store := NewCartStore(db)
	ctx := context.Background()
	a := seedProduct(t, db, "A", "1.00")
	b := seedProduct(t, db, "B", "2.00")

	_, err := store.Add(ctx, buyer, a.ID, 1)
	require.NoError(t, err)
	_, err = store.Add(ctx, buyer, b.ID, 1)
	require.NoError(t, err)
	_, err = store.Add(ctx, stranger, a.ID, 1)
	require.NoError(t, err)

	n, err := store.Clear(ctx, buyer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = store.Clear(ctx, buyer)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.EqualValues(t, 1, countCartItems(t, db, stranger.Email))
}

func TestCartSnapshotNormalizesPrices(t *testing.T) {
	db := newTestDB(t)
	store := NewCartStore(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Odd", "10.005")

	_, err := store.Add(ctx, buyer, p.ID, 2)
	require.NoError(t, err)

	snap, err := store.Snapshot(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, buyer.Email, snap.OwnerEmail)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "10.00", snap.Items[0].Price)
	assert.Equal(t, 2, snap.Items[0].Quantity)
}
