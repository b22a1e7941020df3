package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/localstore"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewedIDs(items []RecentlyViewedItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Product.ID)
	}
	return ids
}

func TestRecentlyViewedOrderAndDedup(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		viewed := NewRecentlyViewedService(localstore.NewMemoryStore(0), f.catalog)
		p := f.product(t, "V-1", 1, 1000)
		q := f.product(t, "V-2", 1, 1000)
		r := f.product(t, "V-3", 1, 1000)

		require.NoError(t, viewed.Record(ctx, testDevice, p.ID))
		require.NoError(t, viewed.Record(ctx, testDevice, q.ID))
		require.NoError(t, viewed.Record(ctx, testDevice, r.ID))
		require.NoError(t, viewed.Record(ctx, testDevice, p.ID))

		items, err := viewed.List(ctx, testDevice, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{p.ID, r.ID, q.ID}, viewedIDs(items))

		items, err = viewed.List(ctx, testDevice, p.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{r.ID}, viewedIDs(items))

		require.NoError(t, f.catalog.DeleteProduct(ctx, r.ID))
		items, err = viewed.List(ctx, testDevice, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{p.ID, q.ID}, viewedIDs(items))

		other, err := viewed.List(ctx, "device-0002-abcd", 0, 0)
		require.NoError(t, err)
		assert.Empty(t, other)

		require.NoError(t, viewed.Clear(ctx, testDevice))
		items, err = viewed.List(ctx, testDevice, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestRecentlyViewedKeepsNewestUpToCap(t *testing.T) {
	store := repository.NewMemoryStore()
	f := newShopFixture(t, store)
	ctx := context.Background()
	viewed := NewRecentlyViewedService(localstore.NewMemoryStore(0), f.catalog)

	var products []*models.Product
	for i := 0; i < constants.RecentlyViewedMax+3; i++ {
		p := f.product(t, fmt.Sprintf("C-%d", i), 1, 1000)
		products = append(products, p)
		require.NoError(t, viewed.Record(ctx, testDevice, p.ID))
	}

	items, err := viewed.List(ctx, testDevice, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, constants.RecentlyViewedMax)
	last := products[len(products)-1]
	assert.Equal(t, last.ID, items[0].Product.ID)
	for _, item := range items {
		assert.NotEqual(t, products[0].ID, item.Product.ID, "oldest views fall off the list")
	}
	assert.False(t, items[0].ViewedAt.Before(items[len(items)-1].ViewedAt))
}

func TestRecentlyViewedIgnoresZeroProduct(t *testing.T) {
	store := repository.NewMemoryStore()
	f := newShopFixture(t, store)
	ctx := context.Background()
	viewed := NewRecentlyViewedService(localstore.NewMemoryStore(0), f.catalog)

	require.NoError(t, viewed.Record(ctx, testDevice, 0))
	items, err := viewed.List(ctx, testDevice, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}
