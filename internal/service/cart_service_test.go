package service

import (
	"context"
	"testing"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/localstore"
	"github.com/dorada-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDevice = "device-0001-abcd"

func TestCartServiceCheckout(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		carts := NewCartService(localstore.NewMemoryStore(0), f.catalog, f.orders)
		p := f.product(t, "K-1", 4, 1000)
		q := f.product(t, "K-2", 2, 3000)

		view, err := carts.Get(ctx, testDevice)
		require.NoError(t, err)
		assert.Empty(t, view.Lines)
		assert.Zero(t, view.ShippingFee)
		assert.Zero(t, view.Total)

		_, err = carts.AddItem(ctx, testDevice, p.ID, 2)
		require.NoError(t, err)
		view, err = carts.AddItem(ctx, testDevice, q.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, view.ItemCount)
		assert.Equal(t, int64(5000), view.Subtotal)
		assert.Equal(t, int64(5000), view.ShippingFee)
		assert.Equal(t, int64(10000), view.Total)

		_, err = carts.AddItem(ctx, testDevice, q.ID, 2)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		_, err = carts.AddItem(ctx, testDevice, q.ID+100, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)

		view, err = carts.UpdateItem(ctx, testDevice, q.ID, 0)
		require.NoError(t, err)
		assert.Len(t, view.Lines, 1)

		order, err := carts.Checkout(ctx, testDevice, testCustomer())
		require.NoError(t, err)
		assert.Equal(t, int64(2000+5000), order.Total)
		assert.Equal(t, constants.OrderStatusPending, order.Status)
		assert.Equal(t, 4, f.quantity(t, p.ID))

		view, err = carts.Get(ctx, testDevice)
		require.NoError(t, err)
		assert.Empty(t, view.Lines)
	})
}

func TestCartServiceKeepsCartWhenCheckoutFails(t *testing.T) {
	store := repository.NewMemoryStore()
	f := newShopFixture(t, store)
	ctx := context.Background()
	carts := NewCartService(localstore.NewMemoryStore(0), f.catalog, f.orders)
	p := f.product(t, "K-3", 2, 1000)

	_, err := carts.AddItem(ctx, testDevice, p.ID, 2)
	require.NoError(t, err)
	_, err = f.catalog.AdjustQuantity(ctx, p.ID, -1)
	require.NoError(t, err)

	_, err = carts.Checkout(ctx, testDevice, testCustomer())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	view, err := carts.Get(ctx, testDevice)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Available)

	_, err = carts.Checkout(ctx, testDevice, CustomerInfo{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartServiceRejectsBadDevice(t *testing.T) {
	store := repository.NewMemoryStore()
	f := newShopFixture(t, store)
	carts := NewCartService(localstore.NewMemoryStore(0), f.catalog, f.orders)

	_, err := carts.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidDevice)
}

func TestWishlistService(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		wishlist := NewWishlistService(localstore.NewMemoryStore(0), f.catalog)
		p := f.product(t, "W-1", 1, 1000)
		q := f.product(t, "W-2", 1, 1000)

		require.NoError(t, wishlist.Add(ctx, testDevice, p.ID))
		require.NoError(t, wishlist.Add(ctx, testDevice, q.ID))
		assert.ErrorIs(t, wishlist.Add(ctx, testDevice, p.ID), ErrWishlistDuplicate)
		assert.ErrorIs(t, wishlist.Add(ctx, testDevice, q.ID+10), ErrProductNotFound)

		items, err := wishlist.List(ctx, testDevice)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, q.ID, items[0].Product.ID)
		assert.Equal(t, p.ID, items[1].Product.ID)

		require.NoError(t, f.catalog.DeleteProduct(ctx, q.ID))
		items, err = wishlist.List(ctx, testDevice)
		require.NoError(t, err)
		require.Len(t, items, 1)

		require.NoError(t, wishlist.Remove(ctx, testDevice, p.ID))
		ok, err := wishlist.Contains(ctx, testDevice, p.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, wishlist.Clear(ctx, testDevice))
		items, err = wishlist.List(ctx, testDevice)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
