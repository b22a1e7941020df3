package service

import (
	"errors"
	"testing"

	"github.com/dorada-store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartProduct(id uint, qty int, price int64) models.Product {
	return models.Product{
		ID:       id,
		NameAr:   "منتج",
		Price:    price,
		Quantity: qty,
		InStock:  qty > 0,
		Images:   models.StringArray{"/img.jpg"},
	}
}

func TestCartAddMergesAndChecksStock(t *testing.T) {
	var cart Cart
	ring := cartProduct(1, 3, 1000)

	require.NoError(t, cart.Add(ring, 0))
	require.NoError(t, cart.Add(ring, 2))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, int64(3000), cart.Subtotal)

	err := cart.Add(ring, 1)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	assert.ErrorIs(t, cart.Add(cartProduct(2, 0, 500), 1), ErrOutOfStock)
	assert.False(t, cart.Contains(2))
}

func TestCartUpdateQuantity(t *testing.T) {
	var cart Cart
	ring := cartProduct(1, 5, 1000)
	chain := cartProduct(2, 5, 2500)
	require.NoError(t, cart.Add(ring, 1))
	require.NoError(t, cart.Add(chain, 1))

	require.NoError(t, cart.UpdateQuantity(ring, 4))
	assert.Equal(t, int64(4*1000+2500), cart.Subtotal)
	assert.ErrorIs(t, cart.UpdateQuantity(ring, 6), ErrInsufficientStock)

	require.NoError(t, cart.UpdateQuantity(chain, 0))
	assert.False(t, cart.Contains(2))
	assert.Equal(t, []OrderLine{{ProductID: 1, Quantity: 4}}, cart.OrderLines())

	cart.Clear()
	assert.Empty(t, cart.Lines)
	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.ItemCount)
}

func TestCartRefreshUsesLiveData(t *testing.T) {
	var cart Cart
	require.NoError(t, cart.Add(cartProduct(1, 5, 1000), 2))
	require.NoError(t, cart.Add(cartProduct(2, 5, 1000), 1))

	repriced := cartProduct(1, 1, 1500)
	cart.Refresh(map[uint]models.Product{1: repriced})

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(1500), cart.Lines[0].Price)
	assert.Equal(t, 1, cart.Lines[0].Available)
	assert.Equal(t, int64(3000), cart.Subtotal)
	assert.Equal(t, []uint{1}, cart.ProductIDs())
}
