package service

import (
	"context"
	"testing"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newShopFixture(t, store)
		ctx := context.Background()
		ring := f.product(t, "DB-1", 10, 10000)
		chain := f.product(t, "DB-2", 2, 40000)
		f.product(t, "DB-3", 0, 1000)

		delivered := f.order(t, OrderLine{ProductID: ring.ID, Quantity: 3})
		shipped := f.order(t, OrderLine{ProductID: chain.ID, Quantity: 1})
		cancelled := f.order(t, OrderLine{ProductID: ring.ID, Quantity: 1})
		f.order(t, OrderLine{ProductID: ring.ID, Quantity: 2})

		for id, status := range map[uint]string{
			delivered.ID: constants.OrderStatusDelivered,
			shipped.ID:   constants.OrderStatusShipped,
			cancelled.ID: constants.OrderStatusCancelled,
		} {
			_, err := f.orders.SetOrderStatus(ctx, id, status)
			require.NoError(t, err)
		}

		stats, err := NewDashboardService(store, 3).Stats(ctx)
		require.NoError(t, err)

		assert.EqualValues(t, 3, stats.Products.Total)
		assert.EqualValues(t, 1, stats.Products.OutOfStock)
		assert.EqualValues(t, 1, stats.Products.LowStock) // chain has 1 left
		assert.EqualValues(t, 7+1, stats.Products.Units)

		assert.EqualValues(t, 4, stats.Orders.Total)
		assert.EqualValues(t, 1, stats.Orders.ByStatus[constants.OrderStatusPending])
		assert.EqualValues(t, 1, stats.Orders.ByStatus[constants.OrderStatusCancelled])
		assert.Contains(t, stats.Orders.ByStatus, constants.OrderStatusProcessing)

		assert.Equal(t, int64(35000), stats.Revenue.Amount)
		assert.Equal(t, "35,000 IQD", stats.Revenue.Formatted)
		assert.Equal(t, int64(45000), stats.OpenValue.Amount)
		// (35000 + 45000 + 25000) / 3
		assert.Equal(t, int64(35000), stats.AverageOrderValue.Amount)

		var trendOrders int64
		for _, day := range stats.Trend {
			trendOrders += day.Orders
		}
		assert.EqualValues(t, 4, trendOrders)

		require.Len(t, stats.TopProducts, 2)
		assert.Equal(t, ring.ID, stats.TopProducts[0].ProductID)
		assert.EqualValues(t, 3, stats.TopProducts[0].Quantity)
		assert.Equal(t, int64(30000), stats.TopProducts[0].Amount.Amount)
	})
}
