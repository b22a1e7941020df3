package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/dorada-store/internal/models"
)

func createTestOrder(t *testing.T, store Store, orderNo, status string, items ...models.OrderItem) *models.Order {
	t.Helper()
	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	order := &models.Order{
		OrderNo:         orderNo,
		CustomerName:    "زينب",
		CustomerPhone:   "+9647701234567",
		CustomerAddress: "الكرادة، شارع 62",
		CustomerCity:    "بغداد",
		Subtotal:        subtotal,
		ShippingFee:     5000,
		Total:           subtotal + 5000,
		Currency:        "IQD",
		Status:          status,
		StatusAr:        status,
		Items:           items,
	}
	if err := store.Orders().Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderCreateAndLookup(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		order := createTestOrder(t, store, "DR20260101000000ABCDEF", "pending",
			models.OrderItem{ProductID: 1, NameAr: "خاتم", Price: 10000, Quantity: 2, SKU: "R-1"},
			models.OrderItem{ProductID: 2, NameAr: "سلسلة", Price: 7000, Quantity: 1, SKU: "C-1"},
		)
		if order.ID == 0 || order.Items[0].OrderID != order.ID {
			t.Fatalf("ids should be assigned, got order=%d item.order=%d", order.ID, order.Items[0].OrderID)
		}

		found, err := store.Orders().GetByOrderNo("dr20260101000000abcdef")
		if err != nil || found == nil {
			t.Fatalf("lookup by order no failed: %v", err)
		}
		if len(found.Items) != 2 || found.Items[0].SKU != "R-1" {
			t.Fatalf("items want 2 in insert order, got %+v", found.Items)
		}
		if found.Total != 32000 {
			t.Fatalf("total want 32000 got %d", found.Total)
		}

		dup := &models.Order{OrderNo: "DR20260101000000ABCDEF", Status: "pending", StatusAr: "x", Currency: "IQD"}
		if err := store.Orders().Create(dup); !errors.Is(err, ErrDuplicate) {
			t.Fatalf("duplicate order no want ErrDuplicate got %v", err)
		}
	})
}

func TestOrderUpdateStatusCompareAndSwap(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		order := createTestOrder(t, store, "DR-CAS-1", "pending")
		now := time.Now()

		if err := store.Orders().UpdateStatus(order.ID, "shipped", "cancelled", "ملغي", now); !errors.Is(err, ErrConflict) {
			t.Fatalf("stale from want ErrConflict got %v", err)
		}
		if err := store.Orders().UpdateStatus(order.ID, "pending", "processing", "قيد المعالجة", now); err != nil {
			t.Fatalf("update status failed: %v", err)
		}
		if err := store.Orders().UpdateStatus(777, "pending", "processing", "قيد المعالجة", now); !errors.Is(err, ErrNotFound) {
			t.Fatalf("missing order want ErrNotFound got %v", err)
		}
		reloaded, _ := store.Orders().GetByID(order.ID)
		if reloaded.Status != "processing" || reloaded.StatusAr != "قيد المعالجة" {
			t.Fatalf("status want processing got %s/%s", reloaded.Status, reloaded.StatusAr)
		}

		if err := store.Orders().SetTelegramMessageID(order.ID, 42); err != nil {
			t.Fatalf("set telegram message id failed: %v", err)
		}
		reloaded, _ = store.Orders().GetByID(order.ID)
		if reloaded.TelegramMessageID == nil || *reloaded.TelegramMessageID != 42 {
			t.Fatalf("telegram message id want 42")
		}
	})
}

func TestOrderListAndDashboardQueries(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store) {
		ring := models.OrderItem{ProductID: 1, NameAr: "خاتم", Price: 10000, Quantity: 1}
		chain := models.OrderItem{ProductID: 2, NameAr: "سلسلة", Price: 5000, Quantity: 3}
		createTestOrder(t, store, "DR-LIST-1", "pending", ring)
		createTestOrder(t, store, "DR-LIST-2", "shipped", chain)
		createTestOrder(t, store, "DR-LIST-3", "delivered", ring, chain)

		rows, total, err := store.Orders().List(OrderListFilter{Status: "shipped"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 1 || rows[0].OrderNo != "DR-LIST-2" {
			t.Fatalf("status filter want DR-LIST-2 got total=%d", total)
		}
		_, total, _ = store.Orders().List(OrderListFilter{Search: "LIST-3"})
		if total != 1 {
			t.Fatalf("search want 1 got %d", total)
		}
		rows, total, _ = store.Orders().List(OrderListFilter{Page: 1, PageSize: 2})
		if total != 3 || len(rows) != 2 {
			t.Fatalf("pagination want total 3 len 2 got %d/%d", total, len(rows))
		}

		summary, err := store.Orders().Summary(time.Now().Add(-24 * time.Hour))
		if err != nil {
			t.Fatalf("summary failed: %v", err)
		}
		if summary.Total != 3 || summary.Counts["pending"] != 1 || summary.Amounts["shipped"] != 20000 {
			t.Fatalf("unexpected summary %+v", summary)
		}
		if len(summary.LastDays) == 0 {
			t.Fatalf("daily trend should not be empty")
		}

		top, err := store.Orders().TopProducts([]string{"processing", "shipped", "delivered"}, 5)
		if err != nil {
			t.Fatalf("top products failed: %v", err)
		}
		if len(top) != 2 || top[0].ProductID != 2 || top[0].Quantity != 6 {
			t.Fatalf("unexpected ranking %+v", top)
		}
	})
}
