package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/events"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := models.Open("sqlite", dsn, false)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

// eachBackend runs fn against the database store and the in-process store.
func eachBackend(t *testing.T, fn func(t *testing.T, store repository.Store)) {
	t.Run("gorm", func(t *testing.T) {
		fn(t, repository.NewGormStore(openTestDB(t)))
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, repository.NewMemoryStore())
	})
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type shopFixture struct {
	store     repository.Store
	catalog   *CatalogService
	orders    *OrderService
	published *recordingPublisher
	category  *models.Category
}

func testOrderConfig() config.OrderConfig {
	return config.OrderConfig{
		ShippingFee:    5000,
		PhonePolicy:    constants.PhonePolicyIraqi,
		MaxFieldLength: 500,
		MaxItems:       50,
	}
}

func newShopFixture(t *testing.T, store repository.Store) *shopFixture {
	t.Helper()
	catalog := NewCatalogService(store, nil, nil, config.CatalogConfig{LowStockThreshold: 3})
	published := &recordingPublisher{}
	orders, err := NewOrderService(store, catalog, published, nil, testOrderConfig())
	require.NoError(t, err)
	category := &models.Category{Name: "Rings", NameAr: "خواتم"}
	require.NoError(t, store.Categories().Create(category))
	return &shopFixture{store: store, catalog: catalog, orders: orders, published: published, category: category}
}

func (f *shopFixture) product(t *testing.T, sku string, quantity int, price int64) *models.Product {
	t.Helper()
	nameAr := "خاتم " + sku
	images := []string{"/uploads/product/" + sku + ".jpg"}
	product, err := f.catalog.CreateProduct(context.Background(), ProductInput{
		CategoryID: &f.category.ID,
		NameAr:     &nameAr,
		Price:      &price,
		Images:     &images,
		Quantity:   &quantity,
		SKU:        &sku,
	})
	require.NoError(t, err)
	return product
}

func (f *shopFixture) quantity(t *testing.T, id uint) int {
	t.Helper()
	product, err := f.catalog.GetProduct(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, product.Quantity > 0, product.InStock, "in_stock must mirror quantity")
	return product.Quantity
}

func testCustomer() CustomerInfo {
	return CustomerInfo{
		Name:    "زينب علي",
		Phone:   "0770 123 4567",
		Address: "شارع فلسطين، قرب ساحة بيروت",
		City:    "بغداد",
	}
}

func (f *shopFixture) order(t *testing.T, lines ...OrderLine) *models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), CreateOrderInput{Customer: testCustomer(), Items: lines})
	require.NoError(t, err)
	return order
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func uintPtr(v uint) *uint    { return &v }
