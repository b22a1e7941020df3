//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dorada-store/internal/models"

	"gorm.io/gorm"
)

// setupPostgresIntegrationDB opens the database named by TEST_POSTGRES_DSN.
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := models.Open("postgres", dsn, false)
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.Product{},
		&models.Category{},
		&models.Setting{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresArabicSearchAndStock(t *testing.T) {
	store := NewGormStore(setupPostgresIntegrationDB(t))
	category := createTestCategory(t, store, "خواتم")
	product := createTestProduct(t, store, category.ID, "PG-1", 1)

	rows, total, err := store.Products().List(ProductListFilter{Search: "خاتم"})
	if err != nil {
		t.Fatalf("arabic search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("arabic search want 1 got total=%d len=%d", total, len(rows))
	}

	if _, err := store.Products().AdjustQuantity(product.ID, -1); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	reloaded, _ := store.Products().GetByID(product.ID)
	if reloaded.InStock {
		t.Fatalf("in_stock should follow quantity on postgres")
	}
}

func TestPostgresDashboardQueries(t *testing.T) {
	store := NewGormStore(setupPostgresIntegrationDB(t))
	createTestOrder(t, store, "DR-PG-1", "delivered", models.OrderItem{ProductID: 9, NameAr: "قلادة", Price: 40000, Quantity: 1})

	summary, err := store.Orders().Summary(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.Total != 1 || len(summary.LastDays) != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	top, err := store.Orders().TopProducts([]string{"delivered"}, 3)
	if err != nil || len(top) != 1 || top[0].Amount != 40000 {
		t.Fatalf("unexpected ranking %+v err=%v", top, err)
	}
}
