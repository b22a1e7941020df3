package repository

import (
	"context"
	"time"

	"github.com/dorada-store/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the catalog's product table.
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetBySKU(sku string) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Patch(id uint, patch ProductPatch) error
	// SetQuantity overwrites stock only if it still equals expected.
	SetQuantity(id uint, expected, quantity int) error
	// AdjustQuantity adds delta atomically and refuses to go below zero.
	AdjustQuantity(id uint, delta int) (int, error)
	Delete(id uint) error
	CountByCategory(categoryID uint) (int64, error)
	ReassignCategory(fromID, toID uint) (int64, error)
	StockSummary(lowThreshold int) (StockSummary, error)
}

// CategoryRepository is the catalog's category table.
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetByID(id uint) (*models.Category, error)
	FindByName(name string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uint) error
	GetSystem() (*models.Category, error)
}

// OrderRepository stores orders and their item snapshots.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	// UpdateStatus moves the order only if it is still in fromStatus.
	UpdateStatus(id uint, fromStatus, toStatus, label string, at time.Time) error
	SetTelegramMessageID(id uint, messageID int64) error
	Summary(since time.Time) (OrderSummary, error)
	TopProducts(statuses []string, limit int) ([]ProductRanking, error)
}

// SettingRepository stores admin-managed settings documents.
type SettingRepository interface {
	GetByKey(key string) (*models.Setting, error)
	Upsert(key string, value models.JSON) (*models.Setting, error)
}

// Store groups the repositories that share one transactional backend.
type Store interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Orders() OrderRepository
	Settings() SettingRepository
	// WithinTx runs fn against a transactional view; any error rolls back
	// every write fn made.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// GormStore backs Store with a relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a database-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Products() ProductRepository {
	return NewProductRepository(s.db)
}

func (s *GormStore) Categories() CategoryRepository {
	return NewCategoryRepository(s.db)
}

func (s *GormStore) Orders() OrderRepository {
	return NewOrderRepository(s.db)
}

func (s *GormStore) Settings() SettingRepository {
	return NewSettingRepository(s.db)
}

// WithinTx opens a database transaction (a savepoint when already inside one).
func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if fn == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
