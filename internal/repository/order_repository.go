package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/dorada-store/internal/models"

	"gorm.io/gorm"
)

// GormOrderRepository is the database implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create inserts the order and its item snapshots.
func (r *GormOrderRepository) Create(order *models.Order) error {
	items := order.Items
	order.Items = nil
	if err := r.db.Create(order).Error; err != nil {
		order.Items = items
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID returns nil, nil when absent.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items", orderItemsOrder).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo returns nil, nil when absent.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items", orderItemsOrder).
		Where("order_no = ?", strings.ToUpper(strings.TrimSpace(orderNo))).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List returns orders, newest first.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		cond, n := buildLikeCondition(r.db, "order_no", "customer_name", "customer_phone")
		query = query.Where(cond, repeatLikeArgs("%"+search+"%", n)...)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = applyPagination(query.Preload("Items", orderItemsOrder), filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus is a compare-and-swap on the current status.
func (r *GormOrderRepository) UpdateStatus(id uint, fromStatus, toStatus, label string, at time.Time) error {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"status_ar":  label,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

// SetTelegramMessageID records the chat message that announced the order.
func (r *GormOrderRepository) SetTelegramMessageID(id uint, messageID int64) error {
	result := r.db.Model(&models.Order{}).Where("id = ?", id).UpdateColumn("telegram_message_id", messageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func orderItemsOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
