package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/dorada-store/internal/models"

	"gorm.io/gorm"
)

// GormProductRepository is the database implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates the repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List returns products, newest first.
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		cond, n := buildLikeCondition(r.db, "name_ar", "name", "sku")
		query = query.Where(cond, repeatLikeArgs("%"+search+"%", n)...)
	}
	switch filter.StockStatus {
	case StockStatusInStock:
		query = query.Where("quantity > 0")
	case StockStatusOutOfStock:
		query = query.Where("quantity <= 0")
	case StockStatusLow:
		query = query.Where("quantity > 0 AND quantity <= ?", filter.LowStockThreshold)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	query = applyPagination(query.Preload("Category"), filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID returns nil, nil when absent.
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySKU looks a product up by its (uppercase) SKU.
func (r *GormProductRepository) GetBySKU(sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").Where("sku = ?", sku).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs loads products in id order.
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Preload("Category").Where("id IN ?", ids).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts the product; a taken SKU yields ErrDuplicate.
func (r *GormProductRepository) Create(product *models.Product) error {
	product.InStock = product.Quantity > 0
	err := r.db.Omit("Category").Create(product).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// Patch writes the present non-quantity fields.
func (r *GormProductRepository) Patch(id uint, patch ProductPatch) error {
	columns := patch.columns()
	if len(columns) == 0 {
		return r.ensureExists(id)
	}
	columns["updated_at"] = time.Now()
	result := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(columns)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetQuantity is a compare-and-swap on quantity that keeps in_stock in sync.
func (r *GormProductRepository) SetQuantity(id uint, expected, quantity int) error {
	if quantity < 0 {
		return ErrInsufficientStock
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND quantity = ?", id, expected).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"in_stock":   quantity > 0,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.ensureExists(id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// AdjustQuantity runs one conditional UPDATE. Every SET expression reads the
// pre-update row, so in_stock is derived from the same new quantity.
func (r *GormProductRepository) AdjustQuantity(id uint, delta int) (int, error) {
	if delta != 0 {
		result := r.db.Model(&models.Product{}).
			Where("id = ? AND quantity + ? >= 0", id, delta).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity + ?", delta),
				"in_stock":   gorm.Expr("quantity + ? > 0", delta),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected == 0 {
			if err := r.ensureExists(id); err != nil {
				return 0, err
			}
			return 0, ErrInsufficientStock
		}
	}

	var quantity int
	row := r.db.Model(&models.Product{}).Select("quantity").Where("id = ?", id).Limit(1)
	if err := row.Scan(&quantity).Error; err != nil {
		return 0, err
	}
	return quantity, nil
}

// Delete removes the product row; order snapshots keep their copy.
func (r *GormProductRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReassignCategory moves every product of one category to another.
func (r *GormProductRepository) ReassignCategory(fromID, toID uint) (int64, error) {
	result := r.db.Model(&models.Product{}).
		Where("category_id = ?", fromID).
		Updates(map[string]interface{}{"category_id": toID, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *GormProductRepository) ensureExists(id uint) error {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// columns maps the present fields onto database columns.
func (p ProductPatch) columns() map[string]interface{} {
	columns := map[string]interface{}{}
	if p.CategoryID != nil {
		columns["category_id"] = *p.CategoryID
	}
	if p.Name != nil {
		columns["name"] = *p.Name
	}
	if p.NameAr != nil {
		columns["name_ar"] = *p.NameAr
	}
	if p.Description != nil {
		columns["description"] = *p.Description
	}
	if p.DescriptionAr != nil {
		columns["description_ar"] = *p.DescriptionAr
	}
	if p.Price != nil {
		columns["price"] = *p.Price
	}
	if p.ClearOriginalPrice {
		columns["original_price"] = nil
	} else if p.OriginalPrice != nil {
		columns["original_price"] = *p.OriginalPrice
	}
	if p.Images != nil {
		columns["images"] = models.StringArray(*p.Images)
	}
	if p.Featured != nil {
		columns["featured"] = *p.Featured
	}
	if p.SKU != nil {
		columns["sku"] = *p.SKU
	}
	if p.Features != nil {
		columns["features"] = *p.Features
	}
	if p.Weight != nil {
		columns["weight"] = *p.Weight
	}
	if p.Material != nil {
		columns["material"] = *p.Material
	}
	if p.Size != nil {
		columns["size"] = *p.Size
	}
	if p.Color != nil {
		columns["color"] = *p.Color
	}
	if p.Warranty != nil {
		columns["warranty"] = *p.Warranty
	}
	return columns
}

// apply mirrors columns for the in-memory backend.
func (p ProductPatch) apply(product *models.Product) {
	if p.CategoryID != nil {
		product.CategoryID = *p.CategoryID
	}
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.NameAr != nil {
		product.NameAr = *p.NameAr
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.DescriptionAr != nil {
		product.DescriptionAr = *p.DescriptionAr
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.ClearOriginalPrice {
		product.OriginalPrice = nil
	} else if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		product.OriginalPrice = &v
	}
	if p.Images != nil {
		product.Images = append(models.StringArray{}, (*p.Images)...)
	}
	if p.Featured != nil {
		product.Featured = *p.Featured
	}
	if p.SKU != nil {
		product.SKU = *p.SKU
	}
	if p.Features != nil {
		product.Features = append(models.ProductFeatures{}, (*p.Features)...)
	}
	if p.Weight != nil {
		product.Weight = *p.Weight
	}
	if p.Material != nil {
		product.Material = *p.Material
	}
	if p.Size != nil {
		product.Size = *p.Size
	}
	if p.Color != nil {
		product.Color = *p.Color
	}
	if p.Warranty != nil {
		product.Warranty = *p.Warranty
	}
}
