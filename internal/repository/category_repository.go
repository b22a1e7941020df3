package repository

import (
	"errors"
	"strings"

	"github.com/dorada-store/internal/models"

	"gorm.io/gorm"
)

// Name of the fallback category that receives orphaned products.
const (
	SystemCategoryName   = "Uncategorized"
	SystemCategoryNameAr = "غير مصنف"
)

// GormCategoryRepository is the database implementation.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates the repository.
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List returns categories ordered by Arabic name.
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name_ar ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID returns nil, nil when absent.
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// FindByName matches either name case-insensitively.
func (r *GormCategoryRepository) FindByName(name string) (*models.Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	var category models.Category
	err := r.db.Where("LOWER(name) = ? OR LOWER(name_ar) = ?", name, name).
		Order("id ASC").
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update writes names and icon of an existing category.
func (r *GormCategoryRepository) Update(category *models.Category) error {
	result := r.db.Model(&models.Category{}).Where("id = ?", category.ID).Updates(map[string]interface{}{
		"name":    category.Name,
		"name_ar": category.NameAr,
		"icon":    category.Icon,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes the category.
func (r *GormCategoryRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSystem returns the fallback category, creating it on first use.
func (r *GormCategoryRepository) GetSystem() (*models.Category, error) {
	var category models.Category
	err := r.db.Where("is_system = ?", true).Order("id ASC").First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category = models.Category{Name: SystemCategoryName, NameAr: SystemCategoryNameAr, IsSystem: true}
	if err := r.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
