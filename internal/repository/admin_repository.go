package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/dorada-store/internal/models"

	"gorm.io/gorm"
)

// AdminRepository stores back-office accounts.
type AdminRepository interface {
	GetByUsername(username string) (*models.Admin, error)
	GetByID(id uint) (*models.Admin, error)
	List() ([]models.Admin, error)
	Count() (int64, error)
	Create(admin *models.Admin) error
	// CreateFirst inserts the setup account only while no account exists.
	CreateFirst(admin *models.Admin) error
	TouchLogin(id uint, at time.Time) error
	// SetPassword stores a new hash and revokes every outstanding session.
	SetPassword(id uint, hash string) (uint64, error)
	// BumpTokenVersion revokes every outstanding session.
	BumpTokenVersion(id uint) (uint64, error)
}

// GormAdminRepository is the database implementation.
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates the repository.
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByUsername returns nil, nil when absent.
func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("username = ?", strings.TrimSpace(username)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByID returns nil, nil when absent.
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *GormAdminRepository) List() ([]models.Admin, error) {
	admins := make([]models.Admin, 0)
	err := r.db.
		Select("id", "username", "is_super", "last_login_at", "created_at").
		Order("id ASC").
		Find(&admins).Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *GormAdminRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the account; a taken username yields ErrDuplicate.
func (r *GormAdminRepository) Create(admin *models.Admin) error {
	err := r.db.Create(admin).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

const firstAdminSlot = 1

// CreateFirst counts and inserts in one transaction. The setup slot is unique,
// so a concurrent setup that also saw zero accounts fails on insert. Both
// cases yield ErrConflict.
func (r *GormAdminRepository) CreateFirst(admin *models.Admin) error {
	slot := firstAdminSlot
	admin.SetupSlot = &slot
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Admin{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		err := tx.Create(admin).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	})
}

func (r *GormAdminRepository) TouchLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}

func (r *GormAdminRepository) SetPassword(id uint, hash string) (uint64, error) {
	return r.bump(id, map[string]interface{}{"password_hash": hash})
}

func (r *GormAdminRepository) BumpTokenVersion(id uint) (uint64, error) {
	return r.bump(id, map[string]interface{}{})
}

func (r *GormAdminRepository) bump(id uint, columns map[string]interface{}) (uint64, error) {
	var version uint64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		columns["token_version"] = gorm.Expr("token_version + 1")
		result := tx.Model(&models.Admin{}).Where("id = ?", id).UpdateColumns(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Admin{}).Select("token_version").Where("id = ?", id).Scan(&version).Error
	})
	return version, err
}
