package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a back-office account.
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"` // bumped to revoke every session
	IsSuper      bool           `gorm:"not null;default:false;index" json:"is_super"`
	SetupSlot    *int           `gorm:"uniqueIndex" json:"-"` // 1 on the account created by first-run setup, NULL elsewhere
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name
func (Admin) TableName() string {
	return "admins"
}
