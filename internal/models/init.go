package models

import (
	"errors"
	"strings"

	"github.com/dorada-store/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitDefaultAdmin creates the super admin on an empty admins table. With no
// password configured it does nothing and the setup flow is expected to run.
func InitDefaultAdmin(username, password string) error {
	var count int64
	if err := DB.Model(&Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = "admin"
	}
	if strings.TrimSpace(password) == "" {
		logger.Warnw("default_admin_skipped", "reason", "no_password_configured")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	slot := 1
	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsSuper:      true,
		SetupSlot:    &slot,
	}
	if err := DB.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// another instance or a setup request got there first
			return nil
		}
		return err
	}
	logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	return nil
}
