package service

import (
	"errors"
	"fmt"

	"github.com/dorada-store/internal/localstore"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("category still has products")
	ErrCategorySystem      = errors.New("system category cannot be changed")
	ErrSKUExists           = errors.New("sku already exists")
	ErrStockConflict       = errors.New("stock changed concurrently")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrOutOfStock          = errors.New("product out of stock")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrTooManyItems        = errors.New("too many cart lines")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrOrderStatusConflict = errors.New("order status changed concurrently")
	ErrWishlistDuplicate   = errors.New("product already in wishlist")
	ErrInvalidDevice       = localstore.ErrInvalidDevice
	ErrStorage             = errors.New("storage unavailable")
	ErrNotify              = errors.New("notification failed")

	ErrSetupDisabled      = errors.New("setup disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessRequired     = errors.New("admin access session required")
	ErrAccessKeyInvalid   = errors.New("admin access key invalid")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidPassword    = errors.New("current password mismatch")
	ErrWeakPassword       = errors.New("password too weak")
	ErrUsernameExists     = errors.New("username exists")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrRoleInvalid        = errors.New("role invalid")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")

	ErrUploadType     = errors.New("upload type not allowed")
	ErrUploadTooLarge = errors.New("upload too large")
)

// ValidationError names the offending field and the message key shown to the
// customer or admin.
type ValidationError struct {
	Field string
	Key   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, key string) error {
	return &ValidationError{Field: field, Key: key}
}

// InsufficientStockError reports the first product that cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// NotifyError wraps a failed delivery to an external channel.
type NotifyError struct {
	Channel string
	Op      string
	Err     error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Channel, e.Op, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

func (e *NotifyError) Is(target error) bool {
	return target == ErrNotify
}

// storageError keeps the backend cause while matching ErrStorage.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
