package repository

import (
	"errors"
	"time"

	"github.com/dorada-store/internal/models"
)

var (
	// ErrNotFound the addressed row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock a conditional stock update matched no row
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict a compare-and-swap lost against a concurrent writer
	ErrConflict = errors.New("concurrent modification")
	// ErrDuplicate a unique key already exists
	ErrDuplicate = errors.New("duplicate key")
)

// Stock filter values for ProductListFilter.StockStatus
const (
	StockStatusInStock    = "in_stock"
	StockStatusOutOfStock = "out_of_stock"
	StockStatusLow        = "low"
)

// ProductListFilter filters catalog listings.
type ProductListFilter struct {
	Page              int
	PageSize          int
	CategoryID        uint
	Featured          *bool
	Search            string // name_ar, name, sku
	StockStatus       string
	LowStockThreshold int
}

// ProductPatch carries the non-quantity fields of a partial product update.
// Nil means untouched.
type ProductPatch struct {
	CategoryID         *uint
	Name               *string
	NameAr             *string
	Description        *string
	DescriptionAr      *string
	Price              *int64
	OriginalPrice      *int64
	ClearOriginalPrice bool // drops the discount display price
	Images             *[]string
	Featured           *bool
	SKU                *string
	Features           *models.ProductFeatures
	Weight             *string
	Material           *string
	Size               *string
	Color              *string
	Warranty           *string
}

// OrderListFilter filters admin order listings.
type OrderListFilter struct {
	Page        int
	PageSize    int
	Status      string
	Search      string // order_no, customer name, phone
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StockSummary aggregates catalog stock levels.
type StockSummary struct {
	Products   int64
	OutOfStock int64
	LowStock   int64
	Units      int64
}

// OrderSummary aggregates orders per status.
type OrderSummary struct {
	Total    int64
	Counts   map[string]int64
	Amounts  map[string]int64
	LastDays []DayOrderCount
}

// DayOrderCount is one point of the daily order trend.
type DayOrderCount struct {
	Day    string
	Orders int64
	Amount int64
}

// ProductRanking is a best-seller row over stock-holding orders.
type ProductRanking struct {
	ProductID uint
	NameAr    string
	Quantity  int64
	Amount    int64
}

// AuthzAuditLogListFilter filters the role assignment audit trail.
type AuthzAuditLogListFilter struct {
	Page          int
	PageSize      int
	TargetAdminID uint
}
