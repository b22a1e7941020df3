package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ProductFeature is one label/value line shown on the product page.
type ProductFeature struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon,omitempty"`
}

// ProductFeatures is stored as a JSON array.
type ProductFeatures []ProductFeature

// Value implements driver.Valuer
func (f ProductFeatures) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (f *ProductFeatures) Scan(value interface{}) error {
	raw, ok := rawJSON(value)
	if !ok || len(raw) == 0 {
		*f = ProductFeatures{}
		return nil
	}
	return json.Unmarshal(raw, f)
}

// Product is a catalog item. Quantity is the authoritative stock count and
// InStock always mirrors Quantity > 0.
type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	CategoryID    uint            `gorm:"not null;index" json:"category_id"`
	Name          string          `gorm:"type:varchar(255)" json:"name"`
	NameAr        string          `gorm:"type:varchar(255);not null" json:"name_ar"`
	Description   string          `gorm:"type:text" json:"description"`
	DescriptionAr string          `gorm:"type:text" json:"description_ar"`
	Price         int64           `gorm:"not null" json:"price"`                   // whole IQD
	OriginalPrice *int64          `json:"original_price,omitempty"`               // pre-discount price
	Images        StringArray     `gorm:"type:text" json:"images"`                 // first is the cover
	Quantity      int             `gorm:"not null;default:0" json:"quantity"`      // never negative
	InStock       bool            `gorm:"not null;default:false;index" json:"in_stock"`
	Featured      bool            `gorm:"not null;default:false;index" json:"featured"`
	SKU           string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Features      ProductFeatures `gorm:"type:text" json:"features"`
	Weight        string          `gorm:"type:varchar(64)" json:"weight,omitempty"`
	Material      string          `gorm:"type:varchar(120)" json:"material,omitempty"`
	Size          string          `gorm:"type:varchar(64)" json:"size,omitempty"`
	Color         string          `gorm:"type:varchar(64)" json:"color,omitempty"`
	Warranty      string          `gorm:"type:varchar(120)" json:"warranty,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Category       *Category `gorm:"foreignKey:CategoryID" json:"-"`
	CategoryName   string    `gorm:"-" json:"category"`
	CategoryNameAr string    `gorm:"-" json:"category_ar"`
}

// TableName table name
func (Product) TableName() string {
	return "products"
}

// AfterFind fills the denormalized category labels from the preloaded category.
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.SyncCategoryLabels()
	return nil
}

// SyncCategoryLabels copies the category names onto the product.
func (p *Product) SyncCategoryLabels() {
	if p.Category == nil {
		return
	}
	p.CategoryName = p.Category.Name
	p.CategoryNameAr = p.Category.NameAr
}

// CoverImage returns the first image or "".
func (p *Product) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
