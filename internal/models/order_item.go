package models

import "time"

// OrderItem is the immutable product snapshot of one order line.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	NameAr    string    `gorm:"type:varchar(255);not null" json:"name_ar"`
	Price     int64     `gorm:"not null" json:"price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Image     string    `gorm:"type:varchar(1000)" json:"image"`
	SKU       string    `gorm:"type:varchar(64)" json:"sku"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName table name
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
