package models

import (
	"time"
)

// Order is a cash-on-delivery order. Items are a snapshot taken at checkout
// and never follow later product edits.
type Order struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	OrderNo           string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_no"`
	CustomerName      string    `gorm:"type:varchar(500);not null" json:"customer_name"`
	CustomerPhone     string    `gorm:"type:varchar(32);not null;index" json:"customer_phone"`
	CustomerAddress   string    `gorm:"type:varchar(500);not null" json:"customer_address"`
	CustomerCity      string    `gorm:"type:varchar(500);not null" json:"customer_city"`
	Notes             string    `gorm:"type:varchar(500)" json:"notes,omitempty"`
	Subtotal          int64     `gorm:"not null" json:"subtotal"`
	ShippingFee       int64     `gorm:"not null" json:"shipping_fee"`
	Total             int64     `gorm:"not null" json:"total"` // subtotal + shipping
	Currency          string    `gorm:"type:varchar(8);not null;default:'IQD'" json:"currency"`
	Status            string    `gorm:"type:varchar(20);not null;index" json:"status"`
	StatusAr          string    `gorm:"type:varchar(64);not null" json:"status_ar"`
	TelegramMessageID *int64    `json:"telegram_message_id,omitempty"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// TableName table name
func (Order) TableName() string {
	return "orders"
}
