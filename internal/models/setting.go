package models

import "time"

// Setting is an admin-managed key/value document.
type Setting struct {
	Key       string    `gorm:"primarykey;type:varchar(100)" json:"key"`
	ValueJSON JSON      `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName table name
func (Setting) TableName() string {
	return "settings"
}
