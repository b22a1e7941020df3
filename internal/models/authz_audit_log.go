package models

import "time"

// AuthzAuditLog records role assignments made through the admin API.
type AuthzAuditLog struct {
	ID               uint        `gorm:"primarykey" json:"id"`
	OperatorAdminID  uint        `gorm:"index;not null" json:"operator_admin_id"`
	OperatorUsername string      `gorm:"type:varchar(100);not null;default:''" json:"operator_username"`
	TargetAdminID    uint        `gorm:"index;not null" json:"target_admin_id"`
	TargetUsername   string      `gorm:"type:varchar(100);not null;default:''" json:"target_username"`
	Action           string      `gorm:"type:varchar(64);index;not null" json:"action"`
	Roles            StringArray `gorm:"type:text" json:"roles"`
	RequestID        string      `gorm:"type:varchar(64);not null;default:''" json:"request_id"`
	CreatedAt        time.Time   `gorm:"index" json:"created_at"`
}

// TableName table name
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
