package model

import (
	"time"

	"gorm.io/datatypes"
)

// Admin action kinds
const (
	ActionVerifiedStudent    = "verified_student"
	ActionRejectedStudent    = "rejected_student"
	ActionAllowedReapply     = "allowed_reapply"
	ActionVerifiedUniversity = "verified_university"
	ActionRejectedUniversity = "rejected_university"
	ActionDeactivatedUser    = "deactivated_user"
	ActionResetPassword      = "reset_password"
)

// AdminLog is an immutable audit record of an admin action
type AdminLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	AdminID     uint           `gorm:"not null;index" json:"admin_id"`
	ActionType  string         `gorm:"type:varchar(50);not null;index" json:"action_type"`
	Description string         `gorm:"type:text" json:"description"`
	TableName_  string         `gorm:"column:table_name;type:varchar(50)" json:"table_name"`
	RecordID    uint           `json:"record_id"`
	OldValue    datatypes.JSON `gorm:"type:jsonb" json:"old_value,omitempty"`
	NewValue    datatypes.JSON `gorm:"type:jsonb" json:"new_value,omitempty"`
	IPAddress   string         `gorm:"type:varchar(45)" json:"ip_address,omitempty"`

	// Relationships
	Admin User `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"admin,omitempty"`
}

// TableName specifies the table name for AdminLog
func (AdminLog) TableName() string {
	return "admin_logs"
}
