package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType represents the category of a notification
type NotificationType string

const (
	NotificationTypeGeneral      NotificationType = "general"
	NotificationTypeVerification NotificationType = "verification"
	NotificationTypeStatusUpdate NotificationType = "status_update"
	NotificationTypePayment      NotificationType = "payment"
)

// Notification is a message addressed to one user
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	UserID      uint             `gorm:"index;not null" json:"user_id"`
	Type        NotificationType `gorm:"type:varchar(30);not null;default:'general'" json:"type"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Message     string           `gorm:"type:text" json:"message"`
	IsRead      bool             `gorm:"default:false" json:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	RelatedID   *uint            `gorm:"index" json:"related_id,omitempty"`
	RelatedType string           `gorm:"type:varchar(30)" json:"related_type,omitempty"` // application, payment, program
	Metadata    datatypes.JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
