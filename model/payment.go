package model

import (
	"time"

	"gorm.io/gorm"
)

// Payment statuses
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment is the single fee record for an application. Amount is copied from
// the program fee at application creation and never re-read.
type Payment struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	ApplicationID uint           `gorm:"uniqueIndex;not null" json:"application_id"`
	Amount        float64        `gorm:"not null" json:"amount"`
	Currency      string         `gorm:"type:varchar(10);default:'BDT'" json:"currency"`
	Status        string         `gorm:"type:varchar(20);default:'pending';index" json:"payment_status"`
	TransactionID *string        `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	PaymentMethod string         `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}
