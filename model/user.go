package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent    = "student"
	RoleUniversity = "university"
	RoleAdmin      = "admin"
)

// User represents a registered account in the portal
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Phone        string         `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Role         string         `gorm:"type:varchar(20);default:'student'" json:"role"` // student, university, admin
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Password reset
	ResetToken        *string    `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpires *time.Time `json:"-"`

	// Relationships
	StudentProfile *StudentProfile     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student_profile,omitempty"`
	University     *University         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"university,omitempty"`
	Notifications  []Notification      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AdminLogs      []AdminLog          `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
