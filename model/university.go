package model

import (
	"time"

	"gorm.io/gorm"
)

// University types
const (
	UniversityTypePublic  = "public"
	UniversityTypePrivate = "private"
)

// University is the organisation record behind a user with the university
// role. Its is_verified flag is set by admin action and is separate from the
// account-level flag on User, though admin verification sets both.
type University struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	UserID        uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Name          string         `gorm:"not null" json:"name"`
	Location      string         `gorm:"type:varchar(255)" json:"location,omitempty"`
	Type          string         `gorm:"type:varchar(20);default:'private'" json:"type"` // public, private
	Phone         string         `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address       string         `gorm:"type:varchar(255)" json:"address,omitempty"`
	WebsiteURL    string         `gorm:"type:varchar(255)" json:"website_url,omitempty"`
	ContactPerson string         `gorm:"type:varchar(100)" json:"contact_person,omitempty"`
	IsVerified    bool           `gorm:"default:false" json:"is_verified"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Programs     []Program     `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"programs,omitempty"`
	Applications []Application `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for University
func (University) TableName() string {
	return "universities"
}
