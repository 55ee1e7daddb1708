package model

import (
	"time"

	"gorm.io/gorm"
)

// Program is a university-authored admission listing with its eligibility
// thresholds. An empty or "any" GroupRequired imposes no group constraint.
type Program struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
	UniversityID         uint           `gorm:"not null;index" json:"university_id"`
	Name                 string         `gorm:"not null" json:"name"`
	Description          string         `gorm:"type:text" json:"description,omitempty"`
	DurationYears        int            `gorm:"default:4" json:"duration_years"`
	MinSSCGPA            float64        `gorm:"type:decimal(3,2);default:0" json:"min_ssc_gpa"`
	MinHSCGPA            float64        `gorm:"type:decimal(3,2);default:0" json:"min_hsc_gpa"`
	GroupRequired        string         `gorm:"type:varchar(50)" json:"group_required,omitempty"`
	ApplicationFee       float64        `gorm:"not null" json:"application_fee"`
	IntakeCapacity       int            `json:"intake_capacity"`
	ApplicationStartDate time.Time      `gorm:"not null" json:"application_start_date"`
	ApplicationDeadline  time.Time      `gorm:"not null;index" json:"application_deadline"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	University   University    `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"university,omitempty"`
	Applications []Application `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"-"`
}
