package model

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses. Accepted, rejected and withdrawn are terminal.
const (
	ApplicationPending     = "pending"
	ApplicationSubmitted   = "submitted"
	ApplicationShortlisted = "shortlisted"
	ApplicationAccepted    = "accepted"
	ApplicationRejected    = "rejected"
	ApplicationWithdrawn   = "withdrawn"
)

// Application links a student profile to a program. University is denormalised
// for direct filtering on the review side.
type Application struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	StudentID    uint           `gorm:"not null;index:idx_student_program,unique" json:"student_id"`
	ProgramID    uint           `gorm:"not null;index:idx_student_program,unique" json:"program_id"`
	UniversityID uint           `gorm:"not null;index" json:"university_id"`
	Status       string         `gorm:"type:varchar(20);default:'pending';index" json:"application_status"`
	IsEligible   bool           `gorm:"default:false" json:"is_eligible"` // eligibility snapshot at creation
	SubmittedBy  uint           `json:"submitted_by"`                     // user id of the applying student
	SubmittedAt  *time.Time     `json:"submitted_at,omitempty"`           // stamped on payment completion

	// Relationships
	Student    StudentProfile      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Program    Program             `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"program,omitempty"`
	University University          `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
	Payment    *Payment            `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
	Updates    []ApplicationUpdate `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"updates,omitempty"`
}

// ApplicationUpdate is an immutable history record of one status transition
type ApplicationUpdate struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	OldStatus     string    `gorm:"type:varchar(20);not null" json:"old_status"`
	NewStatus     string    `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy     uint      `gorm:"not null" json:"changed_by"`
	ChangeReason  string    `gorm:"type:text" json:"change_reason,omitempty"`
}

// TableName specifies the table name for ApplicationUpdate
func (ApplicationUpdate) TableName() string {
	return "application_updates"
}
