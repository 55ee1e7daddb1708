package model

import (
	"time"

	"gorm.io/gorm"
)

// Credential verification statuses (SSC and HSC tracked independently)
const (
	CredentialPending  = "pending"
	CredentialVerified = "verified"
	CredentialRejected = "rejected"
)

// StudentProfile holds a student's academic record. SSC and HSC are two
// independently verifiable credential records.
type StudentProfile struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	UserID             uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	RegistrationNumber string         `gorm:"type:varchar(20);uniqueIndex" json:"registration_number"`
	DateOfBirth        *time.Time     `json:"date_of_birth,omitempty"`
	Address            string         `gorm:"type:varchar(255)" json:"address,omitempty"`
	City               string         `gorm:"type:varchar(100)" json:"city,omitempty"`

	// SSC credential record
	SSCGPA                float64 `gorm:"type:decimal(3,2)" json:"ssc_gpa"`
	SSCGroup              string  `gorm:"type:varchar(50)" json:"ssc_group"`
	SSCBoard              string  `gorm:"type:varchar(100)" json:"ssc_board"`
	SSCYear               int     `json:"ssc_year"`
	SSCRollNumber         string  `gorm:"type:varchar(30)" json:"ssc_roll_number"`
	SSCVerificationStatus string  `gorm:"type:varchar(20);default:'pending'" json:"ssc_verification_status"`
	SSCRejectionReason    *string `gorm:"type:text" json:"ssc_rejection_reason,omitempty"`
	SSCVerifiedBy         *uint   `json:"ssc_verified_by,omitempty"`
	SSCVerifiedAt         *time.Time `json:"ssc_verified_at,omitempty"`

	// HSC credential record
	HSCGPA                float64 `gorm:"type:decimal(3,2)" json:"hsc_gpa"`
	HSCGroup              string  `gorm:"type:varchar(50)" json:"hsc_group"`
	HSCBoard              string  `gorm:"type:varchar(100)" json:"hsc_board"`
	HSCYear               int     `json:"hsc_year"`
	HSCRollNumber         string  `gorm:"type:varchar(30)" json:"hsc_roll_number"`
	HSCVerificationStatus string  `gorm:"type:varchar(20);default:'pending'" json:"hsc_verification_status"`
	HSCRejectionReason    *string `gorm:"type:text" json:"hsc_rejection_reason,omitempty"`
	HSCVerifiedBy         *uint   `json:"hsc_verified_by,omitempty"`
	HSCVerifiedAt         *time.Time `json:"hsc_verified_at,omitempty"`

	IsProfileComplete bool `gorm:"default:false" json:"is_profile_complete"`

	// Relationships
	User         User                 `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Applications []Application        `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Documents    []CredentialDocument `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

// TableName specifies the table name for StudentProfile
func (StudentProfile) TableName() string {
	return "student_profiles"
}

// CredentialRecord is one academic result entry (SSC or HSC) as a comparable
// value. Used to detect whether an edit actually changed the underlying data.
type CredentialRecord struct {
	GPA        float64
	Group      string
	Board      string
	Year       int
	RollNumber string
}

// SSCRecord returns the SSC credential values
func (p *StudentProfile) SSCRecord() CredentialRecord {
	return CredentialRecord{
		GPA:        p.SSCGPA,
		Group:      p.SSCGroup,
		Board:      p.SSCBoard,
		Year:       p.SSCYear,
		RollNumber: p.SSCRollNumber,
	}
}

// HSCRecord returns the HSC credential values
func (p *StudentProfile) HSCRecord() CredentialRecord {
	return CredentialRecord{
		GPA:        p.HSCGPA,
		Group:      p.HSCGroup,
		Board:      p.HSCBoard,
		Year:       p.HSCYear,
		RollNumber: p.HSCRollNumber,
	}
}

// Complete reports whether both credential records are fully populated
func (r CredentialRecord) Complete() bool {
	return r.GPA > 0 && r.Group != "" && r.Board != "" && r.Year != 0 && r.RollNumber != ""
}

// BothCredentialsVerified reports whether SSC and HSC are both verified.
// The owning User's is_verified flag is true iff this holds at grant time.
func (p *StudentProfile) BothCredentialsVerified() bool {
	return p.SSCVerificationStatus == CredentialVerified && p.HSCVerificationStatus == CredentialVerified
}
