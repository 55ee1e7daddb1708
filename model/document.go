package model

import (
	"time"

	"gorm.io/gorm"
)

// Credential document kinds
const (
	DocumentSSCCertificate = "ssc_certificate"
	DocumentHSCCertificate = "hsc_certificate"
)

// CredentialDocument is an uploaded certificate scan backing a student's
// SSC or HSC credential record, stored in the object store and reviewed by
// admins during verification.
type CredentialDocument struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	StudentID  uint           `gorm:"not null;index:idx_student_doc_kind,unique" json:"student_id"`
	Kind       string         `gorm:"type:varchar(30);not null;index:idx_student_doc_kind,unique" json:"kind"` // ssc_certificate, hsc_certificate
	FileName   string         `gorm:"type:varchar(255);not null" json:"file_name"`
	StorageKey string         `gorm:"type:varchar(512);not null" json:"-"`
	SizeBytes  int64          `json:"size_bytes"`
	PageCount  int            `json:"page_count"`

	// Relationships
	Student StudentProfile `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for CredentialDocument
func (CredentialDocument) TableName() string {
	return "credential_documents"
}
