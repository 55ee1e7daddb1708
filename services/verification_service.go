package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusgate/admissions-api/model"
	"gorm.io/gorm"
)

// Credential kinds admins verify on a student profile
const (
	CredentialSSC = "ssc"
	CredentialHSC = "hsc"
)

var (
	// ErrUnknownCredential marks a credential kind other than ssc/hsc
	ErrUnknownCredential = errors.New("unknown credential kind")
	// ErrAlreadyVerified marks a verify call on an already-verified credential
	ErrAlreadyVerified = errors.New("credential already verified")
	// ErrCredentialNotPending marks a decision on a credential outside the
	// pending state; a rejected credential goes through allow-reapply first
	ErrCredentialNotPending = errors.New("credential is not pending review")
	// ErrRejectionReasonRequired marks a reject call with an empty reason
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
)

// VerificationService runs the admin-side credential verification workflow
// for students and universities
type VerificationService struct {
	db            *gorm.DB
	notifications *NotificationService
	audit         *AuditService
}

// NewVerificationService creates a new verification service
func NewVerificationService(db *gorm.DB, notifications *NotificationService, audit *AuditService) *VerificationService {
	return &VerificationService{db: db, notifications: notifications, audit: audit}
}

type credentialSnapshot struct {
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func snapshotCredential(profile *model.StudentProfile, kind string) credentialSnapshot {
	if kind == CredentialSSC {
		return credentialSnapshot{Status: profile.SSCVerificationStatus, RejectionReason: profile.SSCRejectionReason}
	}
	return credentialSnapshot{Status: profile.HSCVerificationStatus, RejectionReason: profile.HSCRejectionReason}
}

// VerifyCredential marks one credential verified. When this makes both
// credentials verified the owning account's is_verified flag is granted in
// the same transaction.
func (s *VerificationService) VerifyCredential(ctx context.Context, adminID, studentID uint, kind, ipAddress string) (*model.StudentProfile, error) {
	if kind != CredentialSSC && kind != CredentialHSC {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCredential, kind)
	}

	var profile model.StudentProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&profile, studentID).Error; err != nil {
			return err
		}

		oldValue := snapshotCredential(&profile, kind)
		if oldValue.Status == model.CredentialVerified {
			return ErrAlreadyVerified
		}
		if oldValue.Status != model.CredentialPending {
			return fmt.Errorf("%w: status is %s", ErrCredentialNotPending, oldValue.Status)
		}

		now := time.Now()
		updates := map[string]interface{}{}
		if kind == CredentialSSC {
			updates["ssc_verification_status"] = model.CredentialVerified
			updates["ssc_rejection_reason"] = nil
			updates["ssc_verified_by"] = adminID
			updates["ssc_verified_at"] = now
			profile.SSCVerificationStatus = model.CredentialVerified
			profile.SSCRejectionReason = nil
			profile.SSCVerifiedBy = &adminID
			profile.SSCVerifiedAt = &now
		} else {
			updates["hsc_verification_status"] = model.CredentialVerified
			updates["hsc_rejection_reason"] = nil
			updates["hsc_verified_by"] = adminID
			updates["hsc_verified_at"] = now
			profile.HSCVerificationStatus = model.CredentialVerified
			profile.HSCRejectionReason = nil
			profile.HSCVerifiedBy = &adminID
			profile.HSCVerifiedAt = &now
		}
		if err := tx.Model(&model.StudentProfile{}).Where("id = ?", profile.ID).Updates(updates).Error; err != nil {
			return err
		}

		bothVerified := profile.BothCredentialsVerified()
		if bothVerified && !profile.User.IsVerified {
			if err := tx.Model(&model.User{}).Where("id = ?", profile.UserID).Update("is_verified", true).Error; err != nil {
				return err
			}
			profile.User.IsVerified = true
		}

		message := fmt.Sprintf("Your %s record has been verified", credentialLabel(kind))
		if bothVerified {
			message = fmt.Sprintf("Your %s record has been verified. Your account is now fully verified.", credentialLabel(kind))
		}
		if err := s.notifications.CreateTx(tx, CreateNotificationRequest{
			UserID:      profile.UserID,
			Type:        model.NotificationTypeVerification,
			Title:       "Credential Verified",
			Message:     message,
			RelatedID:   &profile.ID,
			RelatedType: "student_profile",
		}); err != nil {
			return err
		}

		return s.audit.RecordTx(tx, AuditEntry{
			AdminID:     adminID,
			ActionType:  model.ActionVerifiedStudent,
			Description: fmt.Sprintf("Verified %s record for student %s", credentialLabel(kind), profile.RegistrationNumber),
			TableName:   profile.TableName(),
			RecordID:    profile.ID,
			OldValue:    oldValue,
			NewValue:    snapshotCredential(&profile, kind),
			IPAddress:   ipAddress,
		})
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// RejectCredential marks one credential rejected with a reason the student
// sees. The account flag is untouched; only AllowReapply revokes it, and
// since rejection is only legal from pending the flag cannot be set here
// anyway.
func (s *VerificationService) RejectCredential(ctx context.Context, adminID, studentID uint, kind, reason, ipAddress string) (*model.StudentProfile, error) {
	if kind != CredentialSSC && kind != CredentialHSC {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCredential, kind)
	}
	if reason == "" {
		return nil, ErrRejectionReasonRequired
	}

	var profile model.StudentProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&profile, studentID).Error; err != nil {
			return err
		}

		oldValue := snapshotCredential(&profile, kind)
		if oldValue.Status != model.CredentialPending {
			return fmt.Errorf("%w: status is %s", ErrCredentialNotPending, oldValue.Status)
		}

		updates := map[string]interface{}{}
		if kind == CredentialSSC {
			updates["ssc_verification_status"] = model.CredentialRejected
			updates["ssc_rejection_reason"] = reason
			updates["ssc_verified_by"] = adminID
			profile.SSCVerificationStatus = model.CredentialRejected
			profile.SSCRejectionReason = &reason
			profile.SSCVerifiedBy = &adminID
		} else {
			updates["hsc_verification_status"] = model.CredentialRejected
			updates["hsc_rejection_reason"] = reason
			updates["hsc_verified_by"] = adminID
			profile.HSCVerificationStatus = model.CredentialRejected
			profile.HSCRejectionReason = &reason
			profile.HSCVerifiedBy = &adminID
		}
		if err := tx.Model(&model.StudentProfile{}).Where("id = ?", profile.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := s.notifications.CreateTx(tx, CreateNotificationRequest{
			UserID:      profile.UserID,
			Type:        model.NotificationTypeVerification,
			Title:       "Credential Rejected",
			Message:     fmt.Sprintf("Your %s record has been rejected: %s", credentialLabel(kind), reason),
			RelatedID:   &profile.ID,
			RelatedType: "student_profile",
		}); err != nil {
			return err
		}

		return s.audit.RecordTx(tx, AuditEntry{
			AdminID:     adminID,
			ActionType:  model.ActionRejectedStudent,
			Description: fmt.Sprintf("Rejected %s record for student %s", credentialLabel(kind), profile.RegistrationNumber),
			TableName:   profile.TableName(),
			RecordID:    profile.ID,
			OldValue:    oldValue,
			NewValue:    snapshotCredential(&profile, kind),
			IPAddress:   ipAddress,
		})
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// AllowReapply resets both credentials to pending so the student can edit
// and resubmit after a rejection
func (s *VerificationService) AllowReapply(ctx context.Context, adminID, studentID uint, ipAddress string) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&profile, studentID).Error; err != nil {
			return err
		}

		oldValue := map[string]credentialSnapshot{
			"ssc": snapshotCredential(&profile, CredentialSSC),
			"hsc": snapshotCredential(&profile, CredentialHSC),
		}

		updates := map[string]interface{}{
			"ssc_verification_status": model.CredentialPending,
			"ssc_rejection_reason":    nil,
			"hsc_verification_status": model.CredentialPending,
			"hsc_rejection_reason":    nil,
		}
		if err := tx.Model(&model.StudentProfile{}).Where("id = ?", profile.ID).Updates(updates).Error; err != nil {
			return err
		}
		profile.SSCVerificationStatus = model.CredentialPending
		profile.SSCRejectionReason = nil
		profile.HSCVerificationStatus = model.CredentialPending
		profile.HSCRejectionReason = nil

		if profile.User.IsVerified {
			if err := tx.Model(&model.User{}).Where("id = ?", profile.UserID).Update("is_verified", false).Error; err != nil {
				return err
			}
			profile.User.IsVerified = false
		}

		if err := s.notifications.CreateTx(tx, CreateNotificationRequest{
			UserID:      profile.UserID,
			Type:        model.NotificationTypeVerification,
			Title:       "Reapplication Allowed",
			Message:     "You may update your academic records and resubmit for verification",
			RelatedID:   &profile.ID,
			RelatedType: "student_profile",
		}); err != nil {
			return err
		}

		return s.audit.RecordTx(tx, AuditEntry{
			AdminID:     adminID,
			ActionType:  model.ActionAllowedReapply,
			Description: fmt.Sprintf("Allowed reapply for student %s", profile.RegistrationNumber),
			TableName:   profile.TableName(),
			RecordID:    profile.ID,
			OldValue:    oldValue,
			IPAddress:   ipAddress,
		})
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// ApplyCredentialEdits copies edited credential values onto the profile
// and, where the underlying record actually changed, resets that
// credential's verification to pending. An edit that leaves the record
// byte-for-byte identical keeps its verification status. The account flag
// is left alone either way; only AllowReapply revokes it. Returns whether
// either credential was reset so the caller can word its response.
func ApplyCredentialEdits(profile *model.StudentProfile, newSSC, newHSC model.CredentialRecord) bool {
	reset := false

	if profile.SSCRecord() != newSSC {
		profile.SSCGPA = newSSC.GPA
		profile.SSCGroup = newSSC.Group
		profile.SSCBoard = newSSC.Board
		profile.SSCYear = newSSC.Year
		profile.SSCRollNumber = newSSC.RollNumber
		profile.SSCVerificationStatus = model.CredentialPending
		profile.SSCRejectionReason = nil
		profile.SSCVerifiedBy = nil
		profile.SSCVerifiedAt = nil
		reset = true
	}

	if profile.HSCRecord() != newHSC {
		profile.HSCGPA = newHSC.GPA
		profile.HSCGroup = newHSC.Group
		profile.HSCBoard = newHSC.Board
		profile.HSCYear = newHSC.Year
		profile.HSCRollNumber = newHSC.RollNumber
		profile.HSCVerificationStatus = model.CredentialPending
		profile.HSCRejectionReason = nil
		profile.HSCVerifiedBy = nil
		profile.HSCVerifiedAt = nil
		reset = true
	}

	profile.IsProfileComplete = profile.SSCRecord().Complete() && profile.HSCRecord().Complete()
	return reset
}

// VerifyUniversity marks a university account verified so it can publish
// programs
func (s *VerificationService) VerifyUniversity(ctx context.Context, adminID, universityID uint, ipAddress string) (*model.University, error) {
	var university model.University
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&university, universityID).Error; err != nil {
			return err
		}
		if university.IsVerified {
			return ErrAlreadyVerified
		}

		if err := tx.Model(&model.University{}).Where("id = ?", university.ID).Update("is_verified", true).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).Where("id = ?", university.UserID).Update("is_verified", true).Error; err != nil {
			return err
		}
		university.IsVerified = true

		if err := s.notifications.CreateTx(tx, CreateNotificationRequest{
			UserID:      university.UserID,
			Type:        model.NotificationTypeVerification,
			Title:       "University Verified",
			Message:     "Your university has been verified. You can now publish programs.",
			RelatedID:   &university.ID,
			RelatedType: "university",
		}); err != nil {
			return err
		}

		return s.audit.RecordTx(tx, AuditEntry{
			AdminID:     adminID,
			ActionType:  model.ActionVerifiedUniversity,
			Description: fmt.Sprintf("Verified university %s", university.Name),
			TableName:   university.TableName(),
			RecordID:    university.ID,
			IPAddress:   ipAddress,
		})
	})
	if err != nil {
		return nil, err
	}

	return &university, nil
}

// RejectUniversity refuses a university's verification request with a
// reason
func (s *VerificationService) RejectUniversity(ctx context.Context, adminID, universityID uint, reason, ipAddress string) (*model.University, error) {
	if reason == "" {
		return nil, ErrRejectionReasonRequired
	}

	var university model.University
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&university, universityID).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.University{}).Where("id = ?", university.ID).Update("is_verified", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).Where("id = ?", university.UserID).Update("is_verified", false).Error; err != nil {
			return err
		}
		university.IsVerified = false

		if err := s.notifications.CreateTx(tx, CreateNotificationRequest{
			UserID:      university.UserID,
			Type:        model.NotificationTypeVerification,
			Title:       "Verification Rejected",
			Message:     fmt.Sprintf("Your university verification has been rejected: %s", reason),
			RelatedID:   &university.ID,
			RelatedType: "university",
		}); err != nil {
			return err
		}

		return s.audit.RecordTx(tx, AuditEntry{
			AdminID:     adminID,
			ActionType:  model.ActionRejectedUniversity,
			Description: fmt.Sprintf("Rejected university %s: %s", university.Name, reason),
			TableName:   university.TableName(),
			RecordID:    university.ID,
			IPAddress:   ipAddress,
		})
	})
	if err != nil {
		return nil, err
	}

	return &university, nil
}

func credentialLabel(kind string) string {
	if kind == CredentialSSC {
		return "SSC"
	}
	return "HSC"
}
