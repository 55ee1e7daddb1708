package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusgate/admissions-api/model"
	"gorm.io/gorm"
)

var (
	// ErrNotEligible carries the evaluator's reasons alongside the refusal
	ErrNotEligible = errors.New("not eligible to apply")
	// ErrIllegalTransition marks a status change the state machine forbids
	ErrIllegalTransition = errors.New("illegal application status transition")
	// ErrDuplicateApplication marks a second application to the same program
	ErrDuplicateApplication = errors.New("application already exists for this program")
)

// legalTransitions is the application lifecycle. pending moves to submitted
// only through payment completion; accepted, rejected and withdrawn are
// terminal.
var legalTransitions = map[string][]string{
	model.ApplicationPending:     {model.ApplicationSubmitted, model.ApplicationWithdrawn},
	model.ApplicationSubmitted:   {model.ApplicationShortlisted, model.ApplicationAccepted, model.ApplicationRejected, model.ApplicationWithdrawn},
	model.ApplicationShortlisted: {model.ApplicationAccepted, model.ApplicationRejected, model.ApplicationWithdrawn},
	model.ApplicationAccepted:    {},
	model.ApplicationRejected:    {},
	model.ApplicationWithdrawn:   {},
}

// CanTransition reports whether the state machine permits old -> new
func CanTransition(oldStatus, newStatus string) bool {
	for _, allowed := range legalTransitions[oldStatus] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transition is permitted
func IsTerminalStatus(status string) bool {
	return len(legalTransitions[status]) == 0
}

// ApplicationService governs application creation and the status lifecycle
type ApplicationService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB, notifications *NotificationService) *ApplicationService {
	return &ApplicationService{db: db, notifications: notifications}
}

// NotEligibleError wraps the evaluator verdict for the submission path so
// the handler can return the same reasons the browse view shows
type NotEligibleError struct {
	Reasons []string
}

func (e *NotEligibleError) Error() string { return "not eligible to apply" }

func (e *NotEligibleError) Unwrap() error { return ErrNotEligible }

// HasNonWithdrawnApplication reports whether the student already holds a
// live application to the program
func (s *ApplicationService) HasNonWithdrawnApplication(ctx context.Context, studentID, programID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("student_id = ? AND program_id = ? AND status <> ?", studentID, programID, model.ApplicationWithdrawn).
		Count(&count).Error
	return count > 0, err
}

// Create runs the eligibility evaluator and, on a pass, creates the
// application with its pending payment row in one transaction. The payment
// amount is the program fee at creation time.
//
// A student gets one application per program ever; a withdrawn application
// still occupies the pair, backed by the unique index on
// (student_id, program_id).
func (s *ApplicationService) Create(ctx context.Context, user *model.User, profile *model.StudentProfile, program *model.Program) (*model.Application, error) {
	hasExisting, err := s.HasNonWithdrawnApplication(ctx, profile.ID, program.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing applications: %w", err)
	}

	eligibility := EvaluateEligibility(user, profile, program, hasExisting)
	if !eligibility.CanApply {
		return nil, &NotEligibleError{Reasons: eligibility.Reasons}
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("student_id = ? AND program_id = ?", profile.ID, program.ID).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing applications: %w", err)
	}
	if total > 0 {
		return nil, ErrDuplicateApplication
	}

	application := &model.Application{
		StudentID:    profile.ID,
		ProgramID:    program.ID,
		UniversityID: program.UniversityID,
		Status:       model.ApplicationPending,
		IsEligible:   true,
		SubmittedBy:  user.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(application).Error; err != nil {
			return err
		}

		payment := &model.Payment{
			ApplicationID: application.ID,
			Amount:        program.ApplicationFee,
			Status:        model.PaymentPending,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		application.Payment = payment

		return s.notifications.CreateTx(tx, CreateNotificationRequest{
			UserID:      user.ID,
			Type:        model.NotificationTypeGeneral,
			Title:       "Application Created",
			Message:     fmt.Sprintf("Your application to %s has been created. Please complete payment.", program.Name),
			RelatedID:   &application.ID,
			RelatedType: "application",
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return application, nil
}

// statusMessages are the student-facing notifications per review outcome
var statusMessages = map[string]string{
	model.ApplicationShortlisted: "Your application has been shortlisted",
	model.ApplicationRejected:    "Your application has been rejected",
	model.ApplicationAccepted:    "Congratulations! Your application has been accepted",
}

// ChangeStatus applies a review transition (submitted/shortlisted ->
// shortlisted/accepted/rejected) on behalf of a university or admin actor.
// The stored status is re-read inside the transaction and the write is
// conditional on it, so a concurrent transition loses cleanly.
func (s *ApplicationService) ChangeStatus(ctx context.Context, applicationID, actorID uint, newStatus, reason string) (*model.Application, error) {
	if _, ok := statusMessages[newStatus]; !ok {
		return nil, fmt.Errorf("%w: invalid target status %q", ErrIllegalTransition, newStatus)
	}

	var application model.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Student").First(&application, applicationID).Error; err != nil {
			return err
		}

		if !CanTransition(application.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, application.Status, newStatus)
		}

		result := tx.Model(&model.Application{}).
			Where("id = ? AND status = ?", application.ID, application.Status).
			Update("status", newStatus)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: application status changed concurrently", ErrIllegalTransition)
		}

		update := model.ApplicationUpdate{
			ApplicationID: application.ID,
			OldStatus:     application.Status,
			NewStatus:     newStatus,
			ChangedBy:     actorID,
			ChangeReason:  reason,
		}
		if err := tx.Create(&update).Error; err != nil {
			return err
		}

		if err := s.notifications.CreateTx(tx, CreateNotificationRequest{
			UserID:      application.Student.UserID,
			Type:        model.NotificationTypeStatusUpdate,
			Title:       "Application Status Update",
			Message:     statusMessages[newStatus],
			RelatedID:   &application.ID,
			RelatedType: "application",
		}); err != nil {
			return err
		}

		application.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &application, nil
}

// Withdraw is the student-initiated exit. It is forbidden once the
// application has been accepted or rejected.
func (s *ApplicationService) Withdraw(ctx context.Context, applicationID, studentID, actorID uint, reason string) (*model.Application, error) {
	if reason == "" {
		reason = "Student withdrew"
	}

	var application model.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).First(&application, applicationID).Error; err != nil {
			return err
		}

		if !CanTransition(application.Status, model.ApplicationWithdrawn) {
			return fmt.Errorf("%w: cannot withdraw a %s application", ErrIllegalTransition, application.Status)
		}

		result := tx.Model(&model.Application{}).
			Where("id = ? AND status = ?", application.ID, application.Status).
			Update("status", model.ApplicationWithdrawn)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: application status changed concurrently", ErrIllegalTransition)
		}

		update := model.ApplicationUpdate{
			ApplicationID: application.ID,
			OldStatus:     application.Status,
			NewStatus:     model.ApplicationWithdrawn,
			ChangedBy:     actorID,
			ChangeReason:  reason,
		}
		if err := tx.Create(&update).Error; err != nil {
			return err
		}

		application.Status = model.ApplicationWithdrawn
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &application, nil
}

// MarkSubmitted moves pending -> submitted inside the caller's transaction
// and stamps the submission time. Payment completion is the only caller;
// there is no other legal path into submitted.
func (s *ApplicationService) MarkSubmitted(tx *gorm.DB, application *model.Application, actorID uint) error {
	if !CanTransition(application.Status, model.ApplicationSubmitted) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, application.Status, model.ApplicationSubmitted)
	}

	now := time.Now()
	result := tx.Model(&model.Application{}).
		Where("id = ? AND status = ?", application.ID, model.ApplicationPending).
		Updates(map[string]interface{}{
			"status":       model.ApplicationSubmitted,
			"submitted_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: application status changed concurrently", ErrIllegalTransition)
	}

	update := model.ApplicationUpdate{
		ApplicationID: application.ID,
		OldStatus:     model.ApplicationPending,
		NewStatus:     model.ApplicationSubmitted,
		ChangedBy:     actorID,
		ChangeReason:  "Payment completed",
	}
	if err := tx.Create(&update).Error; err != nil {
		return err
	}

	application.Status = model.ApplicationSubmitted
	application.SubmittedAt = &now
	return nil
}
