package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/campusgate/admissions-api/database"
	"github.com/campusgate/admissions-api/model"
	"gorm.io/gorm"
)

// These tests run against a real PostgreSQL database configured through the
// usual DB_* environment variables. They are skipped unless
// RUN_INTEGRATION_TESTS=true.

type integrationFixture struct {
	db             *gorm.DB
	admin          *model.User
	studentUser    *model.User
	profile        *model.StudentProfile
	universityUser *model.User
	university     *model.University
	program        *model.Program
}

func setupIntegration(t *testing.T) *integrationFixture {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		t.Fatal("unexpected store backend")
	}

	suffix := time.Now().UnixNano()

	admin := &model.User{
		Email:        fmt.Sprintf("it-admin-%d@example.com", suffix),
		PasswordHash: "x",
		Name:         "Test Admin",
		Role:         model.RoleAdmin,
		IsVerified:   true,
	}
	studentUser := &model.User{
		Email:        fmt.Sprintf("it-student-%d@example.com", suffix),
		PasswordHash: "x",
		Name:         "Test Student",
		Role:         model.RoleStudent,
		IsVerified:   true,
	}
	universityUser := &model.User{
		Email:        fmt.Sprintf("it-university-%d@example.com", suffix),
		PasswordHash: "x",
		Name:         "Test University",
		Role:         model.RoleUniversity,
		IsVerified:   true,
	}
	for _, u := range []*model.User{admin, studentUser, universityUser} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	t.Cleanup(func() {
		for _, u := range []*model.User{admin, studentUser, universityUser} {
			db.Unscoped().Delete(u)
		}
	})

	profile := &model.StudentProfile{
		UserID:                studentUser.ID,
		RegistrationNumber:    fmt.Sprintf("STU-IT-%d", suffix),
		SSCGPA:                4.5,
		SSCGroup:              "Science",
		SSCVerificationStatus: model.CredentialVerified,
		HSCGPA:                4.0,
		HSCGroup:              "Science",
		HSCVerificationStatus: model.CredentialVerified,
		IsProfileComplete:     true,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}

	university := &model.University{
		UserID:     universityUser.ID,
		Name:       fmt.Sprintf("Integration University %d", suffix),
		Location:   "Dhaka",
		Type:       model.UniversityTypePublic,
		IsVerified: true,
	}
	if err := db.Create(university).Error; err != nil {
		t.Fatalf("create university: %v", err)
	}

	program := &model.Program{
		UniversityID:         university.ID,
		Name:                 "Integration CSE",
		MinSSCGPA:            3.0,
		MinHSCGPA:            3.0,
		GroupRequired:        "any",
		ApplicationFee:       500,
		IntakeCapacity:       50,
		ApplicationStartDate: time.Now().Add(-24 * time.Hour),
		ApplicationDeadline:  time.Now().Add(24 * time.Hour),
		IsActive:             true,
	}
	if err := db.Create(program).Error; err != nil {
		t.Fatalf("create program: %v", err)
	}

	return &integrationFixture{
		db:             db,
		admin:          admin,
		studentUser:    studentUser,
		profile:        profile,
		universityUser: universityUser,
		university:     university,
		program:        program,
	}
}

func (f *integrationFixture) services() (*NotificationService, *ApplicationService, *PaymentService) {
	notifications := NewNotificationService(f.db)
	applications := NewApplicationService(f.db, notifications)
	payments := NewPaymentService(f.db, notifications, applications, "http://localhost:3000")
	return notifications, applications, payments
}

func (f *integrationFixture) notificationCount(t *testing.T, userID uint, title string) int64 {
	t.Helper()
	var count int64
	err := f.db.Model(&model.Notification{}).
		Where("user_id = ? AND title = ?", userID, title).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return count
}

func TestPaymentCompletionSubmitsApplication(t *testing.T) {
	f := setupIntegration(t)
	_, applications, payments := f.services()
	ctx := context.Background()

	application, err := applications.Create(ctx, f.studentUser, f.profile, f.program)
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	if application.Status != model.ApplicationPending {
		t.Fatalf("new application status = %s, want pending", application.Status)
	}

	payment, err := payments.Verify(ctx, f.profile.ID, application.ID, model.PaymentCompleted, "txn-it-1")
	if err != nil {
		t.Fatalf("verify payment: %v", err)
	}
	if payment.Status != model.PaymentCompleted {
		t.Errorf("payment status = %s, want completed", payment.Status)
	}

	var stored model.Application
	if err := f.db.First(&stored, application.ID).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if stored.Status != model.ApplicationSubmitted {
		t.Errorf("application status = %s, want submitted", stored.Status)
	}
	if stored.SubmittedAt == nil {
		t.Error("submitted_at not stamped")
	}

	if got := f.notificationCount(t, f.studentUser.ID, "Payment Successful"); got != 1 {
		t.Errorf("student payment notifications = %d, want 1", got)
	}
	if got := f.notificationCount(t, f.universityUser.ID, "New Application Received"); got != 1 {
		t.Errorf("university notifications = %d, want 1", got)
	}

	// Gateway retry: same call again must change nothing
	again, err := payments.Verify(ctx, f.profile.ID, application.ID, model.PaymentCompleted, "txn-it-2")
	if err != nil {
		t.Fatalf("repeated verify: %v", err)
	}
	if again.TransactionID == nil || *again.TransactionID != "txn-it-1" {
		t.Error("repeated verify must not overwrite the transaction id")
	}
	if got := f.notificationCount(t, f.studentUser.ID, "Payment Successful"); got != 1 {
		t.Errorf("student payment notifications after retry = %d, want 1", got)
	}
}

func TestPaymentFailureKeepsApplicationPending(t *testing.T) {
	f := setupIntegration(t)
	_, applications, payments := f.services()
	ctx := context.Background()

	application, err := applications.Create(ctx, f.studentUser, f.profile, f.program)
	if err != nil {
		t.Fatalf("create application: %v", err)
	}

	payment, err := payments.Verify(ctx, f.profile.ID, application.ID, model.PaymentFailed, "")
	if err != nil {
		t.Fatalf("verify failed payment: %v", err)
	}
	if payment.Status != model.PaymentFailed {
		t.Errorf("payment status = %s, want failed", payment.Status)
	}

	var stored model.Application
	if err := f.db.First(&stored, application.ID).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if stored.Status != model.ApplicationPending {
		t.Errorf("application status = %s, want pending after failed payment", stored.Status)
	}
	if got := f.notificationCount(t, f.studentUser.ID, "Payment Failed"); got != 1 {
		t.Errorf("failure notifications = %d, want 1", got)
	}

	// A failed payment can be paid on a later attempt
	if _, err := payments.Initiate(ctx, f.profile.ID, application.ID, ""); err != nil {
		t.Errorf("re-initiate after failure: %v", err)
	}
	if _, err := payments.Verify(ctx, f.profile.ID, application.ID, model.PaymentCompleted, "txn-it-retry"); err != nil {
		t.Fatalf("verify after failure: %v", err)
	}
	if err := f.db.First(&stored, application.ID).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if stored.Status != model.ApplicationSubmitted {
		t.Errorf("application status = %s, want submitted after retried payment", stored.Status)
	}
}

func TestSecondCredentialVerificationGrantsAccountFlag(t *testing.T) {
	f := setupIntegration(t)
	verification := NewVerificationService(f.db, NewNotificationService(f.db), NewAuditService(f.db))
	ctx := context.Background()

	// Reset the fixture to an unverified state
	err := f.db.Model(f.profile).Updates(map[string]interface{}{
		"ssc_verification_status": model.CredentialPending,
		"hsc_verification_status": model.CredentialPending,
	}).Error
	if err != nil {
		t.Fatalf("reset profile: %v", err)
	}
	if err := f.db.Model(f.studentUser).Update("is_verified", false).Error; err != nil {
		t.Fatalf("reset user: %v", err)
	}

	if _, err := verification.VerifyCredential(ctx, f.admin.ID, f.profile.ID, CredentialSSC, "127.0.0.1"); err != nil {
		t.Fatalf("verify ssc: %v", err)
	}
	var user model.User
	if err := f.db.First(&user, f.studentUser.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user.IsVerified {
		t.Error("account flag set after a single credential")
	}

	if _, err := verification.VerifyCredential(ctx, f.admin.ID, f.profile.ID, CredentialHSC, "127.0.0.1"); err != nil {
		t.Fatalf("verify hsc: %v", err)
	}
	if err := f.db.First(&user, f.studentUser.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !user.IsVerified {
		t.Error("account flag not set after both credentials verified")
	}

	// The decision is final for that submission
	if _, err := verification.VerifyCredential(ctx, f.admin.ID, f.profile.ID, CredentialSSC, "127.0.0.1"); !errors.Is(err, ErrAlreadyVerified) {
		t.Errorf("re-verify error = %v, want ErrAlreadyVerified", err)
	}
}

func TestUniversityVerificationWritesAuditTrail(t *testing.T) {
	f := setupIntegration(t)
	verification := NewVerificationService(f.db, NewNotificationService(f.db), NewAuditService(f.db))
	ctx := context.Background()

	err := f.db.Model(f.university).Update("is_verified", false).Error
	if err != nil {
		t.Fatalf("reset university: %v", err)
	}
	if err := f.db.Model(f.universityUser).Update("is_verified", false).Error; err != nil {
		t.Fatalf("reset user: %v", err)
	}

	university, err := verification.VerifyUniversity(ctx, f.admin.ID, f.university.ID, "127.0.0.1")
	if err != nil {
		t.Fatalf("verify university: %v", err)
	}
	if !university.IsVerified {
		t.Error("university flag not set")
	}

	var user model.User
	if err := f.db.First(&user, f.universityUser.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !user.IsVerified {
		t.Error("account flag not set with the organisation")
	}

	var logCount int64
	err = f.db.Model(&model.AdminLog{}).
		Where("admin_id = ? AND table_name = ? AND record_id = ?", f.admin.ID, model.University{}.TableName(), f.university.ID).
		Count(&logCount).Error
	if err != nil {
		t.Fatalf("count audit entries: %v", err)
	}
	if logCount == 0 {
		t.Error("no audit entry recorded for the verification")
	}
}

func TestDuplicateApplicationRejected(t *testing.T) {
	f := setupIntegration(t)
	_, applications, _ := f.services()
	ctx := context.Background()

	if _, err := applications.Create(ctx, f.studentUser, f.profile, f.program); err != nil {
		t.Fatalf("create application: %v", err)
	}

	// While the first application is live the evaluator refuses
	_, err := applications.Create(ctx, f.studentUser, f.profile, f.program)
	var notEligible *NotEligibleError
	if !errors.As(err, &notEligible) {
		t.Fatalf("second create error = %v, want NotEligibleError", err)
	}

	// Withdrawing does not free the pair
	var application model.Application
	if err := f.db.Where("student_id = ? AND program_id = ?", f.profile.ID, f.program.ID).
		First(&application).Error; err != nil {
		t.Fatalf("load application: %v", err)
	}
	if _, err := applications.Withdraw(ctx, application.ID, f.profile.ID, f.studentUser.ID, ""); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if _, err := applications.Create(ctx, f.studentUser, f.profile, f.program); !errors.Is(err, ErrDuplicateApplication) {
		t.Errorf("create after withdraw error = %v, want ErrDuplicateApplication", err)
	}
}
