package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusgate/admissions-api/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrPaymentNotFound marks a lookup for a payment the caller cannot see
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentNotPayable marks an initiate call on a completed payment
	ErrPaymentNotPayable = errors.New("payment is not in a payable state")
	// ErrInvalidPaymentStatus marks a verify call with a status outside
	// completed/failed
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// InitiateResult is handed back to the client so it can redirect to the
// stub gateway page
type InitiateResult struct {
	Payment    *model.Payment `json:"payment"`
	GatewayURL string         `json:"gateway_url"`
	ExpiresAt  time.Time      `json:"expires_at"`
}

// PaymentService runs the stub payment flow. There is no real gateway; the
// verify call simulates the gateway callback.
type PaymentService struct {
	db            *gorm.DB
	notifications *NotificationService
	applications  *ApplicationService
	frontendURL   string
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, notifications *NotificationService, applications *ApplicationService, frontendURL string) *PaymentService {
	return &PaymentService{
		db:            db,
		notifications: notifications,
		applications:  applications,
		frontendURL:   frontendURL,
	}
}

// GetForApplication returns the payment row for an application owned by
// the student
func (s *PaymentService) GetForApplication(ctx context.Context, studentID, applicationID uint) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).
		Joins("JOIN applications ON applications.id = payments.application_id").
		Where("payments.application_id = ? AND applications.student_id = ?", applicationID, studentID).
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Initiate stamps the payment method and returns the stub gateway URL. The
// session expires after thirty minutes; an expired session is simply
// re-initiated. A failed payment may be initiated again.
func (s *PaymentService) Initiate(ctx context.Context, studentID, applicationID uint, method string) (*InitiateResult, error) {
	payment, err := s.GetForApplication(ctx, studentID, applicationID)
	if err != nil {
		return nil, err
	}
	if payment.Status == model.PaymentCompleted {
		return nil, fmt.Errorf("%w: status is %s", ErrPaymentNotPayable, payment.Status)
	}

	if method == "" {
		method = "mock_gateway"
	}
	if err := s.db.WithContext(ctx).Model(payment).Update("payment_method", method).Error; err != nil {
		return nil, err
	}
	payment.PaymentMethod = method

	return &InitiateResult{
		Payment:    payment,
		GatewayURL: fmt.Sprintf("%s/payments/gateway?payment_id=%d&amount=%.2f&currency=%s", s.frontendURL, payment.ID, payment.Amount, payment.Currency),
		ExpiresAt:  time.Now().Add(30 * time.Minute),
	}, nil
}

// Verify simulates the gateway callback with the outcome the gateway
// reports. On completed it marks the payment, moves the application
// pending -> submitted, and notifies both the student and the university.
// On failed it records the failure and leaves the application pending so
// the student can initiate again. Verifying an already-completed payment is
// a no-op returning the stored record, so gateway retries are safe.
func (s *PaymentService) Verify(ctx context.Context, studentID, applicationID uint, status, transactionID string) (*model.Payment, error) {
	if status != model.PaymentCompleted && status != model.PaymentFailed {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, status)
	}

	var payment model.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Joins("JOIN applications ON applications.id = payments.application_id").
			Where("payments.application_id = ? AND applications.student_id = ?", applicationID, studentID).
			First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		if err != nil {
			return err
		}

		if payment.Status == model.PaymentCompleted {
			return nil
		}

		var application model.Application
		if err := tx.Preload("Student").Preload("Program").Preload("University").
			First(&application, payment.ApplicationID).Error; err != nil {
			return err
		}

		if status == model.PaymentFailed {
			updates := map[string]interface{}{"status": model.PaymentFailed}
			if transactionID != "" {
				updates["transaction_id"] = transactionID
				payment.TransactionID = &transactionID
			}
			if err := tx.Model(&model.Payment{}).Where("id = ?", payment.ID).Updates(updates).Error; err != nil {
				return err
			}
			payment.Status = model.PaymentFailed

			return s.notifications.CreateTx(tx, CreateNotificationRequest{
				UserID:      application.Student.UserID,
				Type:        model.NotificationTypePayment,
				Title:       "Payment Failed",
				Message:     fmt.Sprintf("Your payment of %.2f %s for %s failed. Please try again.", payment.Amount, payment.Currency, application.Program.Name),
				RelatedID:   &application.ID,
				RelatedType: "application",
			})
		}

		if transactionID == "" {
			transactionID = uuid.NewString()
		}
		now := time.Now()
		updates := map[string]interface{}{
			"status":         model.PaymentCompleted,
			"transaction_id": transactionID,
			"paid_at":        now,
		}
		if err := tx.Model(&model.Payment{}).Where("id = ?", payment.ID).Updates(updates).Error; err != nil {
			return err
		}
		payment.Status = model.PaymentCompleted
		payment.TransactionID = &transactionID
		payment.PaidAt = &now

		if err := s.applications.MarkSubmitted(tx, &application, application.SubmittedBy); err != nil {
			return err
		}

		if err := s.notifications.CreateTx(tx, CreateNotificationRequest{
			UserID:      application.Student.UserID,
			Type:        model.NotificationTypePayment,
			Title:       "Payment Successful",
			Message:     fmt.Sprintf("Your payment of %.2f %s for %s was successful. Your application has been submitted.", payment.Amount, payment.Currency, application.Program.Name),
			RelatedID:   &application.ID,
			RelatedType: "application",
		}); err != nil {
			return err
		}

		return s.notifications.CreateTx(tx, CreateNotificationRequest{
			UserID:      application.University.UserID,
			Type:        model.NotificationTypeGeneral,
			Title:       "New Application Received",
			Message:     fmt.Sprintf("A new application has been submitted to %s", application.Program.Name),
			RelatedID:   &application.ID,
			RelatedType: "application",
		})
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}
