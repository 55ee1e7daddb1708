package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// PaymentHandler handles the stub payment flow for students
type PaymentHandler struct {
	db       *gorm.DB
	payments *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{db: db, payments: payments}
}

// InitiateRequest selects the payment method for the gateway redirect
type InitiateRequest struct {
	ApplicationID uint   `json:"application_id" validate:"required"`
	Method        string `json:"method,omitempty"`
}

// VerifyRequest simulates the gateway callback. Status is the outcome the
// gateway reports, completed or failed.
type VerifyRequest struct {
	ApplicationID uint   `json:"application_id" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=completed failed"`
	TransactionID string `json:"transaction_id,omitempty"`
}

func (h *PaymentHandler) studentID(c *fiber.Ctx) (uint, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return 0, errors.New("missing user context")
	}
	var profile model.StudentProfile
	if err := h.db.Select("id").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return 0, err
	}
	return profile.ID, nil
}

// Initiate starts a payment session and returns the gateway URL
func (h *PaymentHandler) Initiate(c *fiber.Ctx) error {
	studentID, err := h.studentID(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	var req InitiateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ApplicationID == 0 {
		return response.BadRequest(c, "Application id is required")
	}

	result, err := h.payments.Initiate(c.Context(), studentID, req.ApplicationID, req.Method)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		if errors.Is(err, services.ErrPaymentNotPayable) {
			return response.Conflict(c, "Payment has already been processed")
		}
		return response.InternalServerError(c, "Failed to initiate payment", err)
	}

	return response.Success(c, result)
}

// Verify records the gateway outcome. A completed payment submits the
// application; a failed one leaves it pending for another attempt.
// Verifying an already-completed payment succeeds without changing
// anything.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	studentID, err := h.studentID(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ApplicationID == 0 {
		return response.BadRequest(c, "Application id is required")
	}

	payment, err := h.payments.Verify(c.Context(), studentID, req.ApplicationID, req.Status, req.TransactionID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPaymentStatus) {
			return response.BadRequest(c, "Status must be 'completed' or 'failed'")
		}
		if errors.Is(err, services.ErrPaymentNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		return response.InternalServerError(c, "Failed to verify payment", err)
	}

	return response.SuccessWithMessage(c, "Payment verified", payment)
}

// Get returns the payment record for one of the student's applications
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	studentID, err := h.studentID(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	applicationID, err := c.ParamsInt("applicationId")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application id")
	}

	payment, err := h.payments.GetForApplication(c.Context(), studentID, uint(applicationID))
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		return response.InternalServerError(c, "Failed to load payment", err)
	}

	return response.Success(c, payment)
}
