package student

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// ApplyRequest identifies the program to apply to
type ApplyRequest struct {
	ProgramID uint `json:"program_id" validate:"required"`
}

// WithdrawRequest carries the optional withdrawal reason
type WithdrawRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Apply submits an application. The program must be active and inside its
// window; the eligibility evaluator then decides, and a refusal returns the
// full list of reasons.
func (h *StudentHandler) Apply(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ProgramID == 0 {
		return response.BadRequest(c, "Program id is required")
	}

	var program model.Program
	if err := h.db.First(&program, req.ProgramID).Error; err != nil {
		return response.NotFound(c, "Program not found")
	}

	now := time.Now()
	if !program.IsActive {
		return response.BadRequest(c, "Program is not accepting applications")
	}
	if now.Before(program.ApplicationStartDate) {
		return response.BadRequest(c, "Application window has not opened yet")
	}
	if now.After(program.ApplicationDeadline) {
		return response.BadRequest(c, "Application deadline has passed")
	}

	application, err := h.applications.Create(c.Context(), user, profile, &program)
	if err != nil {
		var notEligible *services.NotEligibleError
		if errors.As(err, &notEligible) {
			return response.ConflictWithData(c, "You are not eligible to apply to this program", fiber.Map{
				"reasons": notEligible.Reasons,
			})
		}
		if errors.Is(err, services.ErrDuplicateApplication) {
			return response.Conflict(c, "You have already applied to this program")
		}
		return response.InternalServerError(c, "Failed to create application", err)
	}

	return response.Created(c, "Application created. Complete payment to submit.", application)
}

// ListApplications returns the student's applications newest first
func (h *StudentHandler) ListApplications(c *fiber.Ctx) error {
	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	query := h.db.Preload("Program").Preload("Program.University").Preload("Payment").
		Where("student_id = ?", profile.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var applications []model.Application
	if err := query.Order("created_at DESC").Find(&applications).Error; err != nil {
		return response.InternalServerError(c, "Failed to load applications", err)
	}

	return response.List(c, len(applications), applications)
}

// GetApplication returns one application with its payment and status history
func (h *StudentHandler) GetApplication(c *fiber.Ctx) error {
	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application id")
	}

	var application model.Application
	err = h.db.Preload("Program").Preload("Program.University").Preload("Payment").Preload("Updates").
		Where("student_id = ?", profile.ID).
		First(&application, applicationID).Error
	if err != nil {
		return response.NotFound(c, "Application not found")
	}

	return response.Success(c, application)
}

// Withdraw withdraws the student's own application
func (h *StudentHandler) Withdraw(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application id")
	}

	var req WithdrawRequest
	_ = c.BodyParser(&req) // body is optional

	application, err := h.applications.Withdraw(c.Context(), uint(applicationID), profile.ID, userID, req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrIllegalTransition) {
			return response.Conflict(c, "Application can no longer be withdrawn")
		}
		return response.NotFound(c, "Application not found")
	}

	return response.SuccessWithMessage(c, "Application withdrawn", application)
}
