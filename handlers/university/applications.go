package university

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// ChangeStatusRequest carries a review decision
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=shortlisted accepted rejected"`
	Reason string `json:"reason,omitempty"`
}

// ListApplications returns submitted applications to the university's
// programs. Pending applications are invisible to the review side until
// payment completes.
func (h *UniversityHandler) ListApplications(c *fiber.Ctx) error {
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}

	query := h.db.Preload("Student").Preload("Student.User").Preload("Program").
		Where("university_id = ? AND status <> ?", university.ID, model.ApplicationPending)

	if status := c.Query("status"); status != "" && status != model.ApplicationPending {
		query = query.Where("status = ?", status)
	}
	if programID := c.QueryInt("program_id"); programID > 0 {
		query = query.Where("program_id = ?", programID)
	}

	var applications []model.Application
	if err := query.Order("created_at DESC").Find(&applications).Error; err != nil {
		return response.InternalServerError(c, "Failed to load applications", err)
	}

	return response.List(c, len(applications), applications)
}

// GetApplication returns one application with the applicant's profile and
// status history
func (h *UniversityHandler) GetApplication(c *fiber.Ctx) error {
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}

	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application id")
	}

	var application model.Application
	err = h.db.Preload("Student").Preload("Student.User").Preload("Program").
		Preload("Payment").Preload("Updates").
		Where("university_id = ? AND status <> ?", university.ID, model.ApplicationPending).
		First(&application, applicationID).Error
	if err != nil {
		return response.NotFound(c, "Application not found")
	}

	return response.Success(c, application)
}

// ChangeStatus applies a review decision to an application
func (h *UniversityHandler) ChangeStatus(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}

	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application id")
	}

	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	// Ownership check before the transition
	var application model.Application
	if err := h.db.Where("university_id = ?", university.ID).First(&application, applicationID).Error; err != nil {
		return response.NotFound(c, "Application not found")
	}

	updated, err := h.applications.ChangeStatus(c.Context(), application.ID, userID, req.Status, req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrIllegalTransition) {
			return response.Conflict(c, "Application cannot move to that status")
		}
		return response.InternalServerError(c, "Failed to update application", err)
	}

	return response.SuccessWithMessage(c, "Application status updated", updated)
}
