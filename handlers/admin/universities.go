package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// ListUniversities returns universities with their accounts. ?pending=true
// narrows to unverified ones awaiting review.
func (h *AdminHandler) ListUniversities(c *fiber.Ctx) error {
	query := h.db.Preload("User").Model(&model.University{})
	if c.QueryBool("pending") {
		query = query.Where("is_verified = ?", false)
	}

	var universities []model.University
	if err := query.Order("created_at DESC").Find(&universities).Error; err != nil {
		return response.InternalServerError(c, "Failed to load universities", err)
	}

	return response.List(c, len(universities), universities)
}

// GetUniversity returns one university with its programs
func (h *AdminHandler) GetUniversity(c *fiber.Ctx) error {
	universityID, err := c.ParamsInt("id")
	if err != nil || universityID <= 0 {
		return response.BadRequest(c, "Invalid university id")
	}

	var university model.University
	err = h.db.Preload("User").Preload("Programs").First(&university, universityID).Error
	if err != nil {
		return response.NotFound(c, "University not found")
	}

	return response.Success(c, university)
}

// VerifyUniversity approves a university so it can publish programs
func (h *AdminHandler) VerifyUniversity(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	universityID, err := c.ParamsInt("id")
	if err != nil || universityID <= 0 {
		return response.BadRequest(c, "Invalid university id")
	}

	university, err := h.verification.VerifyUniversity(c.Context(), adminID, uint(universityID), c.IP())
	if err != nil {
		if errors.Is(err, services.ErrAlreadyVerified) {
			return response.Conflict(c, "University is already verified")
		}
		return response.InternalServerError(c, "Failed to verify university", err)
	}

	return response.SuccessWithMessage(c, "University verified", university)
}

// RejectUniversity refuses a university's verification with a reason
func (h *AdminHandler) RejectUniversity(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	universityID, err := c.ParamsInt("id")
	if err != nil || universityID <= 0 {
		return response.BadRequest(c, "Invalid university id")
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	university, err := h.verification.RejectUniversity(c.Context(), adminID, uint(universityID), req.Reason, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrRejectionReasonRequired) {
			return response.BadRequest(c, "Rejection reason is required")
		}
		return response.InternalServerError(c, "Failed to reject university", err)
	}

	return response.SuccessWithMessage(c, "University verification rejected", university)
}
