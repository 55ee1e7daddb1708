package admin

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// RejectRequest carries the mandatory rejection reason
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// ListStudents returns student profiles with their accounts. ?pending=true
// narrows to profiles with at least one credential awaiting review.
func (h *AdminHandler) ListStudents(c *fiber.Ctx) error {
	query := h.db.Preload("User").Model(&model.StudentProfile{})

	if c.QueryBool("pending") {
		query = query.Where("ssc_verification_status = ? OR hsc_verification_status = ?",
			model.CredentialPending, model.CredentialPending)
	}
	if status := c.Query("ssc_status"); status != "" {
		query = query.Where("ssc_verification_status = ?", status)
	}
	if status := c.Query("hsc_status"); status != "" {
		query = query.Where("hsc_verification_status = ?", status)
	}

	var profiles []model.StudentProfile
	if err := query.Order("created_at DESC").Find(&profiles).Error; err != nil {
		return response.InternalServerError(c, "Failed to load students", err)
	}

	return response.List(c, len(profiles), profiles)
}

// GetStudent returns one student profile with documents and applications
func (h *AdminHandler) GetStudent(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("id")
	if err != nil || studentID <= 0 {
		return response.BadRequest(c, "Invalid student id")
	}

	var profile model.StudentProfile
	err = h.db.Preload("User").Preload("Documents").Preload("Applications").
		First(&profile, studentID).Error
	if err != nil {
		return response.NotFound(c, "Student not found")
	}

	return response.Success(c, profile)
}

// VerifyCredential marks one credential (ssc or hsc) verified
func (h *AdminHandler) VerifyCredential(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	studentID, err := c.ParamsInt("id")
	if err != nil || studentID <= 0 {
		return response.BadRequest(c, "Invalid student id")
	}
	kind := c.Params("credential")

	profile, err := h.verification.VerifyCredential(c.Context(), adminID, uint(studentID), kind, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrUnknownCredential) {
			return response.BadRequest(c, "Credential must be 'ssc' or 'hsc'")
		}
		if errors.Is(err, services.ErrAlreadyVerified) {
			return response.Conflict(c, "Credential is already verified")
		}
		if errors.Is(err, services.ErrCredentialNotPending) {
			return response.Conflict(c, "Credential is not awaiting review")
		}
		return response.InternalServerError(c, "Failed to verify credential", err)
	}

	return response.SuccessWithMessage(c, "Credential verified", profile)
}

// RejectCredential marks one credential rejected with a reason
func (h *AdminHandler) RejectCredential(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	studentID, err := c.ParamsInt("id")
	if err != nil || studentID <= 0 {
		return response.BadRequest(c, "Invalid student id")
	}
	kind := c.Params("credential")

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	profile, err := h.verification.RejectCredential(c.Context(), adminID, uint(studentID), kind, req.Reason, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrUnknownCredential) {
			return response.BadRequest(c, "Credential must be 'ssc' or 'hsc'")
		}
		if errors.Is(err, services.ErrRejectionReasonRequired) {
			return response.BadRequest(c, "Rejection reason is required")
		}
		if errors.Is(err, services.ErrCredentialNotPending) {
			return response.Conflict(c, "Credential is not awaiting review")
		}
		return response.InternalServerError(c, "Failed to reject credential", err)
	}

	return response.SuccessWithMessage(c, "Credential rejected", profile)
}

// AllowReapply resets a rejected student's credentials to pending
func (h *AdminHandler) AllowReapply(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	studentID, err := c.ParamsInt("id")
	if err != nil || studentID <= 0 {
		return response.BadRequest(c, "Invalid student id")
	}

	profile, err := h.verification.AllowReapply(c.Context(), adminID, uint(studentID), c.IP())
	if err != nil {
		return response.InternalServerError(c, "Failed to allow reapply", err)
	}

	return response.SuccessWithMessage(c, "Student may now resubmit records", profile)
}

// GetStudentDocumentURL returns a short-lived download link for a
// student's uploaded certificate, for review during verification
func (h *AdminHandler) GetStudentDocumentURL(c *fiber.Ctx) error {
	if h.documents == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Document storage is not configured")
	}

	studentID, err := c.ParamsInt("id")
	if err != nil || studentID <= 0 {
		return response.BadRequest(c, "Invalid student id")
	}
	documentID, err := c.ParamsInt("docId")
	if err != nil || documentID <= 0 {
		return response.BadRequest(c, "Invalid document id")
	}

	var document model.CredentialDocument
	if err := h.db.Where("student_id = ?", studentID).First(&document, documentID).Error; err != nil {
		return response.NotFound(c, "Document not found")
	}

	url, err := h.documents.PresignedURL(document.StorageKey, 15*time.Minute)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate download link", err)
	}

	return response.Success(c, fiber.Map{
		"url":        url,
		"expires_in": int((15 * time.Minute).Seconds()),
	})
}
