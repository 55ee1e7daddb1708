package student

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/response"
	"github.com/campusgate/admissions-api/utils/validation"
)

// UpdateProfileRequest carries editable profile fields. Credential values
// replace the stored record as a unit.
type UpdateProfileRequest struct {
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`

	SSCGPA        float64 `json:"ssc_gpa" validate:"gte=0,lte=5"`
	SSCGroup      string  `json:"ssc_group,omitempty"`
	SSCBoard      string  `json:"ssc_board,omitempty"`
	SSCYear       int     `json:"ssc_year,omitempty"`
	SSCRollNumber string  `json:"ssc_roll_number,omitempty"`

	HSCGPA        float64 `json:"hsc_gpa" validate:"gte=0,lte=5"`
	HSCGroup      string  `json:"hsc_group,omitempty"`
	HSCBoard      string  `json:"hsc_board,omitempty"`
	HSCYear       int     `json:"hsc_year,omitempty"`
	HSCRollNumber string  `json:"hsc_roll_number,omitempty"`
}

// GetProfile returns the student's profile with documents
func (h *StudentHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	if err := h.db.Preload("Documents").First(profile, profile.ID).Error; err != nil {
		return response.InternalServerError(c, "Failed to load profile", err)
	}

	return response.Success(c, profile)
}

// UpdateProfile saves profile edits. Changing a credential's underlying
// values resets that credential to pending review; an edit that leaves a
// credential identical keeps its verification status.
func (h *StudentHandler) UpdateProfile(c *fiber.Ctx) error {
	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	profile.DateOfBirth = req.DateOfBirth
	profile.Address = validation.SanitizeString(req.Address)
	profile.City = validation.SanitizeString(req.City)

	newSSC := model.CredentialRecord{
		GPA:        req.SSCGPA,
		Group:      validation.SanitizeString(req.SSCGroup),
		Board:      validation.SanitizeString(req.SSCBoard),
		Year:       req.SSCYear,
		RollNumber: validation.SanitizeString(req.SSCRollNumber),
	}
	newHSC := model.CredentialRecord{
		GPA:        req.HSCGPA,
		Group:      validation.SanitizeString(req.HSCGroup),
		Board:      validation.SanitizeString(req.HSCBoard),
		Year:       req.HSCYear,
		RollNumber: validation.SanitizeString(req.HSCRollNumber),
	}

	credentialsReset := services.ApplyCredentialEdits(profile, newSSC, newHSC)

	if err := h.db.Save(profile).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile", err)
	}

	message := "Profile updated successfully"
	if credentialsReset {
		message = "Profile updated. Changed academic records will need admin verification again."
	}
	return response.SuccessWithMessage(c, message, profile)
}
