package university

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/utils/response"
	"github.com/campusgate/admissions-api/utils/validation"
)

// UpdateProfileRequest carries editable university fields. Verification
// state is admin-controlled and not editable here.
type UpdateProfileRequest struct {
	Name          string `json:"name" validate:"omitempty,min=2"`
	Location      string `json:"location,omitempty"`
	Type          string `json:"type,omitempty" validate:"omitempty,oneof=public private"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	WebsiteURL    string `json:"website_url,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
}

// GetProfile returns the university record
func (h *UniversityHandler) GetProfile(c *fiber.Ctx) error {
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}
	return response.Success(c, university)
}

// UpdateProfile saves university profile edits
func (h *UniversityHandler) UpdateProfile(c *fiber.Ctx) error {
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Name != "" {
		university.Name = validation.SanitizeString(req.Name)
	}
	if req.Location != "" {
		university.Location = req.Location
	}
	if req.Type == model.UniversityTypePublic || req.Type == model.UniversityTypePrivate {
		university.Type = req.Type
	}
	if req.Phone != "" {
		university.Phone = req.Phone
	}
	if req.Address != "" {
		university.Address = req.Address
	}
	if req.WebsiteURL != "" {
		university.WebsiteURL = req.WebsiteURL
	}
	if req.ContactPerson != "" {
		university.ContactPerson = req.ContactPerson
	}

	if err := h.db.Save(university).Error; err != nil {
		return response.InternalServerError(c, "Failed to update university", err)
	}

	return response.SuccessWithMessage(c, "University updated successfully", university)
}
