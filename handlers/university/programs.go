package university

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/utils/response"
	"github.com/campusgate/admissions-api/utils/validation"
)

// CreateProgramRequest carries a new program listing
type CreateProgramRequest struct {
	Name                 string    `json:"name" validate:"required,min=2"`
	Description          string    `json:"description,omitempty"`
	DurationYears        int       `json:"duration_years" validate:"omitempty,gte=1,lte=10"`
	MinSSCGPA            float64   `json:"min_ssc_gpa" validate:"gte=0,lte=5"`
	MinHSCGPA            float64   `json:"min_hsc_gpa" validate:"gte=0,lte=5"`
	GroupRequired        string    `json:"group_required,omitempty"`
	ApplicationFee       float64   `json:"application_fee" validate:"required,gt=0"`
	IntakeCapacity       int       `json:"intake_capacity" validate:"omitempty,gte=1"`
	ApplicationStartDate time.Time `json:"application_start_date" validate:"required"`
	ApplicationDeadline  time.Time `json:"application_deadline" validate:"required"`
}

// UpdateProgramRequest lists exactly the fields a university may edit.
// Pointer fields distinguish "leave unchanged" from an explicit zero.
type UpdateProgramRequest struct {
	Name                 *string    `json:"name,omitempty" validate:"omitempty,min=2"`
	Description          *string    `json:"description,omitempty"`
	DurationYears        *int       `json:"duration_years,omitempty" validate:"omitempty,gte=1,lte=10"`
	MinSSCGPA            *float64   `json:"min_ssc_gpa,omitempty" validate:"omitempty,gte=0,lte=5"`
	MinHSCGPA            *float64   `json:"min_hsc_gpa,omitempty" validate:"omitempty,gte=0,lte=5"`
	GroupRequired        *string    `json:"group_required,omitempty"`
	ApplicationFee       *float64   `json:"application_fee,omitempty" validate:"omitempty,gt=0"`
	IntakeCapacity       *int       `json:"intake_capacity,omitempty" validate:"omitempty,gte=1"`
	ApplicationStartDate *time.Time `json:"application_start_date,omitempty"`
	ApplicationDeadline  *time.Time `json:"application_deadline,omitempty"`
	IsActive             *bool      `json:"is_active,omitempty"`
}

// CreateProgram publishes a new program. Only verified universities may
// publish.
func (h *UniversityHandler) CreateProgram(c *fiber.Ctx) error {
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}
	if !university.IsVerified {
		return response.Forbidden(c, "University must be verified before publishing programs")
	}

	var req CreateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}
	if !req.ApplicationDeadline.After(req.ApplicationStartDate) {
		return response.BadRequest(c, "Application deadline must be after the start date")
	}

	program := model.Program{
		UniversityID:         university.ID,
		Name:                 validation.SanitizeString(req.Name),
		Description:          req.Description,
		DurationYears:        req.DurationYears,
		MinSSCGPA:            req.MinSSCGPA,
		MinHSCGPA:            req.MinHSCGPA,
		GroupRequired:        validation.SanitizeString(req.GroupRequired),
		ApplicationFee:       req.ApplicationFee,
		IntakeCapacity:       req.IntakeCapacity,
		ApplicationStartDate: req.ApplicationStartDate,
		ApplicationDeadline:  req.ApplicationDeadline,
		IsActive:             true,
	}
	if program.DurationYears == 0 {
		program.DurationYears = 4
	}

	if err := h.db.Create(&program).Error; err != nil {
		return response.InternalServerError(c, "Failed to create program", err)
	}

	return response.Created(c, "Program created successfully", program)
}

// ListPrograms returns the university's own programs, active or not
func (h *UniversityHandler) ListPrograms(c *fiber.Ctx) error {
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}

	var programs []model.Program
	if err := h.db.Where("university_id = ?", university.ID).
		Order("created_at DESC").Find(&programs).Error; err != nil {
		return response.InternalServerError(c, "Failed to load programs", err)
	}

	return response.List(c, len(programs), programs)
}

// GetProgram returns one of the university's programs
func (h *UniversityHandler) GetProgram(c *fiber.Ctx) error {
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}

	programID, err := c.ParamsInt("id")
	if err != nil || programID <= 0 {
		return response.BadRequest(c, "Invalid program id")
	}

	var program model.Program
	if err := h.db.Where("university_id = ?", university.ID).First(&program, programID).Error; err != nil {
		return response.NotFound(c, "Program not found")
	}

	return response.Success(c, program)
}

// UpdateProgram edits an allow-listed set of program fields
func (h *UniversityHandler) UpdateProgram(c *fiber.Ctx) error {
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}

	programID, err := c.ParamsInt("id")
	if err != nil || programID <= 0 {
		return response.BadRequest(c, "Invalid program id")
	}

	var program model.Program
	if err := h.db.Where("university_id = ?", university.ID).First(&program, programID).Error; err != nil {
		return response.NotFound(c, "Program not found")
	}

	var req UpdateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Name != nil {
		program.Name = validation.SanitizeString(*req.Name)
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	if req.DurationYears != nil {
		program.DurationYears = *req.DurationYears
	}
	if req.MinSSCGPA != nil {
		program.MinSSCGPA = *req.MinSSCGPA
	}
	if req.MinHSCGPA != nil {
		program.MinHSCGPA = *req.MinHSCGPA
	}
	if req.GroupRequired != nil {
		program.GroupRequired = validation.SanitizeString(*req.GroupRequired)
	}
	if req.ApplicationFee != nil {
		program.ApplicationFee = *req.ApplicationFee
	}
	if req.IntakeCapacity != nil {
		program.IntakeCapacity = *req.IntakeCapacity
	}
	if req.ApplicationStartDate != nil {
		program.ApplicationStartDate = *req.ApplicationStartDate
	}
	if req.ApplicationDeadline != nil {
		program.ApplicationDeadline = *req.ApplicationDeadline
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	if !program.ApplicationDeadline.After(program.ApplicationStartDate) {
		return response.BadRequest(c, "Application deadline must be after the start date")
	}

	if err := h.db.Save(&program).Error; err != nil {
		return response.InternalServerError(c, "Failed to update program", err)
	}

	return response.SuccessWithMessage(c, "Program updated successfully", program)
}

// DeleteProgram removes a program that has no applications. Programs with
// applications cannot be deleted; deactivate them instead so history stays
// intact.
func (h *UniversityHandler) DeleteProgram(c *fiber.Ctx) error {
	university, err := h.loadUniversity(c)
	if err != nil {
		return response.NotFound(c, "University not found")
	}

	programID, err := c.ParamsInt("id")
	if err != nil || programID <= 0 {
		return response.BadRequest(c, "Invalid program id")
	}

	var program model.Program
	if err := h.db.Where("university_id = ?", university.ID).First(&program, programID).Error; err != nil {
		return response.NotFound(c, "Program not found")
	}

	var applicationCount int64
	if err := h.db.Model(&model.Application{}).
		Where("program_id = ?", program.ID).
		Count(&applicationCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check applications", err)
	}
	if applicationCount > 0 {
		return response.Conflict(c, "Program has applications and cannot be deleted. Deactivate it instead.")
	}

	if err := h.db.Delete(&program).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete program", err)
	}

	return response.SuccessWithMessage(c, "Program deleted successfully", nil)
}
