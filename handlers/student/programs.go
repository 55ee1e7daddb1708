package student

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// ProgramWithEligibility pairs a program with the student's verdict for it
type ProgramWithEligibility struct {
	Program     model.Program        `json:"program"`
	Eligibility services.Eligibility `json:"eligibility"`
}

// ListPrograms returns active programs of verified universities inside
// their application window, each annotated with the student's eligibility
// verdict. Optional filters: university_id, search, location, type, group,
// min_gpa, max_fee.
func (h *StudentHandler) ListPrograms(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	now := time.Now()
	query := h.db.Preload("University").
		Joins("JOIN universities ON universities.id = programs.university_id AND universities.is_verified = ?", true).
		Where("programs.is_active = ? AND programs.application_start_date <= ? AND programs.application_deadline >= ?", true, now, now)

	if universityID := c.QueryInt("university_id"); universityID > 0 {
		query = query.Where("programs.university_id = ?", universityID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("programs.name ILIKE ?", "%"+search+"%")
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("universities.location ILIKE ?", "%"+location+"%")
	}
	if universityType := c.Query("type"); universityType != "" {
		query = query.Where("universities.type = ?", universityType)
	}
	if group := c.Query("group"); group != "" {
		query = query.Where("(programs.group_required = ? OR programs.group_required = '' OR LOWER(programs.group_required) = 'any')", group)
	}
	if minGPA := c.QueryFloat("min_gpa"); minGPA > 0 {
		query = query.Where("programs.min_ssc_gpa <= ? AND programs.min_hsc_gpa <= ?", minGPA, minGPA)
	}
	if maxFee := c.QueryFloat("max_fee"); maxFee > 0 {
		query = query.Where("programs.application_fee <= ?", maxFee)
	}

	var programs []model.Program
	if err := query.Order("programs.application_deadline ASC").Find(&programs).Error; err != nil {
		return response.InternalServerError(c, "Failed to load programs", err)
	}

	// One query for the student's live applications instead of one per program
	var appliedIDs []uint
	if err := h.db.Model(&model.Application{}).
		Where("student_id = ? AND status <> ?", profile.ID, model.ApplicationWithdrawn).
		Pluck("program_id", &appliedIDs).Error; err != nil {
		return response.InternalServerError(c, "Failed to load applications", err)
	}
	applied := make(map[uint]bool, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = true
	}

	results := make([]ProgramWithEligibility, 0, len(programs))
	for i := range programs {
		results = append(results, ProgramWithEligibility{
			Program:     programs[i],
			Eligibility: services.EvaluateEligibility(user, profile, &programs[i], applied[programs[i].ID]),
		})
	}

	return response.List(c, len(results), results)
}

// GetProgram returns one program with the student's eligibility verdict
func (h *StudentHandler) GetProgram(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	programID, err := c.ParamsInt("id")
	if err != nil || programID <= 0 {
		return response.BadRequest(c, "Invalid program id")
	}

	var program model.Program
	if err := h.db.Preload("University").First(&program, programID).Error; err != nil {
		return response.NotFound(c, "Program not found")
	}

	hasExisting, err := h.applications.HasNonWithdrawnApplication(c.Context(), profile.ID, program.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check applications", err)
	}

	return response.Success(c, ProgramWithEligibility{
		Program:     program,
		Eligibility: services.EvaluateEligibility(user, profile, &program, hasExisting),
	})
}
