package student

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/services/storage"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/validation"
)

// StudentHandler handles student-facing requests
type StudentHandler struct {
	db           *gorm.DB
	applications *services.ApplicationService
	documents    *storage.Client
	validator    *validation.Validator
}

// NewStudentHandler creates a new student handler. The document storage
// client may be nil when no bucket is configured; uploads are then refused.
func NewStudentHandler(db *gorm.DB, applications *services.ApplicationService, documents *storage.Client) *StudentHandler {
	return &StudentHandler{
		db:           db,
		applications: applications,
		documents:    documents,
		validator:    validation.NewValidator(),
	}
}

// loadProfile fetches the authenticated student's profile
func (h *StudentHandler) loadProfile(c *fiber.Ctx) (*model.StudentProfile, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil, errors.New("missing user context")
	}

	var profile model.StudentProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
