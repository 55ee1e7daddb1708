package university

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/validation"
)

// UniversityHandler handles university-facing requests
type UniversityHandler struct {
	db           *gorm.DB
	applications *services.ApplicationService
	validator    *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(db *gorm.DB, applications *services.ApplicationService) *UniversityHandler {
	return &UniversityHandler{
		db:           db,
		applications: applications,
		validator:    validation.NewValidator(),
	}
}

// loadUniversity fetches the authenticated user's university record
func (h *UniversityHandler) loadUniversity(c *fiber.Ctx) (*model.University, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil, errors.New("missing user context")
	}

	var university model.University
	if err := h.db.Where("user_id = ?", userID).First(&university).Error; err != nil {
		return nil, err
	}
	return &university, nil
}
