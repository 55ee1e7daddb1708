package admin

import (
	"gorm.io/gorm"

	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/services/storage"
	"github.com/campusgate/admissions-api/utils/validation"
)

// AdminHandler handles the admin verification and oversight surface
type AdminHandler struct {
	db           *gorm.DB
	verification *services.VerificationService
	analytics    *services.AnalyticsService
	audit        *services.AuditService
	documents    *storage.Client
	validator    *validation.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, verification *services.VerificationService, analytics *services.AnalyticsService, audit *services.AuditService, documents *storage.Client) *AdminHandler {
	return &AdminHandler{
		db:           db,
		verification: verification,
		analytics:    analytics,
		audit:        audit,
		documents:    documents,
		validator:    validation.NewValidator(),
	}
}
