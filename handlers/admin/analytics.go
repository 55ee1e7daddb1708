package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/utils/response"
)

// Dashboard returns the aggregate counters for the admin overview
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.analytics.Dashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute dashboard", err)
	}
	return response.Success(c, stats)
}

// Revenue returns completed payment totals grouped by university
func (h *AdminHandler) Revenue(c *fiber.Ctx) error {
	rows, err := h.analytics.RevenueByUniversity(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute revenue", err)
	}
	return response.List(c, len(rows), rows)
}

// ListApplications returns applications across all universities
func (h *AdminHandler) ListApplications(c *fiber.Ctx) error {
	query := h.db.Preload("Student").Preload("Program").Preload("University").
		Model(&model.Application{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if universityID := c.QueryInt("university_id"); universityID > 0 {
		query = query.Where("university_id = ?", universityID)
	}

	var applications []model.Application
	if err := query.Order("created_at DESC").Limit(200).Find(&applications).Error; err != nil {
		return response.InternalServerError(c, "Failed to load applications", err)
	}

	return response.List(c, len(applications), applications)
}

// ListPayments returns payment records across all applications
func (h *AdminHandler) ListPayments(c *fiber.Ctx) error {
	query := h.db.Model(&model.Payment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []model.Payment
	if err := query.Order("created_at DESC").Limit(200).Find(&payments).Error; err != nil {
		return response.InternalServerError(c, "Failed to load payments", err)
	}

	return response.List(c, len(payments), payments)
}
