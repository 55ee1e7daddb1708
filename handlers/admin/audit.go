package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/utils/response"
)

// ListLogs returns audit log entries newest first
func (h *AdminHandler) ListLogs(c *fiber.Ctx) error {
	var adminID *uint
	if id := c.QueryInt("admin_id"); id > 0 {
		v := uint(id)
		adminID = &v
	}

	logs, total, err := h.audit.List(c.Context(), adminID, c.Query("action"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return response.InternalServerError(c, "Failed to load audit logs", err)
	}

	return response.Success(c, fiber.Map{
		"logs":  logs,
		"total": total,
	})
}
