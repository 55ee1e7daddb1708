package notification

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/services"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// NotificationHandler serves in-app notifications for any authenticated role
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's notifications with the unread count
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	unreadOnly := c.QueryBool("unread")
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	notifications, unread, err := h.notifications.ListForUser(c.Context(), userID, unreadOnly, limit, offset)
	if err != nil {
		return response.InternalServerError(c, "Failed to load notifications", err)
	}

	return response.Success(c, fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead marks one notification read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil || notificationID <= 0 {
		return response.BadRequest(c, "Invalid notification id")
	}

	if err := h.notifications.MarkRead(c.Context(), userID, uint(notificationID)); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to mark notification read", err)
	}

	return response.SuccessWithMessage(c, "Notification marked read", nil)
}

// MarkAllRead marks every unread notification read
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	updated, err := h.notifications.MarkAllRead(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to mark notifications read", err)
	}

	return response.Success(c, fiber.Map{"updated": updated})
}
