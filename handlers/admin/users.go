package admin

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services"
	authutil "github.com/campusgate/admissions-api/utils/auth"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// ListUsers returns accounts, filterable by role and active state
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	query := h.db.Model(&model.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if c.Query("active") != "" {
		query = query.Where("is_active = ?", c.QueryBool("active"))
	}

	var users []model.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to load users", err)
	}

	return response.List(c, len(users), users)
}

// DeactivateUser disables an account and invalidates all its tokens.
// Admins cannot deactivate themselves.
func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return response.BadRequest(c, "Invalid user id")
	}
	if uint(userID) == adminID {
		return response.BadRequest(c, "You cannot deactivate your own account")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"is_active":     false,
			"token_version": user.TokenVersion + 1,
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}

		return h.audit.RecordTx(tx, services.AuditEntry{
			AdminID:     adminID,
			ActionType:  model.ActionDeactivatedUser,
			Description: "Deactivated user " + user.Email,
			TableName:   "users",
			RecordID:    user.ID,
			IPAddress:   c.IP(),
		})
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to deactivate user", err)
	}

	return response.SuccessWithMessage(c, "User deactivated", nil)
}

// ResetUserPassword sets a random temporary password and invalidates the
// user's sessions. The temporary password is returned once for out-of-band
// delivery.
func (h *AdminHandler) ResetUserPassword(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return response.BadRequest(c, "Invalid user id")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return response.InternalServerError(c, "Failed to generate password", err)
	}
	tempPassword := hex.EncodeToString(raw)

	hashed, err := authutil.HashPassword(tempPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password", err)
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"password_hash": hashed,
			"token_version": user.TokenVersion + 1,
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}

		return h.audit.RecordTx(tx, services.AuditEntry{
			AdminID:     adminID,
			ActionType:  model.ActionResetPassword,
			Description: "Reset password for user " + user.Email,
			TableName:   "users",
			RecordID:    user.ID,
			IPAddress:   c.IP(),
		})
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to reset password", err)
	}

	return response.SuccessWithMessage(c, "Password reset", fiber.Map{
		"temporary_password": tempPassword,
	})
}
