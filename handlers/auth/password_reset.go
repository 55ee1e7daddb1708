package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/campusgate/admissions-api/model"
	authutil "github.com/campusgate/admissions-api/utils/auth"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents a password reset with token
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ForgotPassword issues a reset token. The response never reveals whether
// the email exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	neutral := fiber.Map{"message": "If the email exists, a password reset link will be sent"}

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return response.Success(c, neutral)
	}

	resetToken := uuid.New().String()
	expiresAt := time.Now().Add(1 * time.Hour)

	updates := map[string]interface{}{
		"reset_token":         resetToken,
		"reset_token_expires": expiresAt,
	}
	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to create reset token", err)
	}

	// An unconfigured mailer logs the token instead; the response stays
	// neutral either way.
	if err := h.emailService.SendPasswordResetEmail(user.Email, resetToken, user.Name); err != nil {
		log.Printf("Failed to send password reset email to %s: %v", user.Email, err)
	}

	return response.Success(c, neutral)
}

// ResetPassword sets a new password from a valid reset token and bumps the
// token version so existing sessions die
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Token == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Token and new password are required")
	}
	if !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	var user model.User
	err := h.db.Where("reset_token = ? AND reset_token_expires > ?", req.Token, time.Now()).
		First(&user).Error
	if err != nil {
		return response.BadRequest(c, "Invalid or expired reset token")
	}

	hashedPassword, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password", err)
	}

	updates := map[string]interface{}{
		"password_hash":       hashedPassword,
		"reset_token":         nil,
		"reset_token_expires": nil,
		"token_version":       user.TokenVersion + 1,
	}
	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to reset password", err)
	}

	return response.SuccessWithMessage(c, "Password reset successfully", nil)
}

// ChangePassword lets an authenticated user rotate their password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Old and new passwords are required")
	}
	if !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.OldPassword); err != nil {
		return response.Unauthorized(c, "Current password is incorrect")
	}

	hashedPassword, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password", err)
	}

	updates := map[string]interface{}{
		"password_hash": hashedPassword,
		"token_version": user.TokenVersion + 1,
	}
	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to change password", err)
	}

	return response.SuccessWithMessage(c, "Password changed successfully", nil)
}
