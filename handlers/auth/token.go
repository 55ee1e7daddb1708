package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/utils/middleware"
	"github.com/campusgate/admissions-api/utils/response"
)

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a valid refresh token for a new access token
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}
	if claims.TokenType != "refresh" {
		return response.Unauthorized(c, "Token is not a refresh token")
	}

	revoked, err := h.blacklistService.IsTokenRevoked(c.Context(), claims.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check token status", err)
	}
	if revoked {
		return response.Unauthorized(c, "Refresh token has been revoked")
	}

	var user model.User
	if err := h.db.Where("is_active = ?", true).First(&user, claims.UserID).Error; err != nil {
		return response.Unauthorized(c, "Account not found or deactivated")
	}
	if user.TokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token", err)
	}

	return response.Success(c, fiber.Map{
		"access_token": accessToken,
		"expires_in":   24 * 60 * 60,
	})
}

// Logout revokes the presented access token so it cannot be reused
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	jti, hasJTI := middleware.GetTokenJTI(c)
	expiresAt, _ := middleware.GetTokenExpiry(c)
	if hasJTI {
		if err := h.blacklistService.RevokeToken(c.Context(), jti, user.ID, expiresAt, "logout"); err != nil {
			return response.InternalServerError(c, "Failed to revoke token", err)
		}
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}

// Me returns the authenticated account with its role profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var user model.User
	query := h.db.Preload("StudentProfile").Preload("University")
	if err := query.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, user)
}
