package auth

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campusgate/admissions-api/model"
	authutil "github.com/campusgate/admissions-api/utils/auth"
	"github.com/campusgate/admissions-api/utils/response"
	"github.com/campusgate/admissions-api/utils/validation"
)

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"` // Optional, defaults to "student"

	// University-role fields
	UniversityName string `json:"university_name,omitempty"`
	Location       string `json:"location,omitempty"`
	Type           string `json:"type,omitempty"` // public, private
	WebsiteURL     string `json:"website_url,omitempty"`
	ContactPerson  string `json:"contact_person,omitempty"`
}

// Register creates an account plus its role profile. Students get a
// registration number of the form STU<year><zero-padded id>; universities
// start unverified and cannot publish programs until an admin approves.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = validation.SanitizeString(req.Email)
	req.Name = validation.SanitizeString(req.Name)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if !authutil.IsPasswordValid(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	if req.Role == "" {
		req.Role = model.RoleStudent
	}
	if req.Role != model.RoleStudent && req.Role != model.RoleUniversity {
		return response.BadRequest(c, "Invalid role. Must be 'student' or 'university'")
	}
	if req.Role == model.RoleUniversity && req.UniversityName == "" {
		return response.BadRequest(c, "University name is required for university accounts")
	}

	var existingUser model.User
	if err := h.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return response.Conflict(c, "User with this email already exists")
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password", err)
	}

	user := model.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         req.Role,
		TokenVersion: 0,
	}

	// User and role profile commit together
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		switch req.Role {
		case model.RoleStudent:
			profile := model.StudentProfile{
				UserID:                user.ID,
				SSCVerificationStatus: model.CredentialPending,
				HSCVerificationStatus: model.CredentialPending,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			regNumber := fmt.Sprintf("STU%d%04d", time.Now().Year(), profile.ID)
			if err := tx.Model(&profile).Update("registration_number", regNumber).Error; err != nil {
				return err
			}
			profile.RegistrationNumber = regNumber
			user.StudentProfile = &profile

		case model.RoleUniversity:
			uniType := req.Type
			if uniType != model.UniversityTypePublic {
				uniType = model.UniversityTypePrivate
			}
			university := model.University{
				UserID:        user.ID,
				Name:          validation.SanitizeString(req.UniversityName),
				Location:      req.Location,
				Type:          uniType,
				Phone:         req.Phone,
				WebsiteURL:    req.WebsiteURL,
				ContactPerson: req.ContactPerson,
			}
			if err := tx.Create(&university).Error; err != nil {
				return err
			}
			user.University = &university
		}

		return nil
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create account", err)
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token", err)
	}
	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate refresh token", err)
	}

	res := TokenResponse{
		User:         toUserResponse(&user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    24 * 60 * 60,
	}

	return response.Created(c, "Account created successfully", res)
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Phone:      user.Phone,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
