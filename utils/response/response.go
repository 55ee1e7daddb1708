package response

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the standard API envelope: {success, message?, data?, count?, error?}
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a 200 response with data
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage returns a 200 response with a message and data
func SuccessWithMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns a 200 response with data and a count field
func List(c *fiber.Ctx, count int, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Count:   &count,
		Data:    data,
	})
}

// Created returns a 201 Created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error returns a failure envelope with the given status code
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Message: message,
	})
}

// ErrorWithDetail returns a failure envelope carrying the raw error detail
func ErrorWithDetail(c *fiber.Ctx, statusCode int, message string, err error) error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized returns a 401 Unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized access"
	}
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden returns a 403 Forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Access denied"
	}
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict returns a 409 Conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// ConflictWithData returns a 409 Conflict response carrying extra data,
// such as the eligibility reasons behind a refused application
func ConflictWithData(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusConflict).JSON(Response{
		Success: false,
		Message: message,
		Data:    data,
	})
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Too many requests"
	}
	return Error(c, fiber.StatusTooManyRequests, message)
}

// ValidationError returns a 400 response for validation failures
func ValidationError(c *fiber.Ctx, err error) error {
	return ErrorWithDetail(c, fiber.StatusBadRequest, "Validation failed", err)
}

// InternalServerError returns a 500 response. The raw error detail is
// included, which is acceptable for the current non-hardened deployment.
func InternalServerError(c *fiber.Ctx, message string, err error) error {
	if message == "" {
		message = "Internal server error"
	}
	return ErrorWithDetail(c, fiber.StatusInternalServerError, message, err)
}
