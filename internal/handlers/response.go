package handlers

import (
	"errors"
	"fmt"

	"artisanconnect/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidSignature):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrAlreadyVerified):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error, message string) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validate runs struct validation and writes the 400 response on failure.
// It reports whether the request may proceed.
func validate(c *fiber.Ctx, v *validator.Validate, req interface{}) (bool, error) {
	err := v.Struct(req)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, invalidBody(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
