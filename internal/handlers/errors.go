package handlers

import (
	"errors"
	"log"
	"strings"
	"unicode"

	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler translates every error returned by a handler or middleware
// into the API's fixed response shapes. With development set, unexpected
// errors carry their detail in the response.
func ErrorHandler(development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			validationErr *services.ValidationError
			duplicateErr  *services.DuplicateFieldError
			fiberErr      *fiber.Error
		)

		switch {
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationErr.Errors})
		case errors.As(err, &duplicateErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": []services.FieldError{{
				Field:   duplicateErr.Field,
				Message: capitalize(duplicateErr.Error()),
			}}})
		case errors.Is(err, services.ErrInvalidCredentials),
			errors.Is(err, services.ErrMissingToken),
			errors.Is(err, services.ErrInvalidOrExpiredToken):
			return message(c, fiber.StatusUnauthorized, capitalize(err.Error()))
		case errors.Is(err, services.ErrUnauthorized):
			return message(c, fiber.StatusUnauthorized, "Not authorized, token missing or invalid")
		case errors.Is(err, services.ErrForbidden):
			return message(c, fiber.StatusForbidden, "Access denied")
		case errors.Is(err, services.ErrUserNotFound):
			return message(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrInvalidUpload):
			detail := strings.TrimPrefix(err.Error(), services.ErrInvalidUpload.Error()+": ")
			return message(c, fiber.StatusBadRequest, capitalize(detail))
		case errors.Is(err, services.ErrUnsupportedMediaType):
			return message(c, fiber.StatusBadRequest, capitalize(err.Error()))
		case errors.As(err, &fiberErr):
			return message(c, fiberErr.Code, fiberErr.Message)
		}

		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		body := fiber.Map{"message": "Server error"}
		if development {
			body["error"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
