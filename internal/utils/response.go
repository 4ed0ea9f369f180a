package utils

import (
	"errors"

	apperrors "hoaportal/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message})
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusNotFound, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// Fail maps a service error onto an HTTP response. Errors that are not
// DomainErrors are reported as a generic 500 so internals never leak.
func Fail(c *fiber.Ctx, err error) error {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		return InternalError(c, "Internal server error")
	}

	body := fiber.Map{"error": de.Message, "code": de.Code}
	if len(de.Fields) > 0 {
		body["fields"] = de.Fields
	}

	switch de.Kind {
	case apperrors.KindValidation, apperrors.KindAuthentication, apperrors.KindConflict:
		return Respond(c, fiber.StatusBadRequest, body)
	case apperrors.KindAuthorization:
		return Respond(c, fiber.StatusForbidden, body)
	case apperrors.KindNotFound:
		return Respond(c, fiber.StatusNotFound, body)
	default:
		return Respond(c, fiber.StatusInternalServerError, body)
	}
}
