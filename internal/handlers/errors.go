package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cookiverse/cookiverse/internal/dto"
	"github.com/cookiverse/cookiverse/internal/services"
)

// respondError writes a service error with the status matching its kind.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrAuthentication):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrAuthorization):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrBackendUnavailable):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: services.Message(err),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
