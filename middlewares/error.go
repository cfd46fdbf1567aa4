package middlewares

import (
	"log"

	"workshop-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Service errors map by kind; raw database error text never reaches the
// caller, only the server log.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Service errors (kind -> status)
	if se, ok := services.AsServiceError(err); ok {
		status := fiber.StatusInternalServerError
		message := se.Public()
		switch se.Kind {
		case services.KindValidation:
			status = fiber.StatusBadRequest
		case services.KindAuthorization:
			status = fiber.StatusForbidden
		case services.KindNotFound:
			status = fiber.StatusNotFound
		case services.KindConflict:
			status = fiber.StatusConflict
		case services.KindPersistence:
			log.Printf("persistence error: %v", err)
			message = "operation failed, no changes were made"
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
	}

	// 2) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
	}

	// 3) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 4) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "internal server error",
	})
}
