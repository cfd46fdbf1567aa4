package controllers

import (
	"strconv"
	"strings"

	"workshop-backend/services"

	"github.com/gofiber/fiber/v2"
)

// All responses use the {success, message, data?} envelope.

func ok(c *fiber.Ctx, message string, data any) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(body)
}

func created(c *fiber.Ctx, message string, data any) error {
	c.Status(fiber.StatusCreated)
	return ok(c, message, data)
}

// actor builds the request-scoped caller identity from the verified token
// claims stashed by the auth middleware.
func actor(c *fiber.Ctx) services.Actor {
	userID, _ := c.Locals("userID").(string)
	role, _ := c.Locals("role").(string)
	return services.Actor{ID: userID, Role: role}
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" in path")
	}
	return uint(n), nil
}
