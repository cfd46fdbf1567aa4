package controllers

import (
	"strings"

	"workshop-backend/database"
	"workshop-backend/middlewares"
	"workshop-backend/models"

	"github.com/gofiber/fiber/v2"
)

type UserCreateDTO struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required"`
}

// CreateUser lets an admin create staff accounts (mechanics, advisors,
// parts managers, ...).
func CreateUser(c *fiber.Ctx) error {
	var in UserCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if !models.ValidRole(in.Role) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown role "+in.Role)
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	user := models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Role:      in.Role,
		Active:    true,
	}
	user.SetPassword(in.Password)
	if err := db.Create(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create user (email taken?)")
	}

	return created(c, "user created", fiber.Map{
		"id":    user.Id,
		"name":  user.FullName(),
		"email": user.Email,
		"role":  user.Role,
	})
}

// GetUsers lists users, optionally by role; dashboards use it to populate
// mechanic and advisor pickers.
func GetUsers(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	q := db.Model(&models.User{}).Where("active = ?", true).Order("first_name")
	if role := c.Query("role"); role != "" {
		if !models.ValidRole(role) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown role "+role)
		}
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load users")
	}
	return ok(c, "success", users)
}
