package controllers

import (
	"strings"

	"workshop-backend/database"
	"workshop-backend/middlewares"
	"workshop-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RegisterDTO struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// Register is the public driver self-registration. Staff accounts are
// created by an admin through CreateUser.
func Register(c *fiber.Ctx) error {
	var in RegisterDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if in.Password != in.PasswordConfirm {
		return fiber.NewError(fiber.StatusBadRequest, "passwords do not match")
	}

	var mailExist models.User
	database.DB.Where("email = ?", in.Email).First(&mailExist)
	if mailExist.Email != "" {
		return fiber.NewError(fiber.StatusBadRequest, "email already exists")
	}

	user := models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Role:      models.RoleDriver,
		Active:    true,
	}
	user.SetPassword(in.Password)
	if err := database.DB.Create(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create user")
	}

	return created(c, "registered", fiber.Map{
		"id":    user.Id,
		"name":  user.FullName(),
		"email": user.Email,
		"role":  user.Role,
	})
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(c *fiber.Ctx) error {
	var in LoginDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	var user models.User
	database.DB.Where("email = ?", in.Email).First(&user)
	if user.Id == "" || !user.Active {
		return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
	}
	if err := user.ComparePassword(in.Password); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
	}

	// Fresh CSRF token per login; it rides inside the signed JWT and must
	// be echoed in X-CSRF-Token on every mutating call.
	csrfToken := uuid.NewString()
	token, err := middlewares.GenerateJWT(user.Id, user.Role, csrfToken)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not issue token")
	}

	return ok(c, "success", fiber.Map{
		"token":      token,
		"csrf_token": csrfToken,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FullName(),
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout is stateless with bearer tokens; the client discards the token.
func Logout(c *fiber.Ctx) error {
	return ok(c, "success", nil)
}
