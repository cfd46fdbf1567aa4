package controllers

import (
	"errors"
	"strings"

	"workshop-backend/database"
	"workshop-backend/middlewares"
	"workshop-backend/models"
	"workshop-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VehicleCreateDTO struct {
	Make               string `json:"make" validate:"required"`
	Model              string `json:"model" validate:"required"`
	RegistrationNumber string `json:"registration_number" validate:"required"`
	Year               int    `json:"year" validate:"omitempty,gte=1900"`
	Color              string `json:"color"`
	Mileage            int    `json:"mileage" validate:"gte=0"`
	DriverID           string `json:"driver_id"` // staff may register on behalf of a driver
}

type VehicleUpdateDTO struct {
	Color    *string `json:"color"`
	Mileage  *int    `json:"mileage" validate:"omitempty,gte=0"`
	DriverID *string `json:"driver_id"` // ownership transfer
}

// POST /api/vehicle
func CreateVehicle(c *fiber.Ctx) error {
	var in VehicleCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	act := actor(c)
	driverID := strings.TrimSpace(in.DriverID)
	// Drivers always register vehicles under themselves.
	if act.Role == models.RoleDriver || driverID == "" {
		driverID = act.ID
	}

	vehicle := models.Vehicle{
		Make:               strings.TrimSpace(in.Make),
		Model:              strings.TrimSpace(in.Model),
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		Year:               in.Year,
		Color:              strings.TrimSpace(in.Color),
		Mileage:            in.Mileage,
		DriverID:           driverID,
	}
	if err := db.Create(&vehicle).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create vehicle (registration number taken?)")
	}
	return created(c, "vehicle created", vehicle)
}

// GET /api/vehicles
func GetVehicles(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	q := db.Model(&models.Vehicle{}).Order("registration_number")
	act := actor(c)
	if act.Role == models.RoleDriver {
		q = q.Where("driver_id = ?", act.ID)
	}

	var vehicles []models.Vehicle
	if err := q.Find(&vehicles).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load vehicles")
	}
	return ok(c, "success", vehicles)
}

// GET /api/vehicle/:id
func GetVehicle(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var vehicle models.Vehicle
	if err := db.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "vehicle not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not load vehicle")
	}

	act := actor(c)
	if act.Role == models.RoleDriver && vehicle.DriverID != act.ID {
		return fiber.NewError(fiber.StatusForbidden, "vehicle does not belong to you")
	}
	return ok(c, "success", vehicle)
}

// PUT /api/vehicle/:id applies mileage/color/ownership edits. Only
// provided fields are written.
func UpdateVehicle(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var in VehicleUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var existing models.Vehicle
	if err := db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "vehicle not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not load vehicle")
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) == 0 {
		return ok(c, "nothing to update", existing)
	}
	if err := db.Model(&existing).Updates(updates).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not update vehicle")
	}

	var out models.Vehicle
	if err := db.First(&out, id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reload vehicle")
	}
	return ok(c, "vehicle updated", out)
}
