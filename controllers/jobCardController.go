package controllers

import (
	"workshop-backend/cache"
	"workshop-backend/database"
	"workshop-backend/middlewares"
	"workshop-backend/models"
	"workshop-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type JobCardCreateDTO struct {
	VehicleID        uint   `json:"vehicle_id" validate:"required"`
	IssueDescription string `json:"issue_description" validate:"required"`
}

type JobCardUpdateDTO struct {
	Status             string              `json:"status" validate:"required"`
	LaborCost          float64             `json:"labor_cost"`
	MechanicID         *string             `json:"mechanic_id"`
	ServiceAdvisorID   *string             `json:"service_advisor_id"`
	CancellationReason string              `json:"cancellation_reason"`
	Parts              []services.PartLine `json:"parts" validate:"omitempty,dive"`
}

// POST /api/jobcard
func CreateJobCard(c *fiber.Ctx) error {
	var in JobCardCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	jc, err := services.CreateJobCard(db, actor(c), services.CreateJobCardInput{
		VehicleID:        in.VehicleID,
		IssueDescription: in.IssueDescription,
	})
	if err != nil {
		return err
	}
	cache.Invalidate(c.Context(), "reports:")
	return created(c, "job card created", jc)
}

// GET /api/jobcards
func GetJobCards(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	filter := services.JobCardFilter{
		Status:     c.Query("status"),
		MechanicID: c.Query("mechanic_id"),
	}
	act := actor(c)
	switch act.Role {
	case models.RoleDriver:
		// Drivers only ever see jobs on their own vehicles.
		filter.DriverID = act.ID
	case models.RoleMechanic:
		filter.MechanicID = act.ID
	}

	cards, err := services.ListJobCards(db, filter)
	if err != nil {
		return err
	}
	return ok(c, "success", cards)
}

// GET /api/jobcard/:id
func GetJobCard(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	jc, err := services.GetJobCard(db, id)
	if err != nil {
		return err
	}

	act := actor(c)
	if act.Role == models.RoleDriver && jc.Vehicle.DriverID != act.ID {
		return fiber.NewError(fiber.StatusForbidden, "job card does not belong to you")
	}
	return ok(c, "success", jc)
}

// PUT /api/jobcard/:id is the single status-transition endpoint every
// dashboard calls. It runs its own transaction through services.Transact
// (not the Tx middleware) because parts assignment contends on inventory
// rows and wants the bounded deadlock retry.
func UpdateJobCard(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var in JobCardUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	var jc *models.JobCard
	err = services.Transact(database.DB, func(tx *gorm.DB) error {
		var txErr error
		jc, txErr = services.UpdateJobCard(tx, actor(c), id, services.UpdateJobCardInput{
			Status:             in.Status,
			LaborCost:          in.LaborCost,
			MechanicID:         in.MechanicID,
			ServiceAdvisorID:   in.ServiceAdvisorID,
			CancellationReason: in.CancellationReason,
			Parts:              in.Parts,
		})
		return txErr
	})
	if err != nil {
		return err
	}

	cache.Invalidate(c.Context(), "reports:")
	return ok(c, "job card updated", jc)
}
