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

type POCreateDTO struct {
	SupplierID uint                   `json:"supplier_id" validate:"required"`
	Lines      []services.POLineInput `json:"lines" validate:"required,min=1,dive"`
}

type POStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

// POST /api/purchase-order
func CreatePurchaseOrder(c *fiber.Ctx) error {
	var in POCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	po, err := services.CreatePurchaseOrder(db, actor(c), in.SupplierID, in.Lines)
	if err != nil {
		return err
	}
	return created(c, "purchase order created", po)
}

// GET /api/purchase-orders
func GetPurchaseOrders(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	pos, err := services.ListPurchaseOrders(db, c.Query("status"))
	if err != nil {
		return err
	}
	return ok(c, "success", pos)
}

// GET /api/purchase-order/:id
func GetPurchaseOrder(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	po, err := services.GetPurchaseOrder(db, id)
	if err != nil {
		return err
	}
	return ok(c, "success", po)
}

// PUT /api/purchase-order/:id/status runs its own retrying transaction:
// receipt credits inventory rows, which can contend with concurrent
// job-card deductions on the same parts.
func UpdatePurchaseOrderStatus(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var in POStatusDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	var po *models.PurchaseOrder
	err = services.Transact(database.DB, func(tx *gorm.DB) error {
		var txErr error
		po, txErr = services.UpdatePurchaseOrderStatus(tx, actor(c), id, in.Status)
		return txErr
	})
	if err != nil {
		return err
	}

	cache.Invalidate(c.Context(), "reports:")
	return ok(c, "purchase order updated", po)
}
