package controllers

import (
	"errors"

	"workshop-backend/database"
	"workshop-backend/middlewares"
	"workshop-backend/models"
	"workshop-backend/services"
	"workshop-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ItemCreateDTO struct {
	Name           string  `json:"name" validate:"required"`
	SKU            string  `json:"sku" validate:"required"`
	QuantityOnHand int     `json:"quantity_on_hand" validate:"gte=0"`
	UnitPrice      float64 `json:"unit_price" validate:"gte=0"`
	MinimumStock   int     `json:"minimum_stock" validate:"gte=0"`
}

// ItemUpdateDTO deliberately has no quantity field: stock only moves
// through job-card consumption and purchase-order receipt.
type ItemUpdateDTO struct {
	Name         *string  `json:"name"`
	UnitPrice    *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	MinimumStock *int     `json:"minimum_stock" validate:"omitempty,gte=0"`
}

// POST /api/item
func CreateItem(c *fiber.Ctx) error {
	var in ItemCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	item := models.InventoryItem{
		Name:           in.Name,
		SKU:            in.SKU,
		QuantityOnHand: in.QuantityOnHand,
		UnitPrice:      in.UnitPrice,
		MinimumStock:   in.MinimumStock,
	}
	if err := db.Create(&item).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create inventory item (SKU taken?)")
	}
	return created(c, "item created", item)
}

// GET /api/items
func GetItems(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	items, err := services.ListItems(db, services.ItemFilter{
		Search:   c.Query("search"),
		LowStock: c.QueryBool("low_stock"),
	})
	if err != nil {
		return err
	}
	return ok(c, "success", items)
}

// GET /api/item/:id
func GetItem(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	item, err := services.GetItem(db, id)
	if err != nil {
		return err
	}
	return ok(c, "success", item)
}

// PUT /api/item/:id
func UpdateItem(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var in ItemUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	var existing models.InventoryItem
	if err := db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "inventory item not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not load inventory item")
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) == 0 {
		return ok(c, "nothing to update", existing)
	}
	if err := db.Model(&existing).Updates(updates).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not update inventory item")
	}

	var out models.InventoryItem
	if err := db.First(&out, id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reload inventory item")
	}
	return ok(c, "item updated", out)
}
