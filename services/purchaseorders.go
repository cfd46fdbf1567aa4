package services

import (
	"errors"
	"fmt"
	"time"

	"workshop-backend/models"
	"workshop-backend/utils"

	"gorm.io/gorm"
)

// POLineInput is one ordered line of a purchase order.
type POLineInput struct {
	ItemID    uint    `json:"item_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

func CreatePurchaseOrder(tx *gorm.DB, actor Actor, supplierID uint, lines []POLineInput) (*models.PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, validationErr("a purchase order needs at least one line")
	}

	var supplier models.Supplier
	if err := tx.First(&supplier, supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("supplier #%d not found", supplierID)
		}
		return nil, persistenceErr(err, "could not load supplier")
	}

	po := models.PurchaseOrder{
		SupplierID:  supplierID,
		Status:      models.POStatusPending,
		CreatedByID: actor.ID,
	}
	var total float64
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, validationErr("line %d: quantity must be positive", i)
		}
		if line.UnitPrice < 0 {
			return nil, validationErr("line %d: unit price must not be negative", i)
		}
		if _, err := GetItem(tx, line.ItemID); err != nil {
			return nil, err
		}
		po.Lines = append(po.Lines, models.PurchaseOrderLine{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
		total += float64(line.Quantity) * line.UnitPrice
	}
	po.TotalCost = utils.Round2(total)

	if err := tx.Create(&po).Error; err != nil {
		return nil, persistenceErr(err, "could not create purchase order")
	}

	desc := fmt.Sprintf("Created purchase order #%d for %s (%d lines, total %.2f)",
		po.ID, supplier.CompanyName, len(po.Lines), po.TotalCost)
	if err := recordAudit(tx, actor, ActionCreated, "purchase_order", fmt.Sprint(po.ID), desc, nil); err != nil {
		return nil, err
	}
	return &po, nil
}

func GetPurchaseOrder(db *gorm.DB, id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := db.Preload("Lines").Preload("Supplier").First(&po, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("purchase order #%d not found", id)
		}
		return nil, persistenceErr(err, "could not load purchase order")
	}
	return &po, nil
}

func ListPurchaseOrders(db *gorm.DB, status string) ([]models.PurchaseOrder, error) {
	q := db.Model(&models.PurchaseOrder{}).Preload("Lines").Preload("Supplier").
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var pos []models.PurchaseOrder
	if err := q.Find(&pos).Error; err != nil {
		return nil, persistenceErr(err, "could not load purchase orders")
	}
	return pos, nil
}

// UpdatePurchaseOrderStatus moves a purchase order through its lifecycle on
// the caller's transaction. received and cancelled are terminal, which is
// the guard against double-crediting stock. On receipt every line credits
// the inventory item and the credit is logged, all in the same transaction.
func UpdatePurchaseOrderStatus(tx *gorm.DB, actor Actor, poID uint, newStatus string) (*models.PurchaseOrder, error) {
	if !models.ValidPOStatus(newStatus) {
		return nil, validationErr("unknown purchase order status %q", newStatus)
	}

	var po models.PurchaseOrder
	if err := lockForUpdate(tx).Preload("Lines").First(&po, poID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("purchase order #%d not found", poID)
		}
		return nil, persistenceErr(err, "could not lock purchase order")
	}

	if po.Status == models.POStatusReceived || po.Status == models.POStatusCancelled {
		return nil, conflictErr("purchase order #%d is already %s", po.ID, po.Status)
	}

	prevStatus := po.Status
	po.Status = newStatus

	if newStatus == models.POStatusReceived {
		now := time.Now()
		po.ReceivedAt = &now
		for _, line := range po.Lines {
			item, err := Credit(tx, line.ItemID, line.Quantity)
			if err != nil {
				return nil, err
			}
			desc := fmt.Sprintf("Received %d x %s on purchase order #%d (stock now %d)",
				line.Quantity, item.Name, po.ID, item.QuantityOnHand)
			meta := map[string]any{"item_id": item.ID, "quantity": line.Quantity, "purchase_order_id": po.ID}
			if err := recordAudit(tx, actor, ActionStockCredit, "inventory_item", fmt.Sprint(item.ID), desc, meta); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Save(&po).Error; err != nil {
		return nil, persistenceErr(err, "could not update purchase order")
	}

	desc := fmt.Sprintf("Purchase order #%d moved from %s to %s", po.ID, prevStatus, po.Status)
	if err := recordAudit(tx, actor, ActionStatusChange, "purchase_order", fmt.Sprint(po.ID), desc, nil); err != nil {
		return nil, err
	}
	return &po, nil
}
