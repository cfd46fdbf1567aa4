package services

import (
	"errors"

	"workshop-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a row lock on dialects that support it. SQLite (tests)
// serializes writers on its own; asking it for FOR UPDATE is a syntax error.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func GetItem(db *gorm.DB, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("inventory item #%d not found", id)
		}
		return nil, persistenceErr(err, "could not load inventory item")
	}
	return &item, nil
}

// ItemFilter narrows ListItems.
type ItemFilter struct {
	Search   string // matches name or SKU
	LowStock bool   // only items at or below their minimum stock
}

func ListItems(db *gorm.DB, filter ItemFilter) ([]models.InventoryItem, error) {
	q := db.Model(&models.InventoryItem{}).Order("name")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	if filter.LowStock {
		q = q.Where("quantity_on_hand <= minimum_stock")
	}
	var items []models.InventoryItem
	if err := q.Find(&items).Error; err != nil {
		return nil, persistenceErr(err, "could not load inventory items")
	}
	return items, nil
}

// ReserveAndDeduct checks stock sufficiency with a locking read and
// decrements it, all on the caller's transaction tx. The check and the
// decrement must never be split across transactions: the row lock is what
// stops two concurrent consumers from both passing the check.
//
// The caller is responsible for the paired audit entry, so one transaction
// covers both the stock change and the log row.
func ReserveAndDeduct(tx *gorm.DB, itemID uint, quantity int) (*models.InventoryItem, error) {
	if quantity <= 0 {
		return nil, validationErr("quantity must be positive, got %d", quantity)
	}

	var item models.InventoryItem
	if err := lockForUpdate(tx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("inventory item #%d not found", itemID)
		}
		return nil, persistenceErr(err, "could not lock inventory item")
	}

	if item.QuantityOnHand < quantity {
		return nil, conflictErr("Insufficient stock for %s. Available: %d, Requested: %d",
			item.Name, item.QuantityOnHand, quantity)
	}

	if err := tx.Model(&item).
		Update("quantity_on_hand", gorm.Expr("quantity_on_hand - ?", quantity)).Error; err != nil {
		return nil, persistenceErr(err, "could not deduct stock")
	}
	item.QuantityOnHand -= quantity
	return &item, nil
}

// Credit increments stock on the caller's transaction. Used by purchase
// order receipt; always succeeds for a valid item id.
func Credit(tx *gorm.DB, itemID uint, quantity int) (*models.InventoryItem, error) {
	if quantity <= 0 {
		return nil, validationErr("quantity must be positive, got %d", quantity)
	}

	var item models.InventoryItem
	if err := lockForUpdate(tx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("inventory item #%d not found", itemID)
		}
		return nil, persistenceErr(err, "could not lock inventory item")
	}

	if err := tx.Model(&item).
		Update("quantity_on_hand", gorm.Expr("quantity_on_hand + ?", quantity)).Error; err != nil {
		return nil, persistenceErr(err, "could not credit stock")
	}
	item.QuantityOnHand += quantity
	return &item, nil
}
