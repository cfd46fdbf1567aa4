package models

import "time"

// InventoryItem stock is only ever changed by job-card part consumption
// (decrement) and purchase-order receipt (increment); both go through the
// inventory service inside the caller's transaction.
type InventoryItem struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	SKU            string    `json:"sku" gorm:"uniqueIndex;not null"`
	QuantityOnHand int       `json:"quantity_on_hand" gorm:"not null;default:0"`
	UnitPrice      float64   `json:"unit_price" gorm:"type:numeric(12,2)"`
	MinimumStock   int       `json:"minimum_stock" gorm:"default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
