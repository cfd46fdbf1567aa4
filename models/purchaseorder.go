package models

import "time"

// Purchase order statuses. received and cancelled are terminal; a received
// order can never be received again, which is what keeps stock from being
// credited twice.
const (
	POStatusPending   = "pending"
	POStatusOrdered   = "ordered"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

var validPOStatuses = map[string]bool{
	POStatusPending:   true,
	POStatusOrdered:   true,
	POStatusReceived:  true,
	POStatusCancelled: true,
}

// ValidPOStatus reports whether s is a member of the purchase order status set.
func ValidPOStatus(s string) bool {
	return validPOStatuses[s]
}

type PurchaseOrder struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	SupplierID  uint                `json:"supplier_id" gorm:"index;not null"`
	Supplier    Supplier            `json:"supplier" gorm:"foreignKey:SupplierID"`
	Status      string              `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	TotalCost   float64             `json:"total_cost" gorm:"type:numeric(12,2)"`
	CreatedByID string              `json:"created_by" gorm:"not null"`
	Lines       []PurchaseOrderLine `json:"lines" gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	ReceivedAt  *time.Time          `json:"received_at"`
}

type PurchaseOrderLine struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	PurchaseOrderID uint          `json:"-" gorm:"index;not null"`
	ItemID          uint          `json:"item_id" gorm:"not null;index"`
	Item            InventoryItem `json:"-" gorm:"foreignKey:ItemID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Quantity        int           `json:"quantity" gorm:"not null"`
	UnitPrice       float64       `json:"unit_price" gorm:"type:numeric(12,2)"`
}
