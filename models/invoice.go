package models

import (
	"time"

	"gorm.io/datatypes"
)

// Invoice is written once by the invoice generator and never mutated.
// Lines holds a JSON snapshot of the job card's consumption lines at
// generation time, so the invoice stays reproducible even if part rows
// are later replaced.
type Invoice struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	JobCardID   uint           `json:"job_card_id" gorm:"uniqueIndex;not null"`
	JobCard     JobCard        `json:"-" gorm:"foreignKey:JobCardID"`
	LaborCost   float64        `json:"labor_cost" gorm:"type:numeric(12,2)"`
	PartsCost   float64        `json:"parts_cost" gorm:"type:numeric(12,2)"`
	TotalAmount float64        `json:"total_amount" gorm:"type:numeric(12,2)"`
	InvoiceDate time.Time      `json:"invoice_date"`
	IssuedByID  string         `json:"issued_by" gorm:"not null"`
	Lines       datatypes.JSON `json:"lines" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at"`
}
