package models

import "time"

// Job card statuses. The set is the union of what every dashboard may write;
// finance_* values are only ever reached from invoiced.
const (
	StatusPending             = "pending"
	StatusAssigned            = "assigned"
	StatusInProgress          = "in_progress"
	StatusOnHold              = "on_hold"
	StatusAssessmentRequested = "assessment_requested"
	StatusWaitingForParts     = "waiting_for_parts"
	StatusCompleted           = "completed"
	StatusCancelled           = "cancelled"
	StatusInvoiced            = "invoiced"
	StatusFinanceReceived     = "finance_received"
	StatusFinanceCancelled    = "finance_cancelled"
)

var validJobStatuses = map[string]bool{
	StatusPending:             true,
	StatusAssigned:            true,
	StatusInProgress:          true,
	StatusOnHold:              true,
	StatusAssessmentRequested: true,
	StatusWaitingForParts:     true,
	StatusCompleted:           true,
	StatusCancelled:           true,
	StatusInvoiced:            true,
	StatusFinanceReceived:     true,
	StatusFinanceCancelled:    true,
}

// ValidJobStatus reports whether s is a member of the job card status set.
func ValidJobStatus(s string) bool {
	return validJobStatuses[s]
}

// ActiveWorkStatus reports whether s implies a mechanic is actively working
// the job. Entering one of these requires an assigned mechanic.
func ActiveWorkStatus(s string) bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusOnHold, StatusWaitingForParts:
		return true
	}
	return false
}

type JobCard struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	VehicleID          uint          `json:"vehicle_id" gorm:"index;not null"`
	Vehicle            Vehicle       `json:"vehicle" gorm:"foreignKey:VehicleID"`
	Status             string        `json:"status" gorm:"type:varchar(32);not null;default:pending;index"`
	IssueDescription   string        `json:"issue_description" gorm:"type:text"`
	LaborCost          float64       `json:"labor_cost" gorm:"type:numeric(12,2)"`
	MechanicID         *string       `json:"mechanic_id" gorm:"index"`
	Mechanic           *User         `json:"mechanic,omitempty" gorm:"foreignKey:MechanicID;references:Id"`
	ServiceAdvisorID   *string       `json:"service_advisor_id"`
	ServiceAdvisor     *User         `json:"service_advisor,omitempty" gorm:"foreignKey:ServiceAdvisorID;references:Id"`
	CreatedByID        string        `json:"created_by" gorm:"not null"`
	CancellationReason string        `json:"cancellation_reason"`
	Parts              []JobCardPart `json:"parts" gorm:"foreignKey:JobCardID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	CompletedAt        *time.Time    `json:"completed_at"`
}

// JobCardPart is a consumption line. UnitPrice is a snapshot of the inventory
// price at the time of use, never a live reference; invoices are computed
// from it so historic totals survive later price edits.
type JobCardPart struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	JobCardID    uint          `json:"-" gorm:"index;not null"`
	ItemID       uint          `json:"item_id" gorm:"not null;index"`
	Item         InventoryItem `json:"-" gorm:"foreignKey:ItemID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	ItemName     string        `json:"item_name"`
	QuantityUsed int           `json:"quantity_used" gorm:"not null"`
	UnitPrice    float64       `json:"unit_price" gorm:"type:numeric(12,2)"`
	CreatedAt    time.Time     `json:"created_at"`
}
