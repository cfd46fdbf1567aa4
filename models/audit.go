package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEntry is append-only. Rows are written in the same transaction as
// the mutation they describe and are never read back for decision making.
type AuditEntry struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ActorID     string         `json:"actor_id" gorm:"size:128;index"`
	Action      string         `json:"action" gorm:"type:varchar(40);not null"`
	Entity      string         `json:"entity" gorm:"type:varchar(30);not null;index"`
	EntityID    string         `json:"entity_id" gorm:"size:64"`
	Description string         `json:"description" gorm:"type:text"`
	Metadata    datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
}
