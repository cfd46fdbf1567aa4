package services

import (
	"encoding/json"

	"workshop-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit actions. Human-readable on purpose: the log is read by people,
// not by code.
const (
	ActionCreated          = "Created"
	ActionUpdated          = "Updated"
	ActionStatusChange     = "Status Change"
	ActionPartsAssignment  = "Parts Assignment"
	ActionStockCredit      = "Stock Credit"
	ActionInvoiceGenerated = "Invoice Generated"
)

// recordAudit appends an audit entry in the caller's transaction so the
// mutation and its log row commit or roll back together. meta may be nil.
func recordAudit(tx *gorm.DB, actor Actor, action, entity, entityID, description string, meta any) error {
	entry := models.AuditEntry{
		ActorID:     actor.ID,
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		Description: description,
	}
	if meta != nil {
		raw, err := json.Marshal(meta)
		if err != nil {
			return persistenceErr(err, "could not encode audit metadata")
		}
		entry.Metadata = datatypes.JSON(raw)
	}
	if err := tx.Create(&entry).Error; err != nil {
		return persistenceErr(err, "could not write audit entry")
	}
	return nil
}

// AuditFilter narrows ListAuditEntries.
type AuditFilter struct {
	Entity   string
	EntityID string
	Limit    int
}

func ListAuditEntries(db *gorm.DB, filter AuditFilter) ([]models.AuditEntry, error) {
	q := db.Model(&models.AuditEntry{}).Order("created_at DESC")
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.AuditEntry
	if err := q.Limit(limit).Find(&entries).Error; err != nil {
		return nil, persistenceErr(err, "could not load audit entries")
	}
	return entries, nil
}
