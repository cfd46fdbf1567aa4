package services

import (
	"errors"
	"fmt"
	"time"

	"workshop-backend/models"

	"gorm.io/gorm"
)

// CreateJobCardInput is the fixed parameter shape for job card creation,
// used both by a driver's service request and a staff quick-create.
type CreateJobCardInput struct {
	VehicleID        uint
	IssueDescription string
}

func CreateJobCard(tx *gorm.DB, actor Actor, in CreateJobCardInput) (*models.JobCard, error) {
	if in.VehicleID == 0 {
		return nil, validationErr("vehicle id is required")
	}

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, in.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("vehicle #%d not found", in.VehicleID)
		}
		return nil, persistenceErr(err, "could not load vehicle")
	}

	// Drivers may only open job cards against their own vehicles.
	if actor.Role == models.RoleDriver && vehicle.DriverID != actor.ID {
		return nil, newErr(KindAuthorization, "vehicle #%d does not belong to you", in.VehicleID)
	}

	jc := models.JobCard{
		VehicleID:        in.VehicleID,
		Status:           models.StatusPending,
		IssueDescription: in.IssueDescription,
		CreatedByID:      actor.ID,
	}
	if err := tx.Create(&jc).Error; err != nil {
		return nil, persistenceErr(err, "could not create job card")
	}

	desc := fmt.Sprintf("Opened job card #%d for vehicle %s", jc.ID, vehicle.RegistrationNumber)
	if err := recordAudit(tx, actor, ActionCreated, "job_card", fmt.Sprint(jc.ID), desc, nil); err != nil {
		return nil, err
	}
	return &jc, nil
}

func GetJobCard(db *gorm.DB, id uint) (*models.JobCard, error) {
	var jc models.JobCard
	err := db.Preload("Parts").Preload("Vehicle").
		Preload("Mechanic").Preload("ServiceAdvisor").
		First(&jc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("job card #%d not found", id)
		}
		return nil, persistenceErr(err, "could not load job card")
	}
	return &jc, nil
}

// JobCardFilter narrows ListJobCards. Zero values mean "no filter".
type JobCardFilter struct {
	Status     string
	MechanicID string
	VehicleID  uint
	DriverID   string // restricts to job cards on the driver's own vehicles
}

func ListJobCards(db *gorm.DB, filter JobCardFilter) ([]models.JobCard, error) {
	q := db.Model(&models.JobCard{}).Preload("Parts").Preload("Vehicle").
		Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.MechanicID != "" {
		q = q.Where("mechanic_id = ?", filter.MechanicID)
	}
	if filter.VehicleID != 0 {
		q = q.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.DriverID != "" {
		q = q.Where("vehicle_id IN (?)",
			db.Model(&models.Vehicle{}).Select("id").Where("driver_id = ?", filter.DriverID))
	}
	var cards []models.JobCard
	if err := q.Find(&cards).Error; err != nil {
		return nil, persistenceErr(err, "could not load job cards")
	}
	return cards, nil
}

// PartLine is one requested consumption line.
type PartLine struct {
	ItemID   uint `json:"item_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

// UpdateJobCardInput is the fixed parameter shape for a status transition.
// MechanicID/ServiceAdvisorID are always written through: nil clears the
// assignment, it is never preserved implicitly. A nil/empty Parts slice
// leaves the consumption lines untouched; a non-empty one replaces them
// wholesale.
type UpdateJobCardInput struct {
	Status             string
	LaborCost          float64
	MechanicID         *string
	ServiceAdvisorID   *string
	CancellationReason string
	Parts              []PartLine
}

// UpdateJobCard runs the whole transition on the caller's transaction:
// status, labor cost, assignments, completion timestamp, optional parts
// replacement and the audit entry commit together or not at all.
//
// Policy (enforced uniformly): entering assigned, in_progress, on_hold or
// waiting_for_parts requires a mechanic in the same request.
func UpdateJobCard(tx *gorm.DB, actor Actor, jobCardID uint, in UpdateJobCardInput) (*models.JobCard, error) {
	if !models.ValidJobStatus(in.Status) {
		return nil, validationErr("unknown job card status %q", in.Status)
	}
	if in.LaborCost < 0 {
		return nil, validationErr("labor cost must not be negative")
	}
	if models.ActiveWorkStatus(in.Status) && in.MechanicID == nil {
		return nil, conflictErr("status %q requires an assigned mechanic", in.Status)
	}

	// Row lock on the job card serializes concurrent updates against the
	// same job, including concurrent parts assignment.
	var jc models.JobCard
	if err := lockForUpdate(tx).First(&jc, jobCardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("job card #%d not found", jobCardID)
		}
		return nil, persistenceErr(err, "could not lock job card")
	}
	prevStatus := jc.Status

	if in.MechanicID != nil {
		if err := ensureRole(tx, *in.MechanicID, models.RoleMechanic, "mechanic"); err != nil {
			return nil, err
		}
	}
	if in.ServiceAdvisorID != nil {
		if err := ensureRole(tx, *in.ServiceAdvisorID, models.RoleServiceAdvisor, "service advisor"); err != nil {
			return nil, err
		}
	}

	jc.Status = in.Status
	jc.LaborCost = in.LaborCost
	jc.MechanicID = in.MechanicID
	jc.ServiceAdvisorID = in.ServiceAdvisorID
	jc.CancellationReason = in.CancellationReason

	// completed_at tracks the completed status only. Regressing out of
	// completed wipes the timestamp, even transiently.
	if in.Status == models.StatusCompleted {
		now := time.Now()
		jc.CompletedAt = &now
	} else {
		jc.CompletedAt = nil
	}

	if err := tx.Save(&jc).Error; err != nil {
		return nil, persistenceErr(err, "could not update job card")
	}

	if len(in.Parts) > 0 {
		if err := replaceParts(tx, actor, &jc, in.Parts); err != nil {
			return nil, err
		}
	}

	desc := fmt.Sprintf("Job card #%d moved from %s to %s", jc.ID, prevStatus, jc.Status)
	meta := map[string]any{"from": prevStatus, "to": jc.Status, "labor_cost": jc.LaborCost}
	if err := recordAudit(tx, actor, ActionStatusChange, "job_card", fmt.Sprint(jc.ID), desc, meta); err != nil {
		return nil, err
	}

	return GetJobCard(tx, jc.ID)
}

func ensureRole(tx *gorm.DB, userID, role, label string) error {
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationErr("%s %s not found", label, userID)
		}
		return persistenceErr(err, "could not load user")
	}
	if user.Role != role || !user.Active {
		return validationErr("user %s is not an active %s", userID, label)
	}
	return nil
}

// replaceParts deletes the job card's existing consumption lines and writes
// the requested ones, deducting stock per line. Lines are replaced
// wholesale, never diffed. Any failure aborts the caller's transaction, so
// a partial parts list is not a reachable end state. The caller must hold
// the job card row lock.
func replaceParts(tx *gorm.DB, actor Actor, jc *models.JobCard, lines []PartLine) error {
	if err := tx.Where("job_card_id = ?", jc.ID).Delete(&models.JobCardPart{}).Error; err != nil {
		return persistenceErr(err, "could not clear job card parts")
	}

	type lineMeta struct {
		ItemID   uint    `json:"item_id"`
		Name     string  `json:"name"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"unit_price"`
	}
	metas := make([]lineMeta, 0, len(lines))

	for _, line := range lines {
		item, err := ReserveAndDeduct(tx, line.ItemID, line.Quantity)
		if err != nil {
			return err
		}
		part := models.JobCardPart{
			JobCardID:    jc.ID,
			ItemID:       item.ID,
			ItemName:     item.Name,
			QuantityUsed: line.Quantity,
			UnitPrice:    item.UnitPrice, // price captured at time of use
		}
		if err := tx.Create(&part).Error; err != nil {
			return persistenceErr(err, "could not record part consumption")
		}
		metas = append(metas, lineMeta{ItemID: item.ID, Name: item.Name, Quantity: line.Quantity, Price: item.UnitPrice})
	}

	desc := fmt.Sprintf("Assigned %d part line(s) to job card #%d", len(lines), jc.ID)
	return recordAudit(tx, actor, ActionPartsAssignment, "job_card", fmt.Sprint(jc.ID), desc, metas)
}
