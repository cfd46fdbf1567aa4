package services

import (
	"strings"
	"testing"

	"workshop-backend/models"

	"gorm.io/gorm"
)

func TestCreateJobCardDriverOwnVehicleOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, models.RoleDriver)
	other := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, owner.Id)

	if _, err := CreateJobCard(db, asActor(other), CreateJobCardInput{VehicleID: vehicle.ID, IssueDescription: "noise"}); !IsKind(err, KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	jc, err := CreateJobCard(db, asActor(owner), CreateJobCardInput{VehicleID: vehicle.ID, IssueDescription: "noise"})
	if err != nil {
		t.Fatalf("owner create: %v", err)
	}
	if jc.Status != models.StatusPending {
		t.Errorf("new job card status = %q, want pending", jc.Status)
	}

	entries, err := ListAuditEntries(db, AuditFilter{Entity: "job_card"})
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != ActionCreated {
		t.Errorf("expected one Created audit entry, got %+v", entries)
	}
}

func TestCreateJobCardUnknownVehicle(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)

	if _, err := CreateJobCard(db, asActor(advisor), CreateJobCardInput{VehicleID: 777}); !IsKind(err, KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateJobCardValidation(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)
	driver := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, driver.Id)
	jc := seedJobCard(t, db, asActor(advisor), vehicle.ID)

	if _, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{Status: "repaired"}); !IsKind(err, KindValidation) {
		t.Errorf("unknown status: expected validation error, got %v", err)
	}
	if _, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{Status: models.StatusCompleted, LaborCost: -1}); !IsKind(err, KindValidation) {
		t.Errorf("negative labor: expected validation error, got %v", err)
	}
	if _, err := UpdateJobCard(db, asActor(advisor), 404, UpdateJobCardInput{Status: models.StatusCompleted}); !IsKind(err, KindNotFound) {
		t.Errorf("missing job card: expected not found, got %v", err)
	}
}

func TestUpdateJobCardActiveWorkRequiresMechanic(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)
	mechanic := seedUser(t, db, models.RoleMechanic)
	driver := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, driver.Id)
	jc := seedJobCard(t, db, asActor(advisor), vehicle.ID)

	for _, status := range []string{
		models.StatusAssigned, models.StatusInProgress,
		models.StatusOnHold, models.StatusWaitingForParts,
	} {
		if _, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{Status: status}); !IsKind(err, KindConflict) {
			t.Errorf("%s without mechanic: expected conflict, got %v", status, err)
		}
	}

	// A non-mechanic user cannot fill the mechanic slot.
	if _, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status:     models.StatusAssigned,
		MechanicID: &advisor.Id,
	}); !IsKind(err, KindValidation) {
		t.Errorf("advisor as mechanic: expected validation error, got %v", err)
	}

	updated, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status:     models.StatusAssigned,
		MechanicID: &mechanic.Id,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if updated.MechanicID == nil || *updated.MechanicID != mechanic.Id {
		t.Errorf("mechanic not stored: %+v", updated.MechanicID)
	}
}

func TestUpdateJobCardAssignmentsRewrittenEachRequest(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)
	mechanic := seedUser(t, db, models.RoleMechanic)
	driver := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, driver.Id)
	jc := seedJobCard(t, db, asActor(advisor), vehicle.ID)

	if _, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status:     models.StatusInProgress,
		MechanicID: &mechanic.Id,
	}); err != nil {
		t.Fatalf("start work: %v", err)
	}

	// Omitting the mechanic on a non-active status clears the assignment.
	updated, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status: models.StatusAssessmentRequested,
	})
	if err != nil {
		t.Fatalf("back to assessment: %v", err)
	}
	if updated.MechanicID != nil {
		t.Errorf("mechanic should have been cleared, got %v", *updated.MechanicID)
	}
}

func TestUpdateJobCardCompletedAtLifecycle(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)
	mechanic := seedUser(t, db, models.RoleMechanic)
	driver := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, driver.Id)
	jc := seedJobCard(t, db, asActor(advisor), vehicle.ID)

	completed, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status:    models.StatusCompleted,
		LaborCost: 1500,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.CompletedAt == nil {
		t.Fatal("completed_at not set on completion")
	}

	reopened, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status:     models.StatusInProgress,
		LaborCost:  1500,
		MechanicID: &mechanic.Id,
	})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.CompletedAt != nil {
		t.Errorf("completed_at should be cleared on regression, got %v", reopened.CompletedAt)
	}

	again, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status:    models.StatusCompleted,
		LaborCost: 1500,
	})
	if err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if again.CompletedAt == nil {
		t.Error("completed_at not set on re-completion")
	}
}

func TestUpdateJobCardPartsReplacement(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)
	driver := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, driver.Id)
	jc := seedJobCard(t, db, asActor(advisor), vehicle.ID)
	pads := seedItem(t, db, "PAD-001", "Brake Pad Set", 10, 10.50)
	fluid := seedItem(t, db, "FLD-001", "Brake Fluid", 6, 4.25)

	updated, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status: models.StatusAssessmentRequested,
		Parts:  []PartLine{{ItemID: pads.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("first assignment: %v", err)
	}
	if len(updated.Parts) != 1 || updated.Parts[0].QuantityUsed != 2 {
		t.Fatalf("parts after first assignment: %+v", updated.Parts)
	}
	if updated.Parts[0].UnitPrice != 10.50 {
		t.Errorf("unit price snapshot = %v, want 10.50", updated.Parts[0].UnitPrice)
	}
	if got := itemStock(t, db, pads.ID); got != 8 {
		t.Errorf("pads stock = %d, want 8", got)
	}

	// Replacing the list wholesale does not credit back the dropped lines.
	updated, err = UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status: models.StatusAssessmentRequested,
		Parts:  []PartLine{{ItemID: fluid.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("replacement: %v", err)
	}
	if len(updated.Parts) != 1 || updated.Parts[0].ItemID != fluid.ID {
		t.Fatalf("parts after replacement: %+v", updated.Parts)
	}
	if got := itemStock(t, db, pads.ID); got != 8 {
		t.Errorf("pads stock after replacement = %d, want 8 (no credit back)", got)
	}
	if got := itemStock(t, db, fluid.ID); got != 3 {
		t.Errorf("fluid stock = %d, want 3", got)
	}
}

// A failing line anywhere in the parts list rolls back the whole update:
// prior lines, stock levels and the job card row all stay as they were.
func TestUpdateJobCardPartsFailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)
	driver := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, driver.Id)
	jc := seedJobCard(t, db, asActor(advisor), vehicle.ID)
	pads := seedItem(t, db, "PAD-002", "Brake Pad Set", 10, 10.50)
	scarce := seedItem(t, db, "SCR-001", "Caliper Kit", 1, 80.00)

	mechanic := seedUser(t, db, models.RoleMechanic)

	if _, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status: models.StatusAssessmentRequested,
		Parts:  []PartLine{{ItemID: pads.ID, Quantity: 2}},
	}); err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	err := Transact(db, func(tx *gorm.DB) error {
		_, err := UpdateJobCard(tx, asActor(advisor), jc.ID, UpdateJobCardInput{
			Status:     models.StatusInProgress,
			MechanicID: &mechanic.Id,
			Parts: []PartLine{
				{ItemID: pads.ID, Quantity: 1},
				{ItemID: scarce.ID, Quantity: 5},
			},
		})
		return err
	})
	if !IsKind(err, KindConflict) {
		t.Fatalf("expected stock conflict, got %v", err)
	}
	if se, _ := AsServiceError(err); !strings.Contains(se.Public(), "Insufficient stock") {
		t.Errorf("unexpected message %q", se.Public())
	}

	reloaded, err := GetJobCard(db, jc.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.StatusAssessmentRequested {
		t.Errorf("status changed despite rollback: %q", reloaded.Status)
	}
	if len(reloaded.Parts) != 1 || reloaded.Parts[0].ItemID != pads.ID || reloaded.Parts[0].QuantityUsed != 2 {
		t.Errorf("parts changed despite rollback: %+v", reloaded.Parts)
	}
	if got := itemStock(t, db, pads.ID); got != 8 {
		t.Errorf("pads stock = %d, want 8", got)
	}
	if got := itemStock(t, db, scarce.ID); got != 1 {
		t.Errorf("scarce stock = %d, want 1", got)
	}
}
