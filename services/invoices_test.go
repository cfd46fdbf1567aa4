package services

import (
	"encoding/json"
	"strings"
	"testing"

	"workshop-backend/models"
)

func TestGenerateInvoicePreconditions(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)
	driver := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, driver.Id)
	jc := seedJobCard(t, db, asActor(advisor), vehicle.ID)

	if _, err := GenerateInvoice(db, asActor(advisor), 9000); !IsKind(err, KindNotFound) {
		t.Errorf("unknown job card: expected not found, got %v", err)
	}

	_, err := GenerateInvoice(db, asActor(advisor), jc.ID)
	if !IsKind(err, KindConflict) {
		t.Fatalf("pending job card: expected conflict, got %v", err)
	}
	if se, _ := AsServiceError(err); !strings.Contains(se.Public(), "not yet completed") {
		t.Errorf("unexpected message %q", se.Public())
	}
}

func TestGenerateInvoiceLaborOnly(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)
	driver := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, driver.Id)
	jc := seedJobCard(t, db, asActor(advisor), vehicle.ID)

	if _, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status:    models.StatusCompleted,
		LaborCost: 1500,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	invoice, err := GenerateInvoice(db, asActor(advisor), jc.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if invoice.LaborCost != 1500 || invoice.PartsCost != 0 || invoice.TotalAmount != 1500 {
		t.Errorf("amounts = labor %.2f parts %.2f total %.2f, want 1500/0/1500",
			invoice.LaborCost, invoice.PartsCost, invoice.TotalAmount)
	}

	reloaded, err := GetJobCard(db, jc.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.StatusInvoiced {
		t.Errorf("job card status = %q, want invoiced", reloaded.Status)
	}
	if reloaded.CompletedAt == nil {
		t.Error("completed_at lost on invoicing")
	}

	// Second attempt finds the existing invoice and leaves exactly one row.
	_, err = GenerateInvoice(db, asActor(advisor), jc.ID)
	if !IsKind(err, KindConflict) {
		t.Fatalf("repeat: expected conflict, got %v", err)
	}
	if se, _ := AsServiceError(err); !strings.Contains(se.Public(), "already exists") {
		t.Errorf("unexpected message %q", se.Public())
	}
	var count int64
	db.Model(&models.Invoice{}).Where("job_card_id = ?", jc.ID).Count(&count)
	if count != 1 {
		t.Errorf("invoice rows = %d, want 1", count)
	}
}

func TestGenerateInvoiceWithParts(t *testing.T) {
	db := newTestDB(t)
	advisor := seedUser(t, db, models.RoleServiceAdvisor)
	driver := seedUser(t, db, models.RoleDriver)
	vehicle := seedVehicle(t, db, driver.Id)
	jc := seedJobCard(t, db, asActor(advisor), vehicle.ID)
	pads := seedItem(t, db, "PAD-100", "Brake Pad Set", 10, 10.50)
	fluid := seedItem(t, db, "FLD-100", "Brake Fluid", 10, 4.25)

	if _, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status: models.StatusAssessmentRequested,
		Parts: []PartLine{
			{ItemID: pads.ID, Quantity: 2},
			{ItemID: fluid.ID, Quantity: 3},
		},
	}); err != nil {
		t.Fatalf("assign parts: %v", err)
	}

	// Reprice the items after consumption. The invoice must bill the
	// snapshot prices, not these.
	db.Model(pads).Update("unit_price", 99.99)
	db.Model(fluid).Update("unit_price", 99.99)

	if _, err := UpdateJobCard(db, asActor(advisor), jc.ID, UpdateJobCardInput{
		Status:    models.StatusCompleted,
		LaborCost: 200,
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	invoice, err := GenerateInvoice(db, asActor(advisor), jc.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// 2 x 10.50 + 3 x 4.25 = 33.75
	if invoice.PartsCost != 33.75 {
		t.Errorf("parts cost = %.2f, want 33.75", invoice.PartsCost)
	}
	if invoice.TotalAmount != 233.75 {
		t.Errorf("total = %.2f, want 233.75", invoice.TotalAmount)
	}

	var lines []InvoiceLine
	if err := json.Unmarshal(invoice.Lines, &lines); err != nil {
		t.Fatalf("decode lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	for _, line := range lines {
		if line.UnitPrice == 99.99 {
			t.Errorf("line %s billed at repriced value, snapshot ignored", line.Name)
		}
	}

	entries, err := ListAuditEntries(db, AuditFilter{Entity: "invoice"})
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != ActionInvoiceGenerated {
		t.Errorf("expected one Invoice Generated audit entry, got %+v", entries)
	}
}
