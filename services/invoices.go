package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"workshop-backend/models"
	"workshop-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceLine is one element of the JSON snapshot stored on an invoice.
type InvoiceLine struct {
	ItemID    uint    `json:"item_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// GenerateInvoice derives an invoice from a completed job card and advances
// the job card to invoiced, all on the caller's transaction. Preconditions
// are checked in order, first failure wins: the job card must exist, must
// be completed, and must not already be invoiced.
//
// Parts cost comes from the consumption lines' price snapshots, not from
// current inventory prices.
func GenerateInvoice(tx *gorm.DB, actor Actor, jobCardID uint) (*models.Invoice, error) {
	var jc models.JobCard
	err := lockForUpdate(tx).Preload("Parts").First(&jc, jobCardID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("job card #%d not found", jobCardID)
		}
		return nil, persistenceErr(err, "could not load job card")
	}

	if jc.Status != models.StatusCompleted {
		return nil, conflictErr("job card #%d is not yet completed", jc.ID)
	}

	var count int64
	if err := tx.Model(&models.Invoice{}).Where("job_card_id = ?", jc.ID).Count(&count).Error; err != nil {
		return nil, persistenceErr(err, "could not check for existing invoice")
	}
	if count > 0 {
		return nil, conflictErr("an invoice for job card #%d already exists", jc.ID)
	}

	var partsCost float64
	lines := make([]InvoiceLine, 0, len(jc.Parts))
	for _, p := range jc.Parts {
		total := utils.Round2(float64(p.QuantityUsed) * p.UnitPrice)
		partsCost += total
		lines = append(lines, InvoiceLine{
			ItemID:    p.ItemID,
			Name:      p.ItemName,
			Quantity:  p.QuantityUsed,
			UnitPrice: p.UnitPrice,
			LineTotal: total,
		})
	}
	partsCost = utils.Round2(partsCost)

	snapshot, err := json.Marshal(lines)
	if err != nil {
		return nil, persistenceErr(err, "could not encode invoice lines")
	}

	invoice := models.Invoice{
		JobCardID:   jc.ID,
		LaborCost:   jc.LaborCost,
		PartsCost:   partsCost,
		TotalAmount: utils.Round2(jc.LaborCost + partsCost),
		InvoiceDate: time.Now(),
		IssuedByID:  actor.ID,
		Lines:       datatypes.JSON(snapshot),
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, persistenceErr(err, "could not create invoice")
	}

	// The job card keeps its completion timestamp: invoiced is only ever
	// reached from completed, and the invoice date records when billing
	// happened.
	if err := tx.Model(&jc).Update("status", models.StatusInvoiced).Error; err != nil {
		return nil, persistenceErr(err, "could not advance job card to invoiced")
	}

	desc := fmt.Sprintf("Invoice #%d generated for job card #%d (total %.2f)", invoice.ID, jc.ID, invoice.TotalAmount)
	meta := map[string]any{"labor_cost": invoice.LaborCost, "parts_cost": invoice.PartsCost, "total_amount": invoice.TotalAmount}
	if err := recordAudit(tx, actor, ActionInvoiceGenerated, "invoice", fmt.Sprint(invoice.ID), desc, meta); err != nil {
		return nil, err
	}

	return &invoice, nil
}

func GetInvoice(db *gorm.DB, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := db.Preload("JobCard").Preload("JobCard.Vehicle").First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("invoice #%d not found", id)
		}
		return nil, persistenceErr(err, "could not load invoice")
	}
	return &invoice, nil
}

// InvoiceFilter narrows ListInvoices by invoice date.
type InvoiceFilter struct {
	From time.Time
	To   time.Time
}

func ListInvoices(db *gorm.DB, filter InvoiceFilter) ([]models.Invoice, error) {
	q := db.Model(&models.Invoice{}).Order("invoice_date DESC")
	if !filter.From.IsZero() {
		q = q.Where("invoice_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("invoice_date <= ?", filter.To)
	}
	var invoices []models.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		return nil, persistenceErr(err, "could not load invoices")
	}
	return invoices, nil
}
