package services

import (
	"time"

	"workshop-backend/models"
	"workshop-backend/utils"

	"gorm.io/gorm"
)

// Summary is the read-only reporting aggregate. It never mutates anything;
// failures surface as empty results plus an error for the caller to log.
type Summary struct {
	JobCardsByStatus map[string]int64       `json:"job_cards_by_status"`
	InvoiceCount     int64                  `json:"invoice_count"`
	InvoiceTotal     float64                `json:"invoice_total"`
	LowStockItems    []models.InventoryItem `json:"low_stock_items"`
	From             *time.Time             `json:"from,omitempty"`
	To               *time.Time             `json:"to,omitempty"`
}

func BuildSummary(db *gorm.DB, from, to time.Time) (*Summary, error) {
	s := &Summary{JobCardsByStatus: map[string]int64{}}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := db.Model(&models.JobCard{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, persistenceErr(err, "could not count job cards")
	}
	for _, sc := range counts {
		s.JobCardsByStatus[sc.Status] = sc.Count
	}

	inv := db.Model(&models.Invoice{})
	if !from.IsZero() {
		inv = inv.Where("invoice_date >= ?", from)
		s.From = &from
	}
	if !to.IsZero() {
		inv = inv.Where("invoice_date <= ?", to)
		s.To = &to
	}
	type invoiceRollup struct {
		Count int64
		Total float64
	}
	var rollup invoiceRollup
	if err := inv.Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Scan(&rollup).Error; err != nil {
		return nil, persistenceErr(err, "could not total invoices")
	}
	s.InvoiceCount = rollup.Count
	s.InvoiceTotal = utils.Round2(rollup.Total)

	low, err := ListItems(db, ItemFilter{LowStock: true})
	if err != nil {
		return nil, err
	}
	s.LowStockItems = low

	return s, nil
}
