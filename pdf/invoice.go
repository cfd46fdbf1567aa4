// Package pdf renders printable invoice documents.
package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"

	"workshop-backend/models"
	"workshop-backend/services"

	"github.com/jung-kurt/gofpdf"
)

// RenderInvoice produces an A4 invoice PDF from the stored invoice and its
// line snapshot. It reads only the invoice row; parts are taken from the
// JSON snapshot so the document matches what was billed, not current data.
func RenderInvoice(invoice *models.Invoice) ([]byte, error) {
	var lines []services.InvoiceLine
	if len(invoice.Lines) > 0 {
		if err := json.Unmarshal(invoice.Lines, &lines); err != nil {
			return nil, fmt.Errorf("decode invoice lines: %w", err)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %d", invoice.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, fmt.Sprintf("Invoice #%d", invoice.ID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Date: "+invoice.InvoiceDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Job card: #%d", invoice.JobCardID), "", 1, "L", false, 0, "")
	if invoice.JobCard.Vehicle.RegistrationNumber != "" {
		v := invoice.JobCard.Vehicle
		pdf.CellFormat(0, 7, fmt.Sprintf("Vehicle: %s %s (%s)", v.Make, v.Model, v.RegistrationNumber), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Parts table
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Part", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines {
		pdf.CellFormat(90, 8, line.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprint(line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", line.LineTotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(150, 8, "Parts", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", invoice.PartsCost), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 8, "Labor", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", invoice.LaborCost), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(150, 9, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, fmt.Sprintf("%.2f", invoice.TotalAmount), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
