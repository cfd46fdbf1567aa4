package controllers

import (
	"fmt"
	"time"

	"workshop-backend/cache"
	"workshop-backend/database"
	"workshop-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const summaryCacheTTL = 5 * time.Minute

// GET /api/reports/summary?from=...&to=...
// Read-only aggregates; cached in Redis when configured, invalidated by
// every mutating endpoint that changes what the summary would show.
func GetSummary(c *fiber.Ctx) error {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		to = t.Add(24*time.Hour - time.Second)
	}

	cacheKey := fmt.Sprintf("reports:summary:%s:%s", c.Query("from"), c.Query("to"))
	var cached services.Summary
	if cache.GetJSON(c.Context(), cacheKey, &cached) {
		return ok(c, "success", cached)
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	summary, err := services.BuildSummary(db, from, to)
	if err != nil {
		return err
	}
	cache.SetJSON(c.Context(), cacheKey, summary, summaryCacheTTL)
	return ok(c, "success", summary)
}

// GET /api/reports/jobcards/export streams the job card ledger as an XLSX
// workbook.
func ExportJobCards(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	cards, err := services.ListJobCards(db, services.JobCardFilter{Status: c.Query("status")})
	if err != nil {
		return err
	}

	file := excelize.NewFile()
	sheet := "Job Cards"
	file.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Vehicle", "Status", "Labor Cost", "Parts Cost", "Created At", "Completed At"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		file.SetCellValue(sheet, col+"1", h)
	}

	for i, jc := range cards {
		row := i + 2
		var partsCost float64
		for _, p := range jc.Parts {
			partsCost += float64(p.QuantityUsed) * p.UnitPrice
		}
		completed := ""
		if jc.CompletedAt != nil {
			completed = jc.CompletedAt.Format("2006-01-02 15:04")
		}
		file.SetCellValue(sheet, fmt.Sprintf("A%d", row), jc.ID)
		file.SetCellValue(sheet, fmt.Sprintf("B%d", row), jc.Vehicle.RegistrationNumber)
		file.SetCellValue(sheet, fmt.Sprintf("C%d", row), jc.Status)
		file.SetCellValue(sheet, fmt.Sprintf("D%d", row), jc.LaborCost)
		file.SetCellValue(sheet, fmt.Sprintf("E%d", row), partsCost)
		file.SetCellValue(sheet, fmt.Sprintf("F%d", row), jc.CreatedAt.Format("2006-01-02 15:04"))
		file.SetCellValue(sheet, fmt.Sprintf("G%d", row), completed)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not build export")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="job-cards.xlsx"`)
	return c.Send(buf.Bytes())
}

// GET /api/audit
func GetAuditEntries(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	entries, err := services.ListAuditEntries(db, services.AuditFilter{
		Entity:   c.Query("entity"),
		EntityID: c.Query("entity_id"),
		Limit:    c.QueryInt("limit"),
	})
	if err != nil {
		return err
	}
	return ok(c, "success", entries)
}
