package controllers

import (
	"fmt"
	"time"

	"workshop-backend/cache"
	"workshop-backend/database"
	"workshop-backend/pdf"
	"workshop-backend/services"

	"github.com/gofiber/fiber/v2"
)

// POST /api/jobcard/:id/invoice derives the invoice and advances the job
// card to invoiced in the request transaction.
func GenerateInvoice(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	invoice, err := services.GenerateInvoice(db, actor(c), id)
	if err != nil {
		return err
	}
	cache.Invalidate(c.Context(), "reports:")
	return created(c, "invoice generated", invoice)
}

// GET /api/invoices?from=2026-01-01&to=2026-01-31
func GetInvoices(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	filter := services.InvoiceFilter{}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		filter.To = t.Add(24*time.Hour - time.Second)
	}

	invoices, err := services.ListInvoices(db, filter)
	if err != nil {
		return err
	}
	return ok(c, "success", invoices)
}

// GET /api/invoice/:id
func GetInvoice(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	invoice, err := services.GetInvoice(db, id)
	if err != nil {
		return err
	}
	return ok(c, "success", invoice)
}

// GET /api/invoice/:id/pdf
func GetInvoicePDF(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}
	db, err := database.FromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database unavailable")
	}

	invoice, err := services.GetInvoice(db, id)
	if err != nil {
		return err
	}

	doc, err := pdf.RenderInvoice(invoice)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not render invoice PDF")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="invoice-%d.pdf"`, invoice.ID))
	return c.Send(doc)
}
