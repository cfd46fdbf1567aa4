package routes

import (
	"github.com/gofiber/fiber/v2"

	"workshop-backend/controllers"
	"workshop-backend/middlewares"
	"workshop-backend/models"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/register", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth), CSRF check on mutations, then the
	// idempotency guard (not tied to the request TX).
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())
	protected.Use(middlewares.VerifyCSRF())
	protected.Use(middlewares.Idempotency())

	staff := []string{models.RoleAdmin, models.RoleWorkshopManager, models.RoleServiceAdvisor,
		models.RoleMechanic, models.RolePartsManager, models.RoleSupervisor}

	// Inventory-contended updates manage their own transactions (bounded
	// deadlock retry), so they sit outside the Tx group.
	protected.Put("/jobcard/:id",
		middlewares.RequireRoles(models.RoleAdmin, models.RoleWorkshopManager,
			models.RoleServiceAdvisor, models.RoleMechanic, models.RoleSupervisor),
		controllers.UpdateJobCard)
	protected.Put("/purchase-order/:id/status",
		middlewares.RequireRoles(models.RolePartsManager, models.RoleAdmin),
		controllers.UpdatePurchaseOrderStatus)

	// Everything else runs inside the per-request transaction.
	tx := protected.Group("", middlewares.Tx())

	// Users
	tx.Post("/user", middlewares.RequireRoles(models.RoleAdmin), controllers.CreateUser)
	tx.Get("/users",
		middlewares.RequireRoles(models.RoleAdmin, models.RoleWorkshopManager, models.RoleServiceAdvisor),
		controllers.GetUsers)

	// Vehicles
	tx.Post("/vehicle",
		middlewares.RequireRoles(models.RoleDriver, models.RoleServiceAdvisor,
			models.RoleWorkshopManager, models.RoleAdmin),
		controllers.CreateVehicle)
	tx.Get("/vehicles", controllers.GetVehicles)
	tx.Get("/vehicle/:id", controllers.GetVehicle)
	tx.Put("/vehicle/:id",
		middlewares.RequireRoles(models.RoleServiceAdvisor, models.RoleWorkshopManager, models.RoleAdmin),
		controllers.UpdateVehicle)

	// Job cards
	tx.Post("/jobcard",
		middlewares.RequireRoles(models.RoleDriver, models.RoleServiceAdvisor,
			models.RoleWorkshopManager, models.RoleAdmin),
		controllers.CreateJobCard)
	tx.Get("/jobcards", controllers.GetJobCards)
	tx.Get("/jobcard/:id", controllers.GetJobCard)

	// Inventory
	tx.Post("/item",
		middlewares.RequireRoles(models.RolePartsManager, models.RoleAdmin),
		controllers.CreateItem)
	tx.Get("/items", middlewares.RequireRoles(staff...), controllers.GetItems)
	tx.Get("/item/:id", middlewares.RequireRoles(staff...), controllers.GetItem)
	tx.Put("/item/:id",
		middlewares.RequireRoles(models.RolePartsManager, models.RoleAdmin),
		controllers.UpdateItem)

	// Invoices
	tx.Post("/jobcard/:id/invoice",
		middlewares.RequireRoles(models.RoleServiceAdvisor, models.RoleSupervisor, models.RoleAdmin),
		controllers.GenerateInvoice)
	tx.Get("/invoices",
		middlewares.RequireRoles(models.RoleServiceAdvisor, models.RoleSupervisor,
			models.RoleWorkshopManager, models.RoleAdmin),
		controllers.GetInvoices)
	tx.Get("/invoice/:id",
		middlewares.RequireRoles(models.RoleServiceAdvisor, models.RoleSupervisor,
			models.RoleWorkshopManager, models.RoleAdmin),
		controllers.GetInvoice)
	tx.Get("/invoice/:id/pdf",
		middlewares.RequireRoles(models.RoleServiceAdvisor, models.RoleSupervisor,
			models.RoleWorkshopManager, models.RoleAdmin),
		controllers.GetInvoicePDF)

	// Suppliers & purchase orders
	tx.Post("/supplier",
		middlewares.RequireRoles(models.RolePartsManager, models.RoleAdmin),
		controllers.CreateSupplier)
	tx.Get("/suppliers", middlewares.RequireRoles(staff...), controllers.GetSuppliers)
	tx.Put("/supplier/:id",
		middlewares.RequireRoles(models.RolePartsManager, models.RoleAdmin),
		controllers.UpdateSupplier)
	tx.Post("/purchase-order",
		middlewares.RequireRoles(models.RolePartsManager, models.RoleAdmin),
		controllers.CreatePurchaseOrder)
	tx.Get("/purchase-orders",
		middlewares.RequireRoles(models.RolePartsManager, models.RoleWorkshopManager, models.RoleAdmin),
		controllers.GetPurchaseOrders)
	tx.Get("/purchase-order/:id",
		middlewares.RequireRoles(models.RolePartsManager, models.RoleWorkshopManager, models.RoleAdmin),
		controllers.GetPurchaseOrder)

	// Reports & audit (read-only)
	tx.Get("/reports/summary",
		middlewares.RequireRoles(models.RoleAdmin, models.RoleWorkshopManager, models.RoleSupervisor),
		controllers.GetSummary)
	tx.Get("/reports/jobcards/export",
		middlewares.RequireRoles(models.RoleAdmin, models.RoleWorkshopManager, models.RoleSupervisor),
		controllers.ExportJobCards)
	tx.Get("/audit",
		middlewares.RequireRoles(models.RoleAdmin, models.RoleSupervisor),
		controllers.GetAuditEntries)
}
