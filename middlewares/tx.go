package middlewares

import (
	"log"
	"os"

	"workshop-backend/database"

	"github.com/gofiber/fiber/v2"
)

// Tx opens a per-request DB transaction and exposes it via
// database.FromCtx. The whole handler chain below it runs inside one
// transaction: an error or panic rolls everything back, success commits.
// Run AFTER auth/CSRF/idempotency so their bookkeeping isn't tied to the
// handler transaction.
//
// The handful of routes with real inventory contention manage their own
// transactions through services.Transact instead, so they can retry on
// deadlock; those routes are registered outside the Tx group.
func Tx() fiber.Handler {
	timeout := os.Getenv("STATEMENT_TIMEOUT_MS")
	if timeout == "" {
		timeout = "5000"
	}
	return func(c *fiber.Ctx) (err error) {
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Printf("tx commit failed: %v", e)
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		// SET LOCAL reverts at TX end; a stuck statement can't hold row
		// locks forever.
		if tx.Dialector.Name() == "postgres" {
			if e := tx.Exec("SET LOCAL statement_timeout = " + timeout).Error; e != nil {
				_ = tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "failed to set statement timeout")
			}
		}

		c.Locals("tx", tx)

		err = c.Next()
		return err
	}
}
