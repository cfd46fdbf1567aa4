package middlewares

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"workshop-backend/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestIdempotencyReplay(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:idempotency_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.MigrateModels(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	var handlerRuns int
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		return c.Next()
	})
	app.Use(Idempotency())
	app.Post("/thing", func(c *fiber.Ctx) error {
		handlerRuns++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "run": handlerRuns})
	})

	send := func(key, body string) (int, string) {
		t.Helper()
		req := httptest.NewRequest("POST", "/thing", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		raw, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(raw)
	}

	status1, body1 := send("key-1", `{"a":1}`)
	if status1 != fiber.StatusCreated {
		t.Fatalf("first call status = %d, want 201", status1)
	}
	if handlerRuns != 1 {
		t.Fatalf("handler runs = %d, want 1", handlerRuns)
	}

	// Same key, same body: stored response replays, handler does not run.
	status2, body2 := send("key-1", `{"a":1}`)
	if handlerRuns != 1 {
		t.Errorf("handler ran again on replay, runs = %d", handlerRuns)
	}
	if status2 != status1 || body2 != body1 {
		t.Errorf("replay = %d %q, want %d %q", status2, body2, status1, body1)
	}

	// Same key, different body: rejected.
	status3, _ := send("key-1", `{"a":2}`)
	if status3 != fiber.StatusConflict {
		t.Errorf("key reuse status = %d, want 409", status3)
	}

	// No key: handler always runs.
	send("", `{"a":3}`)
	if handlerRuns != 2 {
		t.Errorf("handler runs = %d, want 2", handlerRuns)
	}
}
