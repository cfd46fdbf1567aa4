// Package jobs runs in-process housekeeping. Request handling stays
// strictly synchronous; these sweeps only delete expired bookkeeping rows.
package jobs

import (
	"log"
	"os"
	"strconv"
	"time"

	"workshop-backend/database"
	"workshop-backend/models"

	"github.com/robfig/cron/v3"
)

const idempotencyKeyTTL = 24 * time.Hour

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Start schedules the retention sweeps and returns the running scheduler.
func Start() *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		cutoff := time.Now().Add(-idempotencyKeyTTL)
		res := database.DB.Where("created_at < ?", cutoff).Delete(&models.IdempotencyKey{})
		if res.Error != nil {
			log.Printf("idempotency key cleanup failed: %v", res.Error)
		} else if res.RowsAffected > 0 {
			log.Printf("cleaned up %d expired idempotency keys", res.RowsAffected)
		}
	})

	c.AddFunc("@daily", func() {
		retentionDays := envInt("AUDIT_RETENTION_DAYS", 180)
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		res := database.DB.Where("created_at < ?", cutoff).Delete(&models.AuditEntry{})
		if res.Error != nil {
			log.Printf("audit retention cleanup failed: %v", res.Error)
		} else if res.RowsAffected > 0 {
			log.Printf("cleaned up %d audit entries older than %d days", res.RowsAffected, retentionDays)
		}
	})

	c.Start()
	return c
}
