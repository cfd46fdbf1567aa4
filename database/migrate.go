package database

import (
	"fmt"

	"workshop-backend/models"

	"gorm.io/gorm"
)

// MigrateModels applies GORM AutoMigrate for every table. It is split out
// from Migrate so tests can build a schema on SQLite without the
// Postgres-only constraint statements below.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.InventoryItem{},
		&models.JobCard{},
		&models.JobCardPart{},
		&models.Supplier{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},
		&models.Invoice{},
		&models.AuditEntry{},
		&models.IdempotencyKey{},
	)
}

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns)
// - Money column types (NUMERIC(12,2))
// - Supporting indexes
// - Foreign keys for consumption and purchase lines (RESTRICT/RESTRICT)
// - CHECK constraints backing the stock and money invariants
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := MigrateModels(tx); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE inventory_items       ALTER COLUMN unit_price   TYPE numeric(12,2)`,
			`ALTER TABLE job_cards             ALTER COLUMN labor_cost   TYPE numeric(12,2)`,
			`ALTER TABLE job_card_parts        ALTER COLUMN unit_price   TYPE numeric(12,2)`,
			`ALTER TABLE invoices              ALTER COLUMN labor_cost   TYPE numeric(12,2)`,
			`ALTER TABLE invoices              ALTER COLUMN parts_cost   TYPE numeric(12,2)`,
			`ALTER TABLE invoices              ALTER COLUMN total_amount TYPE numeric(12,2)`,
			`ALTER TABLE purchase_orders       ALTER COLUMN total_cost   TYPE numeric(12,2)`,
			`ALTER TABLE purchase_order_lines  ALTER COLUMN unit_price   TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_job_card_parts_job_card ON job_card_parts (job_card_id)`,
			`CREATE INDEX IF NOT EXISTS idx_job_card_parts_item ON job_card_parts (item_id)`,
			`CREATE INDEX IF NOT EXISTS idx_job_cards_status_created ON job_cards (status, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_invoices_invoice_date ON invoices (invoice_date)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_entries_entity ON audit_entries (entity, entity_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Foreign keys: consumption/purchase lines must reference live items ---
		fks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'job_card_parts'::regclass
					  AND conname  = 'fk_job_card_parts_item'
				) THEN
					ALTER TABLE job_card_parts
					ADD CONSTRAINT fk_job_card_parts_item
					FOREIGN KEY (item_id)
					REFERENCES inventory_items(id)
					ON UPDATE RESTRICT
					ON DELETE RESTRICT;
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'purchase_order_lines'::regclass
					  AND conname  = 'fk_purchase_order_lines_item'
				) THEN
					ALTER TABLE purchase_order_lines
					ADD CONSTRAINT fk_purchase_order_lines_item
					FOREIGN KEY (item_id)
					REFERENCES inventory_items(id)
					ON UPDATE RESTRICT
					ON DELETE RESTRICT;
				END IF;
			END $$;`,
		}
		for _, stmt := range fks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("foreign key migration failed: %w", err)
			}
		}

		// --- CHECK constraints: the database backs up what the services enforce ---
		checks := []string{
			// Stock can never go negative, even if a future code path forgets
			// the locking read.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'inventory_items'::regclass
					  AND conname  = 'chk_inventory_items_qty_nonneg'
				) THEN
					ALTER TABLE inventory_items
					ADD CONSTRAINT chk_inventory_items_qty_nonneg
					CHECK (quantity_on_hand >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'job_cards'::regclass
					  AND conname  = 'chk_job_cards_labor_cost_nonneg'
				) THEN
					ALTER TABLE job_cards
					ADD CONSTRAINT chk_job_cards_labor_cost_nonneg
					CHECK (labor_cost >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'job_card_parts'::regclass
					  AND conname  = 'chk_job_card_parts_qty_positive'
				) THEN
					ALTER TABLE job_card_parts
					ADD CONSTRAINT chk_job_card_parts_qty_positive
					CHECK (quantity_used > 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'purchase_order_lines'::regclass
					  AND conname  = 'chk_purchase_order_lines_qty_positive'
				) THEN
					ALTER TABLE purchase_order_lines
					ADD CONSTRAINT chk_purchase_order_lines_qty_positive
					CHECK (quantity > 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_total_nonneg'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_total_nonneg
					CHECK (total_amount >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
