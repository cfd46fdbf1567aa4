package services

import (
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"
)

func TestReserveAndDeductInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "BRK-001", "Brake Pad Set", 4, 35.00)

	_, err := ReserveAndDeduct(db, item.ID, 5)
	if !IsKind(err, KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	se, _ := AsServiceError(err)
	if !strings.Contains(se.Public(), "Insufficient stock") {
		t.Errorf("message should mention insufficient stock, got %q", se.Public())
	}
	if !strings.Contains(se.Public(), "Available: 4, Requested: 5") {
		t.Errorf("message should carry the numbers, got %q", se.Public())
	}
	if got := itemStock(t, db, item.ID); got != 4 {
		t.Errorf("stock changed on rejected deduction: %d", got)
	}

	// Exactly-sufficient stock drains to zero.
	if _, err := ReserveAndDeduct(db, item.ID, 4); err != nil {
		t.Fatalf("deduct 4 of 4: %v", err)
	}
	if got := itemStock(t, db, item.ID); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestReserveAndDeductRejectsNonPositive(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "FLT-002", "Oil Filter", 10, 8.50)

	for _, qty := range []int{0, -3} {
		if _, err := ReserveAndDeduct(db, item.ID, qty); !IsKind(err, KindValidation) {
			t.Errorf("qty %d: expected validation error, got %v", qty, err)
		}
	}
}

func TestReserveAndDeductUnknownItem(t *testing.T) {
	db := newTestDB(t)
	if _, err := ReserveAndDeduct(db, 9999, 1); !IsKind(err, KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Two concurrent deductions of 3 against stock 5: exactly one wins, stock
// never goes negative.
func TestReserveAndDeductConcurrent(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "BRK-003", "Brake Disc", 5, 60.00)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Transact(db, func(tx *gorm.DB) error {
				_, err := ReserveAndDeduct(tx, item.ID, 3)
				return err
			})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case IsKind(err, KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Errorf("got %d successes, %d conflicts; want 1 and 1", successes, conflicts)
	}
	if got := itemStock(t, db, item.ID); got != 2 {
		t.Errorf("final stock = %d, want 2", got)
	}
}

func TestCreditIncrementsStock(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, "OIL-010", "Engine Oil 5W30", 2, 12.00)

	updated, err := Credit(db, item.ID, 8)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if updated.QuantityOnHand != 10 {
		t.Errorf("returned stock = %d, want 10", updated.QuantityOnHand)
	}
	if got := itemStock(t, db, item.ID); got != 10 {
		t.Errorf("stored stock = %d, want 10", got)
	}

	if _, err := Credit(db, 12345, 1); !IsKind(err, KindNotFound) {
		t.Errorf("credit unknown item: expected not found, got %v", err)
	}
}

func TestListItemsLowStockFilter(t *testing.T) {
	db := newTestDB(t)
	low := seedItem(t, db, "LOW-001", "Wiper Blade", 1, 5.00)
	db.Model(low).Update("minimum_stock", 3)
	seedItem(t, db, "HI-001", "Air Filter", 50, 9.00)

	items, err := ListItems(db, ItemFilter{LowStock: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].SKU != "LOW-001" {
		t.Errorf("low stock filter returned %+v", items)
	}
}
