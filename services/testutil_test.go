package services

import (
	"fmt"
	"strings"
	"testing"

	"workshop-backend/database"
	"workshop-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. The pool is capped
// at one connection so concurrent transactions serialize the same way
// Postgres row locks would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := models.User{
		FirstName: "Test",
		LastName:  role,
		Email:     fmt.Sprintf("%s-%d@example.com", role, seq(t)),
		Role:      role,
		Active:    true,
	}
	user.SetPassword("not-a-real-password")
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed %s user: %v", role, err)
	}
	return &user
}

var seqCounter int

func seq(t *testing.T) int {
	t.Helper()
	seqCounter++
	return seqCounter
}

func seedVehicle(t *testing.T, db *gorm.DB, driverID string) *models.Vehicle {
	t.Helper()
	v := models.Vehicle{
		Make:               "Toyota",
		Model:              "Hilux",
		RegistrationNumber: fmt.Sprintf("REG-%d", seq(t)),
		Year:               2019,
		Mileage:            84000,
		DriverID:           driverID,
	}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	return &v
}

func seedItem(t *testing.T, db *gorm.DB, sku, name string, qty int, price float64) *models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		Name:           name,
		SKU:            sku,
		QuantityOnHand: qty,
		UnitPrice:      price,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item %s: %v", sku, err)
	}
	return &item
}

func seedJobCard(t *testing.T, db *gorm.DB, actor Actor, vehicleID uint) *models.JobCard {
	t.Helper()
	jc, err := CreateJobCard(db, actor, CreateJobCardInput{
		VehicleID:        vehicleID,
		IssueDescription: "brakes squealing",
	})
	if err != nil {
		t.Fatalf("seed job card: %v", err)
	}
	return jc
}

func asActor(u *models.User) Actor {
	return Actor{ID: u.Id, Role: u.Role}
}

func itemStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var item models.InventoryItem
	if err := db.First(&item, id).Error; err != nil {
		t.Fatalf("reload item %d: %v", id, err)
	}
	return item.QuantityOnHand
}
