package models

import "time"

// Vehicle is never hard-deleted; ownership and mileage are the only fields
// expected to change after creation.
type Vehicle struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Make               string    `json:"make" gorm:"not null"`
	Model              string    `json:"model" gorm:"not null"`
	RegistrationNumber string    `json:"registration_number" gorm:"uniqueIndex;not null"`
	Year               int       `json:"year"`
	Color              string    `json:"color"`
	Mileage            int       `json:"mileage"`
	DriverID           string    `json:"driver_id" gorm:"index;not null"`
	Driver             User      `json:"-" gorm:"foreignKey:DriverID;references:Id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
