package models

import "time"

type Supplier struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CompanyName string    `json:"company_name" gorm:"not null;unique"`
	Email       string    `json:"email" gorm:"unique;not null"`
	PhoneNumber string    `json:"phone_number" gorm:"not null"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Zip         string    `json:"zip"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
