package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles accepted in User.Role. Authorization groups in the route table are
// built from these values.
const (
	RoleAdmin           = "admin"
	RoleWorkshopManager = "workshop_manager"
	RoleServiceAdvisor  = "service_advisor"
	RoleMechanic        = "mechanic"
	RolePartsManager    = "parts_manager"
	RoleSupervisor      = "supervisor"
	RoleDriver          = "driver"
)

var validRoles = map[string]bool{
	RoleAdmin:           true,
	RoleWorkshopManager: true,
	RoleServiceAdvisor:  true,
	RoleMechanic:        true,
	RolePartsManager:    true,
	RoleSupervisor:      true,
	RoleDriver:          true,
}

// ValidRole reports whether role is one of the known user types.
func ValidRole(role string) bool {
	return validRoles[role]
}

type User struct {
	Id        string `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name" gorm:"not null"`
	Password  []byte `json:"-" gorm:"not null"`
	Email     string `json:"email" gorm:"unique;not null"`
	Role      string `json:"role" gorm:"type:varchar(32);not null;index"`
	Active    bool   `json:"active" gorm:"default:true"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	user.Id = uuid.NewString()
	return
}

func (user *User) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	user.Password = hashedPassword
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}

func (user *User) FullName() string {
	return user.FirstName + " " + user.LastName
}
