package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex" json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	GoogleID     string `gorm:"index" json:"-"`
	Phone        string `json:"phone"`
	IsSupplier   bool   `json:"is_supplier"`
	IsCustomer   bool   `json:"is_customer"`
}

// Supplier is the selling profile of a user. Products reference it, not the user.
type Supplier struct {
	gorm.Model
	UserID     uint      `gorm:"uniqueIndex" json:"user_id"`
	User       User      `json:"user"`
	LocationID *uint     `json:"location_id"`
	Location   *Location `json:"location"`
}

type Customer struct {
	gorm.Model
	UserID      uint       `gorm:"uniqueIndex" json:"user_id"`
	User        User       `json:"user"`
	Locations   []Location `gorm:"many2many:customer_locations" json:"locations"`
	Preferences []Category `gorm:"many2many:customer_preferences" json:"preferences"`
}
