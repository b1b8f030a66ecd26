package models

import (
	"time"

	"gorm.io/gorm"
)

// Package is a multi-day product: a booking spans PeriodDays contiguous days.
type Package struct {
	gorm.Model
	Featured      bool       `json:"featured"`
	SupplierID    uint       `json:"supplier_id"`
	Supplier      Supplier   `json:"supplier"`
	LocationID    uint       `json:"location_id"`
	Location      Location   `json:"location"`
	Title         string     `json:"title"`
	Image         string     `json:"image"`
	Description   string     `json:"description"`
	Duration      string     `json:"duration"`
	AvailableFrom time.Time  `json:"available_from"`
	AvailableTo   time.Time  `json:"available_to"`
	PeriodDays    int        `json:"period"`
	DaysOff       string     `json:"days_off"`
	Categories    []Category `gorm:"many2many:package_categories" json:"categories"`

	PickupLocation     string `json:"pickup_location"`
	PickupTime         string `json:"pickup_time"`
	DropoffTime        string `json:"dropoff_time"`
	Languages          string `json:"languages"`
	MinAge             int    `json:"min_age"`
	CancellationPolicy string `json:"cancellation_policy"`
	AdditionalInfo     string `json:"additional_info"`
}

type PackageOffer struct {
	gorm.Model
	PackageID uint    `json:"package_id"`
	Package   Package `json:"-"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

// PackageDay is one day of stock for a package offer. A booking consumes a
// contiguous run of them.
type PackageDay struct {
	gorm.Model
	PackageOfferID uint      `gorm:"uniqueIndex:idx_package_day" json:"package_offer_id"`
	Day            time.Time `gorm:"uniqueIndex:idx_package_day" json:"day"`
	Stock          int       `json:"stock"`
	Price          float64   `json:"price"`
}
