package models

import (
	"time"

	"gorm.io/gorm"
)

// Tour is a supplier product booked one calendar day at a time.
type Tour struct {
	gorm.Model
	Featured      bool       `json:"featured"`
	SupplierID    uint       `json:"supplier_id"`
	Supplier      Supplier   `json:"supplier"`
	LocationID    uint       `json:"location_id"`
	Location      Location   `json:"location"`
	Title         string     `json:"title"`
	Image         string     `json:"image"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	AvailableFrom time.Time  `json:"available_from"`
	AvailableTo   time.Time  `json:"available_to"`
	DaysOff       string     `json:"days_off"`
	Categories    []Category `gorm:"many2many:tour_categories" json:"categories"`

	PickupLocation     string `json:"pickup_location"`
	PickupTime         string `json:"pickup_time"`
	DropoffTime        string `json:"dropoff_time"`
	Languages          string `json:"languages"`
	MinAge             int    `json:"min_age"`
	CancellationPolicy string `json:"cancellation_policy"`
	AdditionalInfo     string `json:"additional_info"`
}

type TourOffer struct {
	gorm.Model
	TourID uint    `json:"tour_id"`
	Tour   Tour    `json:"-"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Stock  int     `json:"stock"`
}

// TourDay is one bookable day of a tour offer.
type TourDay struct {
	gorm.Model
	TourOfferID uint      `gorm:"uniqueIndex:idx_tour_day" json:"tour_offer_id"`
	Day         time.Time `gorm:"uniqueIndex:idx_tour_day" json:"day"`
	Stock       int       `json:"stock"`
	Price       float64   `json:"price"`
}
