package models

import (
	"time"

	"gorm.io/gorm"
)

// Bookings hold a provisional stock deduction from creation until either
// confirmation or hold expiry. Price is computed at creation and never
// recomputed from the offer.

type ActivityBooking struct {
	gorm.Model
	Reference  string   `gorm:"uniqueIndex" json:"reference"`
	CustomerID uint     `json:"customer_id"`
	Customer   Customer `json:"customer"`
	PeriodID   uint     `json:"period_id"`
	Period     Period   `json:"period"`
	Quantity   int      `json:"quantity"`
	Price      float64  `json:"price"`
	Confirmed  bool     `json:"confirmed"`
	Paid       bool     `json:"paid"`
	Expired    bool     `json:"expired"`
	QRCode     string   `json:"qr_code"`
}

type TourBooking struct {
	gorm.Model
	Reference  string   `gorm:"uniqueIndex" json:"reference"`
	CustomerID uint     `json:"customer_id"`
	Customer   Customer `json:"customer"`
	TourDayID  uint     `json:"tourday_id"`
	TourDay    TourDay  `json:"tourday"`
	Quantity   int      `json:"quantity"`
	Price      float64  `json:"price"`
	Confirmed  bool     `json:"confirmed"`
	Paid       bool     `json:"paid"`
	Expired    bool     `json:"expired"`
	QRCode     string   `json:"qr_code"`
}

type PackageBooking struct {
	gorm.Model
	Reference      string       `gorm:"uniqueIndex" json:"reference"`
	CustomerID     uint         `json:"customer_id"`
	Customer       Customer     `json:"customer"`
	PackageOfferID uint         `json:"package_offer_id"`
	PackageOffer   PackageOffer `json:"package_offer"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        time.Time    `json:"end_date"`
	Quantity       int          `json:"quantity"`
	Price          float64      `json:"price"`
	Confirmed      bool         `json:"confirmed"`
	Paid           bool         `json:"paid"`
	Expired        bool         `json:"expired"`
	QRCode         string       `json:"qr_code"`
}
