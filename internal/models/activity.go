package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity is a supplier product booked per time slot within a day.
// StartTime/EndTime are clock times in "15:04" form; PeriodMinutes is the
// length of one bookable slot.
type Activity struct {
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
	PeriodMinutes int        `json:"period"`
	DaysOff       string     `json:"days_off"` // comma-separated weekday names
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	Categories    []Category `gorm:"many2many:activity_categories" json:"categories"`

	AudioLanguages      string `json:"audio_languages"`
	CancellationPolicy  string `json:"cancellation_policy"`
	GroupSize           string `json:"group_size"`
	ParticipantAgeRange string `json:"participant_age_range"`
}

// ActivityOffer is a priced variant ("Standard", "VIP"). Stock is the
// per-slot template copied into each Period at generation time.
type ActivityOffer struct {
	gorm.Model
	ActivityID uint    `json:"activity_id"`
	Activity   Activity `json:"-"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
}

// Period is one bookable time slot of an activity offer on a given day.
type Period struct {
	gorm.Model
	ActivityOfferID uint      `gorm:"uniqueIndex:idx_period_slot" json:"activity_offer_id"`
	Day             time.Time `gorm:"uniqueIndex:idx_period_slot" json:"day"`
	TimeFrom        string    `gorm:"uniqueIndex:idx_period_slot" json:"time_from"`
	TimeTo          string    `json:"time_to"`
	Stock           int       `json:"stock"`
	Price           float64   `json:"price"`
}
