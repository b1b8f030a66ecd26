package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/inventory"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// ProductHandler lets suppliers publish products. Saving a product creates
// its offers and immediately expands them into bookable slots; the expander
// is idempotent, so a retried request cannot duplicate a calendar.
type ProductHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewProductHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ProductHandler {
	return &ProductHandler{db: db, authHandler: authHandler}
}

type OfferInput struct {
	Title string  `json:"title" required:"true"`
	Price float64 `json:"price" required:"true" minimum:"0"`
	Stock int     `json:"stock" required:"true" minimum:"0" doc:"Per-slot stock template"`
}

type CreateActivityRequest struct {
	auth.AuthInput
	Body struct {
		Title         string       `json:"title" required:"true"`
		Image         string       `json:"image"`
		Description   string       `json:"description"`
		Price         float64      `json:"price"`
		LocationID    uint         `json:"location_id" required:"true"`
		AvailableFrom string       `json:"available_from" required:"true" doc:"YYYY-MM-DD"`
		AvailableTo   string       `json:"available_to" required:"true" doc:"YYYY-MM-DD"`
		DaysOff       string       `json:"days_off" doc:"Comma-separated weekday names"`
		Period        int          `json:"period" required:"true" doc:"Slot length in minutes"`
		StartTime     string       `json:"start_time" required:"true" doc:"15:04"`
		EndTime       string       `json:"end_time" required:"true" doc:"15:04"`
		Offers        []OfferInput `json:"offers" required:"true" minItems:"1"`
	}
}

type ProductResponse struct {
	Body struct {
		ID uint `json:"id"`
	}
}

func (h *ProductHandler) HandleCreateActivity(ctx context.Context, input *CreateActivityRequest) (*ProductResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	supplier, err := h.authHandler.SupplierFor(userID)
	if err != nil {
		return nil, err
	}

	from, err := parseDate(input.Body.AvailableFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(input.Body.AvailableTo)
	if err != nil {
		return nil, err
	}

	activity := models.Activity{
		SupplierID:    supplier.ID,
		LocationID:    input.Body.LocationID,
		Title:         input.Body.Title,
		Image:         input.Body.Image,
		Description:   input.Body.Description,
		Price:         input.Body.Price,
		AvailableFrom: from,
		AvailableTo:   to,
		DaysOff:       input.Body.DaysOff,
		PeriodMinutes: input.Body.Period,
		StartTime:     input.Body.StartTime,
		EndTime:       input.Body.EndTime,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}
		for _, o := range input.Body.Offers {
			offer := models.ActivityOffer{
				ActivityID: activity.ID,
				Title:      o.Title,
				Price:      o.Price,
				Stock:      o.Stock,
			}
			if err := tx.Create(&offer).Error; err != nil {
				return err
			}
		}
		return inventory.GenerateActivityPeriods(tx, &activity)
	})
	if err != nil {
		return nil, apiError(err)
	}

	res := &ProductResponse{}
	res.Body.ID = activity.ID
	return res, nil
}

type CreateTourRequest struct {
	auth.AuthInput
	Body struct {
		Title          string       `json:"title" required:"true"`
		Image          string       `json:"image"`
		Description    string       `json:"description"`
		Price          float64      `json:"price"`
		LocationID     uint         `json:"location_id" required:"true"`
		AvailableFrom  string       `json:"available_from" required:"true" doc:"YYYY-MM-DD"`
		AvailableTo    string       `json:"available_to" required:"true" doc:"YYYY-MM-DD"`
		DaysOff        string       `json:"days_off"`
		PickupLocation string       `json:"pickup_location"`
		PickupTime     string       `json:"pickup_time"`
		DropoffTime    string       `json:"dropoff_time"`
		Offers         []OfferInput `json:"offers" required:"true" minItems:"1"`
	}
}

func (h *ProductHandler) HandleCreateTour(ctx context.Context, input *CreateTourRequest) (*ProductResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	supplier, err := h.authHandler.SupplierFor(userID)
	if err != nil {
		return nil, err
	}

	from, err := parseDate(input.Body.AvailableFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(input.Body.AvailableTo)
	if err != nil {
		return nil, err
	}

	tour := models.Tour{
		SupplierID:     supplier.ID,
		LocationID:     input.Body.LocationID,
		Title:          input.Body.Title,
		Image:          input.Body.Image,
		Description:    input.Body.Description,
		Price:          input.Body.Price,
		AvailableFrom:  from,
		AvailableTo:    to,
		DaysOff:        input.Body.DaysOff,
		PickupLocation: input.Body.PickupLocation,
		PickupTime:     input.Body.PickupTime,
		DropoffTime:    input.Body.DropoffTime,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tour).Error; err != nil {
			return err
		}
		for _, o := range input.Body.Offers {
			offer := models.TourOffer{
				TourID: tour.ID,
				Title:  o.Title,
				Price:  o.Price,
				Stock:  o.Stock,
			}
			if err := tx.Create(&offer).Error; err != nil {
				return err
			}
		}
		return inventory.GenerateTourDays(tx, &tour)
	})
	if err != nil {
		return nil, apiError(err)
	}

	res := &ProductResponse{}
	res.Body.ID = tour.ID
	return res, nil
}

type CreatePackageRequest struct {
	auth.AuthInput
	Body struct {
		Title          string       `json:"title" required:"true"`
		Image          string       `json:"image"`
		Description    string       `json:"description"`
		Duration       string       `json:"duration"`
		LocationID     uint         `json:"location_id" required:"true"`
		AvailableFrom  string       `json:"available_from" required:"true" doc:"YYYY-MM-DD"`
		AvailableTo    string       `json:"available_to" required:"true" doc:"YYYY-MM-DD"`
		DaysOff        string       `json:"days_off"`
		Period         int          `json:"period" required:"true" doc:"Booking length in days"`
		PickupLocation string       `json:"pickup_location"`
		PickupTime     string       `json:"pickup_time"`
		DropoffTime    string       `json:"dropoff_time"`
		Offers         []OfferInput `json:"offers" required:"true" minItems:"1"`
	}
}

func (h *ProductHandler) HandleCreatePackage(ctx context.Context, input *CreatePackageRequest) (*ProductResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	supplier, err := h.authHandler.SupplierFor(userID)
	if err != nil {
		return nil, err
	}

	from, err := parseDate(input.Body.AvailableFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(input.Body.AvailableTo)
	if err != nil {
		return nil, err
	}
	if input.Body.Period < 1 {
		return nil, huma.Error400BadRequest("Period must be at least 1 day")
	}

	pkg := models.Package{
		SupplierID:     supplier.ID,
		LocationID:     input.Body.LocationID,
		Title:          input.Body.Title,
		Image:          input.Body.Image,
		Description:    input.Body.Description,
		Duration:       input.Body.Duration,
		AvailableFrom:  from,
		AvailableTo:    to,
		DaysOff:        input.Body.DaysOff,
		PeriodDays:     input.Body.Period,
		PickupLocation: input.Body.PickupLocation,
		PickupTime:     input.Body.PickupTime,
		DropoffTime:    input.Body.DropoffTime,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pkg).Error; err != nil {
			return err
		}
		for _, o := range input.Body.Offers {
			offer := models.PackageOffer{
				PackageID: pkg.ID,
				Title:     o.Title,
				Price:     o.Price,
				Stock:     o.Stock,
			}
			if err := tx.Create(&offer).Error; err != nil {
				return err
			}
		}
		return inventory.GeneratePackageDays(tx, &pkg)
	})
	if err != nil {
		return nil, apiError(err)
	}

	res := &ProductResponse{}
	res.Body.ID = pkg.ID
	return res, nil
}
