package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/booking"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// BookingHandler is the customer side of the booking lifecycle: placing
// bookings and reading back their own.
type BookingHandler struct {
	db          *gorm.DB
	svc         *booking.Service
	authHandler *auth.AuthHandler
}

func NewBookingHandler(db *gorm.DB, svc *booking.Service, authHandler *auth.AuthHandler) *BookingHandler {
	return &BookingHandler{db: db, svc: svc, authHandler: authHandler}
}

func (h *BookingHandler) customer(ctx context.Context, cookie string) (*models.Customer, error) {
	userID, err := h.authHandler.Authorize(ctx, cookie)
	if err != nil {
		return nil, err
	}
	return h.authHandler.CustomerFor(userID)
}

type CreateActivityBookingRequest struct {
	auth.AuthInput
	Body struct {
		PeriodID uint `json:"period_id" required:"true"`
		Quantity int  `json:"quantity" required:"true" minimum:"1"`
	}
}

type ActivityBookingResponse struct {
	Body models.ActivityBooking
}

func (h *BookingHandler) HandleCreateActivityBooking(ctx context.Context, input *CreateActivityBookingRequest) (*ActivityBookingResponse, error) {
	customer, err := h.customer(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	b, err := h.svc.CreateActivityBooking(ctx, customer.ID, input.Body.PeriodID, input.Body.Quantity)
	if err != nil {
		return nil, apiError(err)
	}
	return &ActivityBookingResponse{Body: *b}, nil
}

type CreateTourBookingRequest struct {
	auth.AuthInput
	Body struct {
		TourDayID uint `json:"tourday_id" required:"true"`
		Quantity  int  `json:"quantity" required:"true" minimum:"1"`
	}
}

type TourBookingResponse struct {
	Body models.TourBooking
}

func (h *BookingHandler) HandleCreateTourBooking(ctx context.Context, input *CreateTourBookingRequest) (*TourBookingResponse, error) {
	customer, err := h.customer(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	b, err := h.svc.CreateTourBooking(ctx, customer.ID, input.Body.TourDayID, input.Body.Quantity)
	if err != nil {
		return nil, apiError(err)
	}
	return &TourBookingResponse{Body: *b}, nil
}

type CreatePackageBookingRequest struct {
	auth.AuthInput
	Body struct {
		PackageOfferID uint   `json:"package_offer_id" required:"true"`
		StartDate      string `json:"start_date" required:"true" doc:"YYYY-MM-DD"`
		Quantity       int    `json:"quantity" required:"true" minimum:"1"`
	}
}

type PackageBookingResponse struct {
	Body models.PackageBooking
}

func (h *BookingHandler) HandleCreatePackageBooking(ctx context.Context, input *CreatePackageBookingRequest) (*PackageBookingResponse, error) {
	customer, err := h.customer(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(input.Body.StartDate)
	if err != nil {
		return nil, err
	}
	b, err := h.svc.CreatePackageBooking(ctx, customer.ID, input.Body.PackageOfferID, start, input.Body.Quantity)
	if err != nil {
		return nil, apiError(err)
	}
	return &PackageBookingResponse{Body: *b}, nil
}

type MyBookingsRequest struct {
	auth.AuthInput
}

type MyActivityBookingsResponse struct {
	Body []models.ActivityBooking
}

func (h *BookingHandler) HandleMyActivityBookings(ctx context.Context, input *MyBookingsRequest) (*MyActivityBookingsResponse, error) {
	customer, err := h.customer(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	res := &MyActivityBookingsResponse{}
	err = h.db.WithContext(ctx).Preload("Period").
		Where("customer_id = ?", customer.ID).
		Order("created_at DESC").Find(&res.Body).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list bookings")
	}
	return res, nil
}

type MyTourBookingsResponse struct {
	Body []models.TourBooking
}

func (h *BookingHandler) HandleMyTourBookings(ctx context.Context, input *MyBookingsRequest) (*MyTourBookingsResponse, error) {
	customer, err := h.customer(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	res := &MyTourBookingsResponse{}
	err = h.db.WithContext(ctx).Preload("TourDay").
		Where("customer_id = ?", customer.ID).
		Order("created_at DESC").Find(&res.Body).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list bookings")
	}
	return res, nil
}

type MyPackageBookingsResponse struct {
	Body []models.PackageBooking
}

func (h *BookingHandler) HandleMyPackageBookings(ctx context.Context, input *MyBookingsRequest) (*MyPackageBookingsResponse, error) {
	customer, err := h.customer(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	res := &MyPackageBookingsResponse{}
	err = h.db.WithContext(ctx).Preload("PackageOffer").
		Where("customer_id = ?", customer.ID).
		Order("created_at DESC").Find(&res.Body).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list bookings")
	}
	return res, nil
}
