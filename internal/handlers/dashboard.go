package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/booking"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// DashboardHandler is the supplier back office: incoming bookings, the
// confirm and confirm-payment transitions, and summary figures.
type DashboardHandler struct {
	db          *gorm.DB
	svc         *booking.Service
	authHandler *auth.AuthHandler
}

func NewDashboardHandler(db *gorm.DB, svc *booking.Service, authHandler *auth.AuthHandler) *DashboardHandler {
	return &DashboardHandler{db: db, svc: svc, authHandler: authHandler}
}

func (h *DashboardHandler) supplier(ctx context.Context, cookie string) (*models.Supplier, error) {
	userID, err := h.authHandler.Authorize(ctx, cookie)
	if err != nil {
		return nil, err
	}
	return h.authHandler.SupplierFor(userID)
}

type SupplierBookingsRequest struct {
	auth.AuthInput
}

type SupplierActivityBookingsResponse struct {
	Body []models.ActivityBooking
}

func (h *DashboardHandler) HandleActivityBookings(ctx context.Context, input *SupplierBookingsRequest) (*SupplierActivityBookingsResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	res := &SupplierActivityBookingsResponse{}
	err = h.db.WithContext(ctx).
		Joins("JOIN periods ON periods.id = activity_bookings.period_id").
		Joins("JOIN activity_offers ON activity_offers.id = periods.activity_offer_id").
		Joins("JOIN activities ON activities.id = activity_offers.activity_id").
		Where("activities.supplier_id = ?", supplier.ID).
		Preload("Customer.User").Preload("Period").
		Order("activity_bookings.created_at DESC").
		Find(&res.Body).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list bookings")
	}
	return res, nil
}

type SupplierTourBookingsResponse struct {
	Body []models.TourBooking
}

func (h *DashboardHandler) HandleTourBookings(ctx context.Context, input *SupplierBookingsRequest) (*SupplierTourBookingsResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	res := &SupplierTourBookingsResponse{}
	err = h.db.WithContext(ctx).
		Joins("JOIN tour_days ON tour_days.id = tour_bookings.tour_day_id").
		Joins("JOIN tour_offers ON tour_offers.id = tour_days.tour_offer_id").
		Joins("JOIN tours ON tours.id = tour_offers.tour_id").
		Where("tours.supplier_id = ?", supplier.ID).
		Preload("Customer.User").Preload("TourDay").
		Order("tour_bookings.created_at DESC").
		Find(&res.Body).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list bookings")
	}
	return res, nil
}

type SupplierPackageBookingsResponse struct {
	Body []models.PackageBooking
}

func (h *DashboardHandler) HandlePackageBookings(ctx context.Context, input *SupplierBookingsRequest) (*SupplierPackageBookingsResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	res := &SupplierPackageBookingsResponse{}
	err = h.db.WithContext(ctx).
		Joins("JOIN package_offers ON package_offers.id = package_bookings.package_offer_id").
		Joins("JOIN packages ON packages.id = package_offers.package_id").
		Where("packages.supplier_id = ?", supplier.ID).
		Preload("Customer.User").Preload("PackageOffer").
		Order("package_bookings.created_at DESC").
		Find(&res.Body).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list bookings")
	}
	return res, nil
}

type BookingActionRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *DashboardHandler) HandleConfirmActivityBooking(ctx context.Context, input *BookingActionRequest) (*ActivityBookingResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	b, err := h.svc.ConfirmActivityBooking(ctx, supplier.ID, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &ActivityBookingResponse{Body: *b}, nil
}

func (h *DashboardHandler) HandleConfirmTourBooking(ctx context.Context, input *BookingActionRequest) (*TourBookingResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	b, err := h.svc.ConfirmTourBooking(ctx, supplier.ID, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &TourBookingResponse{Body: *b}, nil
}

func (h *DashboardHandler) HandleConfirmPackageBooking(ctx context.Context, input *BookingActionRequest) (*PackageBookingResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	b, err := h.svc.ConfirmPackageBooking(ctx, supplier.ID, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &PackageBookingResponse{Body: *b}, nil
}

func (h *DashboardHandler) HandleConfirmActivityPayment(ctx context.Context, input *BookingActionRequest) (*ActivityBookingResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	b, err := h.svc.ConfirmActivityPayment(ctx, supplier.ID, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &ActivityBookingResponse{Body: *b}, nil
}

func (h *DashboardHandler) HandleConfirmTourPayment(ctx context.Context, input *BookingActionRequest) (*TourBookingResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	b, err := h.svc.ConfirmTourPayment(ctx, supplier.ID, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &TourBookingResponse{Body: *b}, nil
}

func (h *DashboardHandler) HandleConfirmPackagePayment(ctx context.Context, input *BookingActionRequest) (*PackageBookingResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	b, err := h.svc.ConfirmPackagePayment(ctx, supplier.ID, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &PackageBookingResponse{Body: *b}, nil
}

type DashboardRequest struct {
	auth.AuthInput
}

type bookingStats struct {
	Total     int64   `json:"total"`
	Pending   int64   `json:"pending"`
	Confirmed int64   `json:"confirmed"`
	Paid      int64   `json:"paid"`
	ThisMonth int64   `json:"this_month"`
	Revenue   float64 `json:"revenue" doc:"Sum of paid booking prices"`
}

type monthStats struct {
	Month    string  `json:"month" doc:"YYYY-MM"`
	Bookings int64   `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type DashboardResponse struct {
	Body struct {
		Activities     bookingStats `json:"activities"`
		Tours          bookingStats `json:"tours"`
		Packages       bookingStats `json:"packages"`
		Months         []monthStats `json:"months" doc:"Bookings per calendar month across all product types"`
		TodayCustomers int64        `json:"today_customers" doc:"Distinct customers who booked today"`
	}
}

// activityScope narrows activity bookings to the supplier's products.
func (h *DashboardHandler) activityScope(ctx context.Context, supplierID uint) *gorm.DB {
	return h.db.WithContext(ctx).Model(&models.ActivityBooking{}).
		Joins("JOIN periods ON periods.id = activity_bookings.period_id").
		Joins("JOIN activity_offers ON activity_offers.id = periods.activity_offer_id").
		Joins("JOIN activities ON activities.id = activity_offers.activity_id").
		Where("activities.supplier_id = ?", supplierID)
}

func (h *DashboardHandler) tourScope(ctx context.Context, supplierID uint) *gorm.DB {
	return h.db.WithContext(ctx).Model(&models.TourBooking{}).
		Joins("JOIN tour_days ON tour_days.id = tour_bookings.tour_day_id").
		Joins("JOIN tour_offers ON tour_offers.id = tour_days.tour_offer_id").
		Joins("JOIN tours ON tours.id = tour_offers.tour_id").
		Where("tours.supplier_id = ?", supplierID)
}

func (h *DashboardHandler) packageScope(ctx context.Context, supplierID uint) *gorm.DB {
	return h.db.WithContext(ctx).Model(&models.PackageBooking{}).
		Joins("JOIN package_offers ON package_offers.id = package_bookings.package_offer_id").
		Joins("JOIN packages ON packages.id = package_offers.package_id").
		Where("packages.supplier_id = ?", supplierID)
}

func stats(scope func() *gorm.DB, table string, monthStart time.Time) (bookingStats, error) {
	var s bookingStats
	if err := scope().Count(&s.Total).Error; err != nil {
		return s, err
	}
	if err := scope().Where(table+".confirmed = ? AND "+table+".expired = ?", false, false).Count(&s.Pending).Error; err != nil {
		return s, err
	}
	if err := scope().Where(table+".confirmed = ?", true).Count(&s.Confirmed).Error; err != nil {
		return s, err
	}
	if err := scope().Where(table+".paid = ?", true).Count(&s.Paid).Error; err != nil {
		return s, err
	}
	if err := scope().Where(table+".created_at >= ?", monthStart).Count(&s.ThisMonth).Error; err != nil {
		return s, err
	}
	var revenue struct{ Revenue float64 }
	if err := scope().Select("COALESCE(SUM("+table+".price), 0) as revenue").
		Where(table+".paid = ?", true).Scan(&revenue).Error; err != nil {
		return s, err
	}
	s.Revenue = revenue.Revenue
	return s, nil
}

// mergeMonths folds one booking table's monthly figures into the cross-type map.
func mergeMonths(scope *gorm.DB, table string, acc map[string]*monthStats) error {
	var rows []monthStats
	err := scope.
		Select("strftime('%Y-%m', " + table + ".created_at) as month, COUNT(*) as bookings, COALESCE(SUM(" + table + ".price), 0) as revenue").
		Group("strftime('%Y-%m', " + table + ".created_at)").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		m, ok := acc[row.Month]
		if !ok {
			m = &monthStats{Month: row.Month}
			acc[row.Month] = m
		}
		m.Bookings += row.Bookings
		m.Revenue += row.Revenue
	}
	return nil
}

// HandleDashboard returns per-type booking counts and paid revenue for the
// supplier's back office landing page.
func (h *DashboardHandler) HandleDashboard(ctx context.Context, input *DashboardRequest) (*DashboardResponse, error) {
	supplier, err := h.supplier(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	res := &DashboardResponse{}
	res.Body.Activities, err = stats(func() *gorm.DB { return h.activityScope(ctx, supplier.ID) }, "activity_bookings", monthStart)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load dashboard")
	}
	res.Body.Tours, err = stats(func() *gorm.DB { return h.tourScope(ctx, supplier.ID) }, "tour_bookings", monthStart)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load dashboard")
	}
	res.Body.Packages, err = stats(func() *gorm.DB { return h.packageScope(ctx, supplier.ID) }, "package_bookings", monthStart)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load dashboard")
	}

	months := make(map[string]*monthStats)
	if err := mergeMonths(h.activityScope(ctx, supplier.ID), "activity_bookings", months); err != nil {
		return nil, huma.Error500InternalServerError("Failed to load dashboard")
	}
	if err := mergeMonths(h.tourScope(ctx, supplier.ID), "tour_bookings", months); err != nil {
		return nil, huma.Error500InternalServerError("Failed to load dashboard")
	}
	if err := mergeMonths(h.packageScope(ctx, supplier.ID), "package_bookings", months); err != nil {
		return nil, huma.Error500InternalServerError("Failed to load dashboard")
	}
	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		res.Body.Months = append(res.Body.Months, *months[k])
	}

	// Distinct customers with any booking placed today.
	customers := make(map[uint]bool)
	for _, scope := range []struct {
		db    *gorm.DB
		table string
	}{
		{h.activityScope(ctx, supplier.ID), "activity_bookings"},
		{h.tourScope(ctx, supplier.ID), "tour_bookings"},
		{h.packageScope(ctx, supplier.ID), "package_bookings"},
	} {
		var ids []uint
		if err := scope.db.Where(scope.table+".created_at >= ?", dayStart).
			Pluck(scope.table+".customer_id", &ids).Error; err != nil {
			return nil, huma.Error500InternalServerError("Failed to load dashboard")
		}
		for _, id := range ids {
			customers[id] = true
		}
	}
	res.Body.TodayCustomers = int64(len(customers))

	return res, nil
}
