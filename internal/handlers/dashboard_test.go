package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/booking"
	"github.com/lebadvisor/lebadvisor-api/internal/config"
	"github.com/lebadvisor/lebadvisor-api/internal/inventory"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"github.com/lebadvisor/lebadvisor-api/internal/notifier"
	"github.com/lebadvisor/lebadvisor-api/internal/qr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dashboardTestSetup(t *testing.T) (*DashboardHandler, *gorm.DB, context.Context, models.Supplier, models.Customer) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Supplier{}, &models.Customer{}, &models.Notification{},
		&models.Activity{}, &models.ActivityOffer{}, &models.Period{}, &models.ActivityBooking{},
		&models.Tour{}, &models.TourOffer{}, &models.TourDay{}, &models.TourBooking{},
		&models.Package{}, &models.PackageOffer{}, &models.PackageDay{}, &models.PackageBooking{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	supplierUser := models.User{Username: "supplier", IsSupplier: true}
	db.Create(&supplierUser)
	supplier := models.Supplier{UserID: supplierUser.ID}
	db.Create(&supplier)
	customerUser := models.User{Username: "customer", IsCustomer: true}
	db.Create(&customerUser)
	customer := models.Customer{UserID: customerUser.ID}
	db.Create(&customer)

	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db)
	svc := booking.NewService(db, notifier.NewDBNotifier(db), qr.New("https://www.lebadvisor.com", t.TempDir()))
	handler := NewDashboardHandler(db, svc, authHandler)
	ctx := context.WithValue(context.Background(), auth.UserIDKey, supplierUser.ID)
	return handler, db, ctx, supplier, customer
}

func TestDashboardLifecycle(t *testing.T) {
	handler, db, ctx, supplier, customer := dashboardTestSetup(t)

	activity := models.Activity{
		SupplierID:    supplier.ID,
		Title:         "Jeita Grotto Visit",
		AvailableFrom: date(2026, 7, 1),
		AvailableTo:   date(2026, 7, 1),
		PeriodMinutes: 60,
		StartTime:     "09:00",
		EndTime:       "10:00",
	}
	db.Create(&activity)
	offer := models.ActivityOffer{ActivityID: activity.ID, Price: 30, Stock: 10}
	db.Create(&offer)
	if err := inventory.GenerateActivityPeriods(db, &activity); err != nil {
		t.Fatalf("GenerateActivityPeriods returned error: %v", err)
	}
	var period models.Period
	db.Where("activity_offer_id = ?", offer.ID).First(&period)

	b, err := handler.svc.CreateActivityBooking(ctx, customer.ID, period.ID, 2)
	if err != nil {
		t.Fatalf("CreateActivityBooking returned error: %v", err)
	}

	listed, err := handler.HandleActivityBookings(ctx, &SupplierBookingsRequest{})
	if err != nil {
		t.Fatalf("HandleActivityBookings returned error: %v", err)
	}
	if len(listed.Body) != 1 || listed.Body[0].ID != b.ID {
		t.Fatalf("expected the new booking in the supplier listing, got %d rows", len(listed.Body))
	}

	req := &BookingActionRequest{ID: b.ID}
	if _, err := handler.HandleConfirmActivityBooking(ctx, req); err != nil {
		t.Fatalf("HandleConfirmActivityBooking returned error: %v", err)
	}
	if _, err := handler.HandleConfirmActivityPayment(ctx, req); err != nil {
		t.Fatalf("HandleConfirmActivityPayment returned error: %v", err)
	}

	dash, err := handler.HandleDashboard(ctx, &DashboardRequest{})
	if err != nil {
		t.Fatalf("HandleDashboard returned error: %v", err)
	}
	a := dash.Body.Activities
	if a.Total != 1 || a.Confirmed != 1 || a.Paid != 1 || a.Pending != 0 {
		t.Errorf("unexpected activity stats: %+v", a)
	}
	if a.Revenue != 60 {
		t.Errorf("expected revenue 60, got %v", a.Revenue)
	}
	if len(dash.Body.Months) != 1 || dash.Body.Months[0].Bookings != 1 {
		t.Errorf("unexpected monthly aggregates: %+v", dash.Body.Months)
	}
	if dash.Body.TodayCustomers != 1 {
		t.Errorf("expected 1 customer today, got %d", dash.Body.TodayCustomers)
	}
}

func TestDashboardForeignSupplierSeesNothing(t *testing.T) {
	handler, db, ctx, supplier, customer := dashboardTestSetup(t)

	activity := models.Activity{
		SupplierID:    supplier.ID,
		AvailableFrom: date(2026, 7, 1),
		AvailableTo:   date(2026, 7, 1),
		PeriodMinutes: 60,
		StartTime:     "09:00",
		EndTime:       "10:00",
	}
	db.Create(&activity)
	offer := models.ActivityOffer{ActivityID: activity.ID, Price: 30, Stock: 10}
	db.Create(&offer)
	if err := inventory.GenerateActivityPeriods(db, &activity); err != nil {
		t.Fatalf("GenerateActivityPeriods returned error: %v", err)
	}
	var period models.Period
	db.Where("activity_offer_id = ?", offer.ID).First(&period)
	b, err := handler.svc.CreateActivityBooking(ctx, customer.ID, period.ID, 1)
	if err != nil {
		t.Fatalf("CreateActivityBooking returned error: %v", err)
	}

	otherUser := models.User{Username: "other", IsSupplier: true}
	db.Create(&otherUser)
	db.Create(&models.Supplier{UserID: otherUser.ID})
	otherCtx := context.WithValue(context.Background(), auth.UserIDKey, otherUser.ID)

	listed, err := handler.HandleActivityBookings(otherCtx, &SupplierBookingsRequest{})
	if err != nil {
		t.Fatalf("HandleActivityBookings returned error: %v", err)
	}
	if len(listed.Body) != 0 {
		t.Errorf("foreign supplier must not see bookings, got %d", len(listed.Body))
	}

	if _, err := handler.HandleConfirmActivityBooking(otherCtx, &BookingActionRequest{ID: b.ID}); err == nil {
		t.Error("expected confirmation by foreign supplier to fail")
	}
}
