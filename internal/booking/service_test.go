package booking

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/lebadvisor/lebadvisor-api/internal/inventory"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"github.com/lebadvisor/lebadvisor-api/internal/notifier"
	"github.com/lebadvisor/lebadvisor-api/internal/qr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testService(t *testing.T) (*Service, *gorm.DB) {
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
	svc := NewService(db, notifier.NewDBNotifier(db), qr.New("https://www.lebadvisor.com", t.TempDir()))
	return svc, db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func makeCustomer(t *testing.T, db *gorm.DB, username string) models.Customer {
	t.Helper()
	user := models.User{Username: username, IsCustomer: true}
	db.Create(&user)
	customer := models.Customer{UserID: user.ID}
	db.Create(&customer)
	return customer
}

func makeSupplier(t *testing.T, db *gorm.DB, username string) models.Supplier {
	t.Helper()
	user := models.User{Username: username, IsSupplier: true}
	db.Create(&user)
	supplier := models.Supplier{UserID: user.ID}
	db.Create(&supplier)
	return supplier
}

// activityFixture builds a supplier-owned activity with one offer and one
// generated day of periods at the given stock.
func activityFixture(t *testing.T, db *gorm.DB, supplier models.Supplier, stock int) models.Period {
	t.Helper()
	activity := models.Activity{
		SupplierID:    supplier.ID,
		Title:         "Rafting",
		AvailableFrom: date(2026, 7, 1),
		AvailableTo:   date(2026, 7, 1),
		PeriodMinutes: 60,
		StartTime:     "09:00",
		EndTime:       "10:00",
	}
	db.Create(&activity)
	offer := models.ActivityOffer{ActivityID: activity.ID, Price: 40, Stock: stock}
	db.Create(&offer)
	if err := inventory.GenerateActivityPeriods(db, &activity); err != nil {
		t.Fatalf("GenerateActivityPeriods returned error: %v", err)
	}
	var period models.Period
	db.Where("activity_offer_id = ?", offer.ID).First(&period)
	return period
}

func TestActivityBookingLifecycle(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	supplier := makeSupplier(t, db, "supplier")
	customer := makeCustomer(t, db, "customer")
	period := activityFixture(t, db, supplier, 10)

	b, err := svc.CreateActivityBooking(ctx, customer.ID, period.ID, 2)
	if err != nil {
		t.Fatalf("CreateActivityBooking returned error: %v", err)
	}
	if b.Reference == "" {
		t.Error("expected a booking reference")
	}
	if b.Price != 80 {
		t.Errorf("expected price 80, got %v", b.Price)
	}
	if b.Confirmed || b.Paid {
		t.Error("new booking must be unconfirmed and unpaid")
	}

	// The hold is taken at creation.
	db.First(&period, period.ID)
	if period.Stock != 8 {
		t.Errorf("expected stock 8 after booking, got %d", period.Stock)
	}

	confirmed, err := svc.ConfirmActivityBooking(ctx, supplier.ID, b.ID)
	if err != nil {
		t.Fatalf("ConfirmActivityBooking returned error: %v", err)
	}
	if !confirmed.Confirmed {
		t.Error("expected booking to be confirmed")
	}
	if confirmed.Paid {
		t.Error("confirmation must not mark the booking paid")
	}
	if confirmed.QRCode == "" {
		t.Fatal("expected a QR code path")
	}
	if _, err := os.Stat(confirmed.QRCode); err != nil {
		t.Errorf("QR file not written: %v", err)
	}

	// Confirmation does not deduct again.
	db.First(&period, period.ID)
	if period.Stock != 8 {
		t.Errorf("expected stock 8 after confirmation, got %d", period.Stock)
	}

	if _, err := svc.ConfirmActivityBooking(ctx, supplier.ID, b.ID); !errors.Is(err, inventory.ErrAlreadyConfirmed) {
		t.Errorf("expected ErrAlreadyConfirmed, got %v", err)
	}

	paid, err := svc.ConfirmActivityPayment(ctx, supplier.ID, b.ID)
	if err != nil {
		t.Fatalf("ConfirmActivityPayment returned error: %v", err)
	}
	if !paid.Paid {
		t.Error("expected booking to be paid")
	}
	// Re-sending the payment confirmation is not an error.
	if _, err := svc.ConfirmActivityPayment(ctx, supplier.ID, b.ID); err != nil {
		t.Errorf("repeated payment confirmation returned error: %v", err)
	}

	// Both parties got creation notifications, the customer a confirmation one.
	var count int64
	db.Model(&models.Notification{}).Count(&count)
	if count < 3 {
		t.Errorf("expected at least 3 notifications, got %d", count)
	}
}

func TestConfirmRequiresOwnership(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	supplier := makeSupplier(t, db, "owner")
	intruder := makeSupplier(t, db, "intruder")
	customer := makeCustomer(t, db, "customer")
	period := activityFixture(t, db, supplier, 5)

	b, err := svc.CreateActivityBooking(ctx, customer.ID, period.ID, 1)
	if err != nil {
		t.Fatalf("CreateActivityBooking returned error: %v", err)
	}

	if _, err := svc.ConfirmActivityBooking(ctx, intruder.ID, b.ID); !errors.Is(err, inventory.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := svc.ConfirmActivityPayment(ctx, intruder.ID, b.ID); !errors.Is(err, inventory.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestPaymentRequiresConfirmation(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	supplier := makeSupplier(t, db, "supplier")
	customer := makeCustomer(t, db, "customer")
	period := activityFixture(t, db, supplier, 5)

	b, err := svc.CreateActivityBooking(ctx, customer.ID, period.ID, 1)
	if err != nil {
		t.Fatalf("CreateActivityBooking returned error: %v", err)
	}
	if _, err := svc.ConfirmActivityPayment(ctx, supplier.ID, b.ID); !errors.Is(err, inventory.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unconfirmed booking, got %v", err)
	}
}

func TestCreateBookingStockAndQuantity(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	supplier := makeSupplier(t, db, "supplier")
	customer := makeCustomer(t, db, "customer")
	period := activityFixture(t, db, supplier, 3)

	if _, err := svc.CreateActivityBooking(ctx, customer.ID, period.ID, 4); !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
	if _, err := svc.CreateActivityBooking(ctx, customer.ID, period.ID, 0); !errors.Is(err, inventory.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero quantity, got %v", err)
	}
	if _, err := svc.CreateActivityBooking(ctx, customer.ID, 9999, 1); !errors.Is(err, inventory.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing period, got %v", err)
	}

	// Failed attempts left stock alone.
	db.First(&period, period.ID)
	if period.Stock != 3 {
		t.Errorf("expected stock 3, got %d", period.Stock)
	}
}

func packageFixture(t *testing.T, db *gorm.DB, supplier models.Supplier, stock int) models.PackageOffer {
	t.Helper()
	pkg := models.Package{
		SupplierID:    supplier.ID,
		Title:         "Cedars Escape",
		AvailableFrom: date(2026, 7, 1),
		AvailableTo:   date(2026, 7, 6),
		PeriodDays:    3,
	}
	db.Create(&pkg)
	offer := models.PackageOffer{PackageID: pkg.ID, Price: 120, Stock: stock}
	db.Create(&offer)
	if err := inventory.GeneratePackageDays(db, &pkg); err != nil {
		t.Fatalf("GeneratePackageDays returned error: %v", err)
	}
	return offer
}

func TestPackageBooking(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	supplier := makeSupplier(t, db, "supplier")
	customer := makeCustomer(t, db, "customer")
	offer := packageFixture(t, db, supplier, 4)

	b, err := svc.CreatePackageBooking(ctx, customer.ID, offer.ID, date(2026, 7, 2), 2)
	if err != nil {
		t.Fatalf("CreatePackageBooking returned error: %v", err)
	}
	if !b.EndDate.Equal(date(2026, 7, 4)) {
		t.Errorf("expected end date 2026-07-04, got %s", b.EndDate.Format("2006-01-02"))
	}
	// Mean daily rate 120 times quantity 2.
	if b.Price != 240 {
		t.Errorf("expected price 240, got %v", b.Price)
	}

	var days []models.PackageDay
	db.Where("package_offer_id = ? AND day BETWEEN ? AND ?", offer.ID, b.StartDate, b.EndDate).Find(&days)
	if len(days) != 3 {
		t.Fatalf("expected 3 days in range, got %d", len(days))
	}
	for _, d := range days {
		if d.Stock != 2 {
			t.Errorf("day %s expected stock 2, got %d", d.Day.Format("2006-01-02"), d.Stock)
		}
	}

	// Out of the availability window.
	if _, err := svc.CreatePackageBooking(ctx, customer.ID, offer.ID, date(2026, 7, 5), 1); !errors.Is(err, inventory.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestPackageBookingAllOrNothing(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	supplier := makeSupplier(t, db, "supplier")
	customer := makeCustomer(t, db, "customer")
	offer := packageFixture(t, db, supplier, 4)

	// Drain the middle day so the range cannot be satisfied.
	db.Model(&models.PackageDay{}).
		Where("package_offer_id = ? AND day = ?", offer.ID, date(2026, 7, 3)).
		Update("stock", 1)

	_, err := svc.CreatePackageBooking(ctx, customer.ID, offer.ID, date(2026, 7, 2), 2)
	if !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// No day in the range lost stock.
	var days []models.PackageDay
	db.Where("package_offer_id = ?", offer.ID).Order("day").Find(&days)
	for _, d := range days {
		want := 4
		if d.Day.Equal(date(2026, 7, 3)) {
			want = 1
		}
		if d.Stock != want {
			t.Errorf("day %s expected stock %d, got %d", d.Day.Format("2006-01-02"), want, d.Stock)
		}
	}
}

func TestReleaseExpiredHolds(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	supplier := makeSupplier(t, db, "supplier")
	customer := makeCustomer(t, db, "customer")
	period := activityFixture(t, db, supplier, 10)
	offer := packageFixture(t, db, supplier, 4)

	abandoned, err := svc.CreateActivityBooking(ctx, customer.ID, period.ID, 2)
	if err != nil {
		t.Fatalf("CreateActivityBooking returned error: %v", err)
	}
	kept, err := svc.CreateActivityBooking(ctx, customer.ID, period.ID, 1)
	if err != nil {
		t.Fatalf("CreateActivityBooking returned error: %v", err)
	}
	if _, err := svc.ConfirmActivityBooking(ctx, supplier.ID, kept.ID); err != nil {
		t.Fatalf("ConfirmActivityBooking returned error: %v", err)
	}
	pkgBooking, err := svc.CreatePackageBooking(ctx, customer.ID, offer.ID, date(2026, 7, 2), 1)
	if err != nil {
		t.Fatalf("CreatePackageBooking returned error: %v", err)
	}

	released, err := svc.ReleaseExpiredHolds(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ReleaseExpiredHolds returned error: %v", err)
	}
	if released != 2 {
		t.Errorf("expected 2 released holds, got %d", released)
	}

	// Abandoned holds restored, confirmed hold kept.
	db.First(&period, period.ID)
	if period.Stock != 9 {
		t.Errorf("expected stock 9 after release, got %d", period.Stock)
	}
	var days []models.PackageDay
	db.Where("package_offer_id = ? AND day BETWEEN ? AND ?", offer.ID, pkgBooking.StartDate, pkgBooking.EndDate).Find(&days)
	for _, d := range days {
		if d.Stock != 4 {
			t.Errorf("day %s expected stock 4 after release, got %d", d.Day.Format("2006-01-02"), d.Stock)
		}
	}

	db.First(abandoned, abandoned.ID)
	if !abandoned.Expired {
		t.Error("expected abandoned booking to be expired")
	}

	// An expired booking can no longer be confirmed.
	if _, err := svc.ConfirmActivityBooking(ctx, supplier.ID, abandoned.ID); !errors.Is(err, inventory.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for expired booking, got %v", err)
	}

	// A second sweep finds nothing.
	released, err = svc.ReleaseExpiredHolds(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ReleaseExpiredHolds returned error: %v", err)
	}
	if released != 0 {
		t.Errorf("expected no further releases, got %d", released)
	}
}

func TestTourBookingLifecycle(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	supplier := makeSupplier(t, db, "supplier")
	customer := makeCustomer(t, db, "customer")

	tour := models.Tour{
		SupplierID:    supplier.ID,
		Title:         "Qadisha Valley",
		AvailableFrom: date(2026, 7, 1),
		AvailableTo:   date(2026, 7, 2),
	}
	db.Create(&tour)
	offer := models.TourOffer{TourID: tour.ID, Price: 60, Stock: 6}
	db.Create(&offer)
	if err := inventory.GenerateTourDays(db, &tour); err != nil {
		t.Fatalf("GenerateTourDays returned error: %v", err)
	}
	var day models.TourDay
	db.Where("tour_offer_id = ?", offer.ID).Order("day").First(&day)

	b, err := svc.CreateTourBooking(ctx, customer.ID, day.ID, 3)
	if err != nil {
		t.Fatalf("CreateTourBooking returned error: %v", err)
	}
	if b.Price != 180 {
		t.Errorf("expected price 180, got %v", b.Price)
	}
	db.First(&day, day.ID)
	if day.Stock != 3 {
		t.Errorf("expected stock 3, got %d", day.Stock)
	}

	if _, err := svc.ConfirmTourBooking(ctx, supplier.ID, b.ID); err != nil {
		t.Fatalf("ConfirmTourBooking returned error: %v", err)
	}
	if _, err := svc.ConfirmTourPayment(ctx, supplier.ID, b.ID); err != nil {
		t.Fatalf("ConfirmTourPayment returned error: %v", err)
	}
	db.First(b, b.ID)
	if !b.Confirmed || !b.Paid {
		t.Error("expected booking confirmed and paid")
	}
}
