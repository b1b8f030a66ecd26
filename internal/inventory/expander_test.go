package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Supplier{}, &models.Location{},
		&models.Activity{}, &models.ActivityOffer{}, &models.Period{},
		&models.Tour{}, &models.TourOffer{}, &models.TourDay{},
		&models.Package{}, &models.PackageOffer{}, &models.PackageDay{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateActivityPeriods(t *testing.T) {
	db := testDB(t)

	// June 1 2026 is a Monday.
	activity := models.Activity{
		Title:         "Kayaking",
		AvailableFrom: date(2026, 6, 1),
		AvailableTo:   date(2026, 6, 2),
		PeriodMinutes: 30,
		StartTime:     "09:00",
		EndTime:       "11:00",
	}
	db.Create(&activity)
	offer := models.ActivityOffer{ActivityID: activity.ID, Title: "Standard", Price: 25, Stock: 10}
	db.Create(&offer)

	if err := GenerateActivityPeriods(db, &activity); err != nil {
		t.Fatalf("GenerateActivityPeriods returned error: %v", err)
	}

	var periods []models.Period
	db.Where("activity_offer_id = ?", offer.ID).Order("day, time_from").Find(&periods)
	// 4 half-hour slots per day over 2 days.
	if len(periods) != 8 {
		t.Fatalf("expected 8 periods, got %d", len(periods))
	}
	if periods[0].TimeFrom != "09:00" || periods[0].TimeTo != "09:30" {
		t.Errorf("unexpected first slot %s-%s", periods[0].TimeFrom, periods[0].TimeTo)
	}
	if periods[3].TimeFrom != "10:30" || periods[3].TimeTo != "11:00" {
		t.Errorf("unexpected last slot %s-%s", periods[3].TimeFrom, periods[3].TimeTo)
	}
	for _, p := range periods {
		if p.Stock != 10 || p.Price != 25 {
			t.Errorf("slot %d did not inherit offer stock/price: stock=%d price=%v", p.ID, p.Stock, p.Price)
		}
	}
}

func TestGenerateActivityPeriodsDropsPartialSlot(t *testing.T) {
	db := testDB(t)

	activity := models.Activity{
		AvailableFrom: date(2026, 6, 1),
		AvailableTo:   date(2026, 6, 1),
		PeriodMinutes: 45,
		StartTime:     "09:00",
		EndTime:       "11:00",
	}
	db.Create(&activity)
	offer := models.ActivityOffer{ActivityID: activity.ID, Stock: 5}
	db.Create(&offer)

	if err := GenerateActivityPeriods(db, &activity); err != nil {
		t.Fatalf("GenerateActivityPeriods returned error: %v", err)
	}

	// 09:00-09:45 and 09:45-10:30 fit; 10:30-11:15 crosses EndTime.
	var count int64
	db.Model(&models.Period{}).Where("activity_offer_id = ?", offer.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 periods, got %d", count)
	}
}

func TestGenerateActivityPeriodsSkipsDaysOff(t *testing.T) {
	db := testDB(t)

	activity := models.Activity{
		AvailableFrom: date(2026, 6, 1), // Monday
		AvailableTo:   date(2026, 6, 7), // Sunday
		DaysOff:       "Monday, sunday",
		PeriodMinutes: 60,
		StartTime:     "09:00",
		EndTime:       "10:00",
	}
	db.Create(&activity)
	offer := models.ActivityOffer{ActivityID: activity.ID, Stock: 5}
	db.Create(&offer)

	if err := GenerateActivityPeriods(db, &activity); err != nil {
		t.Fatalf("GenerateActivityPeriods returned error: %v", err)
	}

	var days []models.Period
	db.Where("activity_offer_id = ?", offer.ID).Find(&days)
	if len(days) != 5 {
		t.Fatalf("expected 5 periods with two days off, got %d", len(days))
	}
	for _, p := range days {
		wd := p.Day.Weekday()
		if wd == time.Monday || wd == time.Sunday {
			t.Errorf("slot generated on day off %s", p.Day.Format("2006-01-02"))
		}
	}
}

func TestGenerateActivityPeriodsIdempotent(t *testing.T) {
	db := testDB(t)

	activity := models.Activity{
		AvailableFrom: date(2026, 6, 1),
		AvailableTo:   date(2026, 6, 1),
		PeriodMinutes: 60,
		StartTime:     "09:00",
		EndTime:       "11:00",
	}
	db.Create(&activity)
	offer := models.ActivityOffer{ActivityID: activity.ID, Stock: 10}
	db.Create(&offer)

	if err := GenerateActivityPeriods(db, &activity); err != nil {
		t.Fatalf("first run returned error: %v", err)
	}

	// Sell from one slot, then re-run generation.
	var first models.Period
	db.Where("activity_offer_id = ?", offer.ID).Order("time_from").First(&first)
	if err := Decrement(db, Activities, first.ID, 3); err != nil {
		t.Fatalf("Decrement returned error: %v", err)
	}

	if err := GenerateActivityPeriods(db, &activity); err != nil {
		t.Fatalf("second run returned error: %v", err)
	}

	var count int64
	db.Model(&models.Period{}).Where("activity_offer_id = ?", offer.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 periods after re-run, got %d", count)
	}
	db.First(&first, first.ID)
	if first.Stock != 7 {
		t.Errorf("re-run must not reset sold stock: expected 7, got %d", first.Stock)
	}
}

func TestGenerateActivityPeriodsValidation(t *testing.T) {
	db := testDB(t)

	cases := []struct {
		name     string
		activity models.Activity
	}{
		{"window inverted", models.Activity{
			AvailableFrom: date(2026, 6, 2), AvailableTo: date(2026, 6, 1),
			PeriodMinutes: 30, StartTime: "09:00", EndTime: "11:00",
		}},
		{"zero period", models.Activity{
			AvailableFrom: date(2026, 6, 1), AvailableTo: date(2026, 6, 2),
			PeriodMinutes: 0, StartTime: "09:00", EndTime: "11:00",
		}},
		{"start after end", models.Activity{
			AvailableFrom: date(2026, 6, 1), AvailableTo: date(2026, 6, 2),
			PeriodMinutes: 30, StartTime: "11:00", EndTime: "09:00",
		}},
		{"bad clock", models.Activity{
			AvailableFrom: date(2026, 6, 1), AvailableTo: date(2026, 6, 2),
			PeriodMinutes: 30, StartTime: "9 am", EndTime: "11:00",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := tc.activity
			db.Create(&a)
			err := GenerateActivityPeriods(db, &a)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestGenerateTourDays(t *testing.T) {
	db := testDB(t)

	tour := models.Tour{
		AvailableFrom: date(2026, 6, 1),
		AvailableTo:   date(2026, 6, 7),
		DaysOff:       "friday",
	}
	db.Create(&tour)
	standard := models.TourOffer{TourID: tour.ID, Title: "Standard", Price: 80, Stock: 15}
	vip := models.TourOffer{TourID: tour.ID, Title: "VIP", Price: 150, Stock: 4}
	db.Create(&standard)
	db.Create(&vip)

	if err := GenerateTourDays(db, &tour); err != nil {
		t.Fatalf("GenerateTourDays returned error: %v", err)
	}

	// 6 open days times 2 offers.
	var count int64
	db.Model(&models.TourDay{}).Count(&count)
	if count != 12 {
		t.Fatalf("expected 12 tour days, got %d", count)
	}

	var vipDay models.TourDay
	db.Where("tour_offer_id = ?", vip.ID).Order("day").First(&vipDay)
	if vipDay.Stock != 4 || vipDay.Price != 150 {
		t.Errorf("offer template not applied: stock=%d price=%v", vipDay.Stock, vipDay.Price)
	}

	// Re-run creates nothing new.
	if err := GenerateTourDays(db, &tour); err != nil {
		t.Fatalf("second run returned error: %v", err)
	}
	db.Model(&models.TourDay{}).Count(&count)
	if count != 12 {
		t.Errorf("expected 12 tour days after re-run, got %d", count)
	}
}

func TestGeneratePackageDays(t *testing.T) {
	db := testDB(t)

	pkg := models.Package{
		AvailableFrom: date(2026, 6, 1),
		AvailableTo:   date(2026, 6, 10),
		PeriodDays:    3,
	}
	db.Create(&pkg)
	offer := models.PackageOffer{PackageID: pkg.ID, Price: 200, Stock: 6}
	db.Create(&offer)

	if err := GeneratePackageDays(db, &pkg); err != nil {
		t.Fatalf("GeneratePackageDays returned error: %v", err)
	}

	var count int64
	db.Model(&models.PackageDay{}).Where("package_offer_id = ?", offer.ID).Count(&count)
	if count != 10 {
		t.Fatalf("expected 10 package days, got %d", count)
	}

	if err := GeneratePackageDays(db, &pkg); err != nil {
		t.Fatalf("second run returned error: %v", err)
	}
	db.Model(&models.PackageDay{}).Where("package_offer_id = ?", offer.ID).Count(&count)
	if count != 10 {
		t.Errorf("expected 10 package days after re-run, got %d", count)
	}

	pkg.PeriodDays = 0
	if err := GeneratePackageDays(db, &pkg); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero period, got %v", err)
	}
}

func TestParseClock(t *testing.T) {
	if m, err := ParseClock("09:30"); err != nil || m != 570 {
		t.Errorf("ParseClock(09:30) = %d, %v", m, err)
	}
	if _, err := ParseClock("25:00"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for 25:00, got %v", err)
	}
	if s := FormatClock(570); s != "09:30" {
		t.Errorf("FormatClock(570) = %s", s)
	}
}
