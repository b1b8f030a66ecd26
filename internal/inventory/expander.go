package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// The expander materializes a product's date range into bookable slots, one
// stock counter per (offer, day[, time]) cell. Generation is idempotent:
// re-running it never duplicates or resets existing slots, so it is safe to
// call again after adding offers. All slots of a product are created inside
// one transaction; a failure leaves no partial calendar.

// ParseClock parses a "15:04" clock time into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: bad clock time %q", ErrInvalidInput, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "15:04".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func parseDaysOff(s string) map[string]bool {
	off := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			off[part] = true
		}
	}
	return off
}

func isDayOff(off map[string]bool, day time.Time) bool {
	return off[strings.ToLower(day.Weekday().String())]
}

func validateWindow(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("%w: available_from is after available_to", ErrInvalidInput)
	}
	return nil
}

// GenerateActivityPeriods tiles every available day of every offer with
// back-to-back sub-slots of PeriodMinutes. A trailing interval that would
// cross EndTime is dropped.
func GenerateActivityPeriods(db *gorm.DB, activity *models.Activity) error {
	if err := validateWindow(activity.AvailableFrom, activity.AvailableTo); err != nil {
		return err
	}
	if activity.PeriodMinutes <= 0 {
		return fmt.Errorf("%w: period must be positive", ErrInvalidInput)
	}
	start, err := ParseClock(activity.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(activity.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}

	var offers []models.ActivityOffer
	if err := db.Where("activity_id = ?", activity.ID).Find(&offers).Error; err != nil {
		return err
	}

	daysOff := parseDaysOff(activity.DaysOff)

	return db.Transaction(func(tx *gorm.DB) error {
		for day := activity.AvailableFrom; !day.After(activity.AvailableTo); day = day.AddDate(0, 0, 1) {
			if isDayOff(daysOff, day) {
				continue
			}
			for _, offer := range offers {
				for from := start; from+activity.PeriodMinutes <= end; from += activity.PeriodMinutes {
					period := models.Period{
						ActivityOfferID: offer.ID,
						Day:             day,
						TimeFrom:        FormatClock(from),
					}
					err := tx.Where(period).
						Attrs(models.Period{
							TimeTo: FormatClock(from + activity.PeriodMinutes),
							Stock:  offer.Stock,
							Price:  offer.Price,
						}).
						FirstOrCreate(&period).Error
					if err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// GenerateTourDays emits one slot per offer per available day.
func GenerateTourDays(db *gorm.DB, tour *models.Tour) error {
	if err := validateWindow(tour.AvailableFrom, tour.AvailableTo); err != nil {
		return err
	}

	var offers []models.TourOffer
	if err := db.Where("tour_id = ?", tour.ID).Find(&offers).Error; err != nil {
		return err
	}

	daysOff := parseDaysOff(tour.DaysOff)

	return db.Transaction(func(tx *gorm.DB) error {
		for day := tour.AvailableFrom; !day.After(tour.AvailableTo); day = day.AddDate(0, 0, 1) {
			if isDayOff(daysOff, day) {
				continue
			}
			for _, offer := range offers {
				tourDay := models.TourDay{TourOfferID: offer.ID, Day: day}
				err := tx.Where(tourDay).
					Attrs(models.TourDay{Stock: offer.Stock, Price: offer.Price}).
					FirstOrCreate(&tourDay).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// GeneratePackageDays emits one slot per offer per available day. A package
// booking later consumes PeriodDays contiguous slots.
func GeneratePackageDays(db *gorm.DB, pkg *models.Package) error {
	if err := validateWindow(pkg.AvailableFrom, pkg.AvailableTo); err != nil {
		return err
	}
	if pkg.PeriodDays <= 0 {
		return fmt.Errorf("%w: period must be positive", ErrInvalidInput)
	}

	var offers []models.PackageOffer
	if err := db.Where("package_id = ?", pkg.ID).Find(&offers).Error; err != nil {
		return err
	}

	daysOff := parseDaysOff(pkg.DaysOff)

	return db.Transaction(func(tx *gorm.DB) error {
		for day := pkg.AvailableFrom; !day.After(pkg.AvailableTo); day = day.AddDate(0, 0, 1) {
			if isDayOff(daysOff, day) {
				continue
			}
			for _, offer := range offers {
				packageDay := models.PackageDay{PackageOfferID: offer.ID, Day: day}
				err := tx.Where(packageDay).
					Attrs(models.PackageDay{Stock: offer.Stock, Price: offer.Price}).
					FirstOrCreate(&packageDay).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}
