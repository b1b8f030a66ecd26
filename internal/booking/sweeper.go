package booking

import (
	"context"
	"log"
	"time"

	"github.com/lebadvisor/lebadvisor-api/internal/inventory"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// ReleaseExpiredHolds releases the provisional stock hold of every booking
// still unconfirmed at cutoff and marks it expired. Returns how many
// bookings were released.
func (s *Service) ReleaseExpiredHolds(ctx context.Context, cutoff time.Time) (int, error) {
	released := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activityBookings []models.ActivityBooking
		if err := tx.Where("confirmed = ? AND expired = ? AND created_at < ?", false, false, cutoff).
			Find(&activityBookings).Error; err != nil {
			return err
		}
		for i := range activityBookings {
			b := &activityBookings[i]
			if err := inventory.Increment(tx, inventory.Activities, b.PeriodID, b.Quantity); err != nil {
				return err
			}
			b.Expired = true
			if err := tx.Save(b).Error; err != nil {
				return err
			}
			released++
		}

		var tourBookings []models.TourBooking
		if err := tx.Where("confirmed = ? AND expired = ? AND created_at < ?", false, false, cutoff).
			Find(&tourBookings).Error; err != nil {
			return err
		}
		for i := range tourBookings {
			b := &tourBookings[i]
			if err := inventory.Increment(tx, inventory.Tours, b.TourDayID, b.Quantity); err != nil {
				return err
			}
			b.Expired = true
			if err := tx.Save(b).Error; err != nil {
				return err
			}
			released++
		}

		var packageBookings []models.PackageBooking
		if err := tx.Where("confirmed = ? AND expired = ? AND created_at < ?", false, false, cutoff).
			Find(&packageBookings).Error; err != nil {
			return err
		}
		for i := range packageBookings {
			b := &packageBookings[i]
			var days []models.PackageDay
			if err := tx.Where("package_offer_id = ? AND day BETWEEN ? AND ?",
				b.PackageOfferID, b.StartDate, b.EndDate).Find(&days).Error; err != nil {
				return err
			}
			for _, day := range days {
				if err := inventory.Increment(tx, inventory.Packages, day.ID, b.Quantity); err != nil {
					return err
				}
			}
			b.Expired = true
			if err := tx.Save(b).Error; err != nil {
				return err
			}
			released++
		}
		return nil
	})
	return released, err
}

// Sweeper periodically releases abandoned unconfirmed bookings.
type Sweeper struct {
	svc      *Service
	holdTTL  time.Duration
	interval time.Duration
}

func NewSweeper(svc *Service, holdTTL, interval time.Duration) *Sweeper {
	return &Sweeper{svc: svc, holdTTL: holdTTL, interval: interval}
}

func (w *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("booking: hold sweeper started (ttl %s)", w.holdTTL)
	for {
		select {
		case <-ctx.Done():
			log.Printf("booking: hold sweeper stopped")
			return
		case <-ticker.C:
			released, err := w.svc.ReleaseExpiredHolds(ctx, time.Now().Add(-w.holdTTL))
			if err != nil {
				log.Printf("booking: release expired holds: %v", err)
				continue
			}
			if released > 0 {
				log.Printf("booking: released %d expired holds", released)
			}
		}
	}
}
