package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lebadvisor/lebadvisor-api/internal/inventory"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"github.com/lebadvisor/lebadvisor-api/internal/notifier"
	"github.com/lebadvisor/lebadvisor-api/internal/qr"
	"gorm.io/gorm"
)

// Service owns the booking lifecycle: Created -> Confirmed -> Paid.
//
// Stock policy: creation takes a provisional hold (atomic decrement) for
// every product type; confirmation only flips state, generates the QR
// artifact and notifies. A hold left unconfirmed past the TTL is released
// by the sweeper, which restores stock and marks the booking expired.
type Service struct {
	db       *gorm.DB
	notifier notifier.Notifier
	qr       *qr.Generator
}

func NewService(db *gorm.DB, n notifier.Notifier, qrGen *qr.Generator) *Service {
	return &Service{db: db, notifier: n, qr: qrGen}
}

func (s *Service) notify(userID uint, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(userID, message); err != nil {
		log.Printf("booking: notify user %d: %v", userID, err)
	}
}

func validQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", inventory.ErrInvalidInput)
	}
	return nil
}

func notFoundOr(err error, wrapped error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wrapped
	}
	return err
}

// activityContext loads the slot's offer, product and supplier for
// authorization and notification text.
func activityContext(tx *gorm.DB, period *models.Period) (*models.Activity, error) {
	var offer models.ActivityOffer
	if err := tx.First(&offer, period.ActivityOfferID).Error; err != nil {
		return nil, err
	}
	var activity models.Activity
	if err := tx.Preload("Supplier").First(&activity, offer.ActivityID).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func tourContext(tx *gorm.DB, day *models.TourDay) (*models.Tour, error) {
	var offer models.TourOffer
	if err := tx.First(&offer, day.TourOfferID).Error; err != nil {
		return nil, err
	}
	var tour models.Tour
	if err := tx.Preload("Supplier").First(&tour, offer.TourID).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

func packageContext(tx *gorm.DB, offer *models.PackageOffer) (*models.Package, error) {
	var pkg models.Package
	if err := tx.Preload("Supplier").First(&pkg, offer.PackageID).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

// CreateActivityBooking places a customer booking on one period, holding
// quantity units of its stock.
func (s *Service) CreateActivityBooking(ctx context.Context, customerID, periodID uint, quantity int) (*models.ActivityBooking, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	var booking models.ActivityBooking
	var customerUserID, supplierUserID uint
	var title string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: customer %d", inventory.ErrNotFound, customerID))
		}
		var period models.Period
		if err := tx.First(&period, periodID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: period %d", inventory.ErrNotFound, periodID))
		}
		activity, err := activityContext(tx, &period)
		if err != nil {
			return err
		}

		if err := inventory.Decrement(tx, inventory.Activities, period.ID, quantity); err != nil {
			return err
		}

		booking = models.ActivityBooking{
			Reference:  uuid.NewString(),
			CustomerID: customer.ID,
			PeriodID:   period.ID,
			Quantity:   quantity,
			Price:      float64(quantity) * period.Price,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		customerUserID = customer.UserID
		supplierUserID = activity.Supplier.UserID
		title = activity.Title
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(customerUserID, fmt.Sprintf("Booking %s created, waiting for supplier confirmation", title))
	s.notify(supplierUserID, fmt.Sprintf("New booking for %s waiting for your confirmation", title))
	return &booking, nil
}

// CreateTourBooking places a customer booking on one tour day.
func (s *Service) CreateTourBooking(ctx context.Context, customerID, tourDayID uint, quantity int) (*models.TourBooking, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	var booking models.TourBooking
	var customerUserID, supplierUserID uint
	var title string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: customer %d", inventory.ErrNotFound, customerID))
		}
		var day models.TourDay
		if err := tx.First(&day, tourDayID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: tour day %d", inventory.ErrNotFound, tourDayID))
		}
		tour, err := tourContext(tx, &day)
		if err != nil {
			return err
		}

		if err := inventory.Decrement(tx, inventory.Tours, day.ID, quantity); err != nil {
			return err
		}

		booking = models.TourBooking{
			Reference:  uuid.NewString(),
			CustomerID: customer.ID,
			TourDayID:  day.ID,
			Quantity:   quantity,
			Price:      float64(quantity) * day.Price,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		customerUserID = customer.UserID
		supplierUserID = tour.Supplier.UserID
		title = tour.Title
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(customerUserID, fmt.Sprintf("Booking %s created, waiting for supplier confirmation", title))
	s.notify(supplierUserID, fmt.Sprintf("New booking for %s waiting for your confirmation", title))
	return &booking, nil
}

// CreatePackageBooking places a booking spanning the package's period of
// contiguous days from startDate. The hold is all-or-nothing across the
// range; the price is the mean daily rate times quantity.
func (s *Service) CreatePackageBooking(ctx context.Context, customerID, offerID uint, startDate time.Time, quantity int) (*models.PackageBooking, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	var booking models.PackageBooking
	var customerUserID, supplierUserID uint
	var title string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: customer %d", inventory.ErrNotFound, customerID))
		}
		var offer models.PackageOffer
		if err := tx.First(&offer, offerID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: package offer %d", inventory.ErrNotFound, offerID))
		}
		pkg, err := packageContext(tx, &offer)
		if err != nil {
			return err
		}

		days, err := inventory.PackageRange(tx, pkg, offer.ID, startDate)
		if err != nil {
			return err
		}

		// Check the whole range before touching any row so a failure mutates
		// nothing even without relying on rollback ordering.
		total := 0.0
		for _, day := range days {
			if day.Stock < quantity {
				return fmt.Errorf("%w: %s has %d left", inventory.ErrInsufficientStock,
					day.Day.Format("2006-01-02"), day.Stock)
			}
			total += day.Price
		}
		for _, day := range days {
			if err := inventory.Decrement(tx, inventory.Packages, day.ID, quantity); err != nil {
				return err
			}
		}

		mean := 1.0
		if len(days) > 0 {
			mean = total / float64(len(days))
		}

		booking = models.PackageBooking{
			Reference:      uuid.NewString(),
			CustomerID:     customer.ID,
			PackageOfferID: offer.ID,
			StartDate:      startDate,
			EndDate:        startDate.AddDate(0, 0, pkg.PeriodDays-1),
			Quantity:       quantity,
			Price:          mean * float64(quantity),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		customerUserID = customer.UserID
		supplierUserID = pkg.Supplier.UserID
		title = pkg.Title
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(customerUserID, fmt.Sprintf("Booking %s created, waiting for supplier confirmation", title))
	s.notify(supplierUserID, fmt.Sprintf("New booking for %s waiting for your confirmation", title))
	return &booking, nil
}

// guardTransition applies the shared Created -> Confirmed checks.
func guardTransition(confirmed, expired bool) error {
	if expired {
		return fmt.Errorf("%w: booking hold expired", inventory.ErrInvalidInput)
	}
	if confirmed {
		return inventory.ErrAlreadyConfirmed
	}
	return nil
}

// ConfirmActivityBooking moves a booking to Confirmed, generates its QR
// artifact and notifies the customer. Stock was already held at creation.
func (s *Service) ConfirmActivityBooking(ctx context.Context, supplierID, bookingID uint) (*models.ActivityBooking, error) {
	var booking models.ActivityBooking
	var customerUserID uint
	var title string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").First(&booking, bookingID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: booking %d", inventory.ErrNotFound, bookingID))
		}
		var period models.Period
		if err := tx.First(&period, booking.PeriodID).Error; err != nil {
			return err
		}
		activity, err := activityContext(tx, &period)
		if err != nil {
			return err
		}
		if activity.SupplierID != supplierID {
			return fmt.Errorf("%w: booking %d belongs to another supplier", inventory.ErrNotAuthorized, bookingID)
		}
		if err := guardTransition(booking.Confirmed, booking.Expired); err != nil {
			return err
		}

		booking.Confirmed = true
		path, err := s.qr.Generate("activity", booking.ID)
		if err != nil {
			return err
		}
		booking.QRCode = path

		customerUserID = booking.Customer.UserID
		title = activity.Title
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(customerUserID, fmt.Sprintf("Activity %s got confirmed", title))
	return &booking, nil
}

func (s *Service) ConfirmTourBooking(ctx context.Context, supplierID, bookingID uint) (*models.TourBooking, error) {
	var booking models.TourBooking
	var customerUserID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").First(&booking, bookingID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: booking %d", inventory.ErrNotFound, bookingID))
		}
		var day models.TourDay
		if err := tx.First(&day, booking.TourDayID).Error; err != nil {
			return err
		}
		tour, err := tourContext(tx, &day)
		if err != nil {
			return err
		}
		if tour.SupplierID != supplierID {
			return fmt.Errorf("%w: booking %d belongs to another supplier", inventory.ErrNotAuthorized, bookingID)
		}
		if err := guardTransition(booking.Confirmed, booking.Expired); err != nil {
			return err
		}

		booking.Confirmed = true
		path, err := s.qr.Generate("tour", booking.ID)
		if err != nil {
			return err
		}
		booking.QRCode = path

		customerUserID = booking.Customer.UserID
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(customerUserID, "Tour got confirmed, enjoy your time")
	return &booking, nil
}

func (s *Service) ConfirmPackageBooking(ctx context.Context, supplierID, bookingID uint) (*models.PackageBooking, error) {
	var booking models.PackageBooking
	var customerUserID uint
	var title string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").Preload("PackageOffer").First(&booking, bookingID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: booking %d", inventory.ErrNotFound, bookingID))
		}
		pkg, err := packageContext(tx, &booking.PackageOffer)
		if err != nil {
			return err
		}
		if pkg.SupplierID != supplierID {
			return fmt.Errorf("%w: booking %d belongs to another supplier", inventory.ErrNotAuthorized, bookingID)
		}
		if err := guardTransition(booking.Confirmed, booking.Expired); err != nil {
			return err
		}

		booking.Confirmed = true
		path, err := s.qr.Generate("package", booking.ID)
		if err != nil {
			return err
		}
		booking.QRCode = path

		customerUserID = booking.Customer.UserID
		title = pkg.Title
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(customerUserID, fmt.Sprintf("Package %s got confirmed, enjoy your time", title))
	return &booking, nil
}

// ConfirmActivityPayment marks a confirmed booking paid. Calling it twice is
// not an error; it just re-sends the notifications.
func (s *Service) ConfirmActivityPayment(ctx context.Context, supplierID, bookingID uint) (*models.ActivityBooking, error) {
	var booking models.ActivityBooking
	var customerUserID, supplierUserID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").First(&booking, bookingID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: booking %d", inventory.ErrNotFound, bookingID))
		}
		var period models.Period
		if err := tx.First(&period, booking.PeriodID).Error; err != nil {
			return err
		}
		activity, err := activityContext(tx, &period)
		if err != nil {
			return err
		}
		if activity.SupplierID != supplierID {
			return fmt.Errorf("%w: booking %d belongs to another supplier", inventory.ErrNotAuthorized, bookingID)
		}
		if !booking.Confirmed {
			return fmt.Errorf("%w: booking must be confirmed before payment", inventory.ErrInvalidInput)
		}

		booking.Paid = true
		customerUserID = booking.Customer.UserID
		supplierUserID = activity.Supplier.UserID
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(customerUserID, "Activity booking got paid")
	s.notify(supplierUserID, "Activity booking got paid")
	return &booking, nil
}

func (s *Service) ConfirmTourPayment(ctx context.Context, supplierID, bookingID uint) (*models.TourBooking, error) {
	var booking models.TourBooking
	var customerUserID, supplierUserID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").First(&booking, bookingID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: booking %d", inventory.ErrNotFound, bookingID))
		}
		var day models.TourDay
		if err := tx.First(&day, booking.TourDayID).Error; err != nil {
			return err
		}
		tour, err := tourContext(tx, &day)
		if err != nil {
			return err
		}
		if tour.SupplierID != supplierID {
			return fmt.Errorf("%w: booking %d belongs to another supplier", inventory.ErrNotAuthorized, bookingID)
		}
		if !booking.Confirmed {
			return fmt.Errorf("%w: booking must be confirmed before payment", inventory.ErrInvalidInput)
		}

		booking.Paid = true
		customerUserID = booking.Customer.UserID
		supplierUserID = tour.Supplier.UserID
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(customerUserID, "Tour booking got paid")
	s.notify(supplierUserID, "Tour booking got paid")
	return &booking, nil
}

func (s *Service) ConfirmPackagePayment(ctx context.Context, supplierID, bookingID uint) (*models.PackageBooking, error) {
	var booking models.PackageBooking
	var customerUserID, supplierUserID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Customer").Preload("PackageOffer").First(&booking, bookingID).Error; err != nil {
			return notFoundOr(err, fmt.Errorf("%w: booking %d", inventory.ErrNotFound, bookingID))
		}
		pkg, err := packageContext(tx, &booking.PackageOffer)
		if err != nil {
			return err
		}
		if pkg.SupplierID != supplierID {
			return fmt.Errorf("%w: booking %d belongs to another supplier", inventory.ErrNotAuthorized, bookingID)
		}
		if !booking.Confirmed {
			return fmt.Errorf("%w: booking must be confirmed before payment", inventory.ErrInvalidInput)
		}

		booking.Paid = true
		customerUserID = booking.Customer.UserID
		supplierUserID = pkg.Supplier.UserID
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(customerUserID, "Package booking got paid")
	s.notify(supplierUserID, "Package booking got paid")
	return &booking, nil
}
