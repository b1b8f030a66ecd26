package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// Engine is the supplier-facing reservation engine: manual stock holds and
// day blocks, authorized against the owning supplier. No booking record is
// created here; customer bookings go through the booking service.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// offerSupplier resolves the supplier owning an offer's product.
func offerSupplier(tx *gorm.DB, k Kind, offerID uint) (uint, error) {
	var row struct{ SupplierID uint }
	err := tx.Table(k.OfferTable).
		Select(k.ProductTable+".supplier_id as supplier_id").
		Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.%s", k.ProductTable, k.ProductTable, k.OfferTable, k.ProductFK)).
		Where(k.OfferTable+".id = ? AND "+k.OfferTable+".deleted_at IS NULL", offerID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %s offer %d", ErrNotFound, k.Name, offerID)
	}
	if err != nil {
		return 0, err
	}
	return row.SupplierID, nil
}

func productSupplier(tx *gorm.DB, k Kind, productID uint) (uint, error) {
	var row struct{ SupplierID uint }
	err := tx.Table(k.ProductTable).
		Select("supplier_id").
		Where("id = ? AND deleted_at IS NULL", productID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %s %d", ErrNotFound, k.Name, productID)
	}
	if err != nil {
		return 0, err
	}
	return row.SupplierID, nil
}

// Reserve deducts a manual hold from one slot of an offer owned by the
// acting supplier.
func (e *Engine) Reserve(ctx context.Context, k Kind, supplierID, offerID, slotID uint, quantity int) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := offerSupplier(tx, k, offerID)
		if err != nil {
			return err
		}
		if owner != supplierID {
			return fmt.Errorf("%w: %s offer %d belongs to another supplier", ErrNotAuthorized, k.Name, offerID)
		}

		// The slot must belong to the authorized offer.
		var count int64
		if err := tx.Table(k.SlotTable).
			Where("id = ? AND "+k.OfferFK+" = ? AND deleted_at IS NULL", slotID, offerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: %s slot %d", ErrNotFound, k.Name, slotID)
		}

		return Decrement(tx, k, slotID, quantity)
	})
}

// ReservePackageRange deducts a manual hold across the contiguous day range
// starting at startDate, all-or-nothing.
func (e *Engine) ReservePackageRange(ctx context.Context, supplierID, offerID uint, startDate time.Time, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer models.PackageOffer
		if err := tx.First(&offer, offerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: package offer %d", ErrNotFound, offerID)
			}
			return err
		}
		var pkg models.Package
		if err := tx.First(&pkg, offer.PackageID).Error; err != nil {
			return err
		}
		if pkg.SupplierID != supplierID {
			return fmt.Errorf("%w: package offer %d belongs to another supplier", ErrNotAuthorized, offerID)
		}

		days, err := PackageRange(tx, &pkg, offer.ID, startDate)
		if err != nil {
			return err
		}
		for _, day := range days {
			if err := Decrement(tx, Packages, day.ID, quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// PackageRange resolves the contiguous slot run a package booking spans:
// period days starting at startDate. Fails ErrOutOfRange past the product's
// availability and ErrIncompleteRange when a days-off gap or missing
// generation breaks contiguity.
func PackageRange(tx *gorm.DB, pkg *models.Package, offerID uint, startDate time.Time) ([]models.PackageDay, error) {
	endDate := startDate.AddDate(0, 0, pkg.PeriodDays-1)
	if endDate.After(pkg.AvailableTo) {
		return nil, fmt.Errorf("%w: booking ends %s, package available until %s",
			ErrOutOfRange, endDate.Format("2006-01-02"), pkg.AvailableTo.Format("2006-01-02"))
	}

	var days []models.PackageDay
	err := tx.Where("package_offer_id = ? AND day BETWEEN ? AND ?", offerID, startDate, endDate).
		Order("day").Find(&days).Error
	if err != nil {
		return nil, err
	}
	if len(days) != pkg.PeriodDays {
		return nil, fmt.Errorf("%w: need %d days, found %d", ErrIncompleteRange, pkg.PeriodDays, len(days))
	}
	return days, nil
}

// Block zeroes all slots of the supplier's product on one day.
func (e *Engine) Block(ctx context.Context, k Kind, supplierID, productID uint, day time.Time) (int64, error) {
	var blocked int64
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := productSupplier(tx, k, productID)
		if err != nil {
			return err
		}
		if owner != supplierID {
			return fmt.Errorf("%w: %s %d belongs to another supplier", ErrNotAuthorized, k.Name, productID)
		}
		blocked, err = BlockDay(tx, k, productID, day)
		return err
	})
	return blocked, err
}
