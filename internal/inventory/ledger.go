package inventory

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Kind describes the tables of one product family so stock mutations can be
// written once for periods, tour days and package days alike.
type Kind struct {
	Name      string
	SlotTable string
	OfferTable string
	ProductTable string
	OfferFK   string // slot column referencing the offer
	ProductFK string // offer column referencing the product
}

var (
	Activities = Kind{
		Name: "activity", SlotTable: "periods", OfferTable: "activity_offers",
		ProductTable: "activities", OfferFK: "activity_offer_id", ProductFK: "activity_id",
	}
	Tours = Kind{
		Name: "tour", SlotTable: "tour_days", OfferTable: "tour_offers",
		ProductTable: "tours", OfferFK: "tour_offer_id", ProductFK: "tour_id",
	}
	Packages = Kind{
		Name: "package", SlotTable: "package_days", OfferTable: "package_offers",
		ProductTable: "packages", OfferFK: "package_offer_id", ProductFK: "package_id",
	}
)

// Decrement applies a conditional stock deduction to one slot. The stock
// check and the write are a single UPDATE, so a slot can never be driven
// below zero no matter how many requests race on it.
func Decrement(tx *gorm.DB, k Kind, slotID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	res := tx.Table(k.SlotTable).
		Where("id = ? AND deleted_at IS NULL AND stock >= ?", slotID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Table(k.SlotTable).Where("id = ? AND deleted_at IS NULL", slotID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: %s slot %d", ErrNotFound, k.Name, slotID)
		}
		return fmt.Errorf("%w: %s slot %d", ErrInsufficientStock, k.Name, slotID)
	}
	return nil
}

// Increment restores stock, used when a provisional hold is released.
func Increment(tx *gorm.DB, k Kind, slotID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	res := tx.Table(k.SlotTable).
		Where("id = ? AND deleted_at IS NULL", slotID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s slot %d", ErrNotFound, k.Name, slotID)
	}
	return nil
}

// BlockDay zeroes the stock of every slot of every offer of a product on one
// day. Returns ErrNotFound when the day has no slots at all.
func BlockDay(tx *gorm.DB, k Kind, productID uint, day time.Time) (int64, error) {
	offerIDs := tx.Session(&gorm.Session{NewDB: true}).
		Table(k.OfferTable).Select("id").
		Where(k.ProductFK+" = ?", productID)

	res := tx.Table(k.SlotTable).
		Where(k.OfferFK+" IN (?)", offerIDs).
		Where("day = ? AND deleted_at IS NULL", day).
		Update("stock", 0)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: no %s slots on %s", ErrNotFound, k.Name, day.Format("2006-01-02"))
	}
	return res.RowsAffected, nil
}
