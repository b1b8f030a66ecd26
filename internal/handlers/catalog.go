package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/cache"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// CatalogHandler serves the public read side of the marketplace. Listings
// only show products whose availability window has not ended, and slot
// lookups only return entries that still have stock.
type CatalogHandler struct {
	db          *gorm.DB
	cache       *cache.Cache
	authHandler *auth.AuthHandler
	now         Clock
}

func NewCatalogHandler(db *gorm.DB, c *cache.Cache, authHandler *auth.AuthHandler, now Clock) *CatalogHandler {
	return &CatalogHandler{db: db, cache: c, authHandler: authHandler, now: now}
}

func (h *CatalogHandler) available(db *gorm.DB) *gorm.DB {
	return db.Where("available_to >= ?", h.now()).
		Preload("Location").Preload("Categories").Preload("Supplier")
}

type ListRequest struct {
	LocationID uint `query:"location_id" doc:"Filter by location"`
	CategoryID uint `query:"category_id" doc:"Filter by category"`
}

type ActivitiesResponse struct {
	Body []models.Activity
}

func (h *CatalogHandler) HandleListActivities(ctx context.Context, input *ListRequest) (*ActivitiesResponse, error) {
	res := &ActivitiesResponse{}
	key := fmt.Sprintf("activities:%d:%d", input.LocationID, input.CategoryID)
	if h.cache.Get(ctx, key, &res.Body) {
		return res, nil
	}

	q := h.available(h.db.WithContext(ctx))
	if input.LocationID != 0 {
		q = q.Where("location_id = ?", input.LocationID)
	}
	if input.CategoryID != 0 {
		q = q.Joins("JOIN activity_categories ON activity_categories.activity_id = activities.id").
			Where("activity_categories.category_id = ?", input.CategoryID)
	}
	if err := q.Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list activities")
	}
	h.cache.Set(ctx, key, res.Body)
	return res, nil
}

type ToursResponse struct {
	Body []models.Tour
}

func (h *CatalogHandler) HandleListTours(ctx context.Context, input *ListRequest) (*ToursResponse, error) {
	res := &ToursResponse{}
	key := fmt.Sprintf("tours:%d:%d", input.LocationID, input.CategoryID)
	if h.cache.Get(ctx, key, &res.Body) {
		return res, nil
	}

	q := h.available(h.db.WithContext(ctx))
	if input.LocationID != 0 {
		q = q.Where("location_id = ?", input.LocationID)
	}
	if input.CategoryID != 0 {
		q = q.Joins("JOIN tour_categories ON tour_categories.tour_id = tours.id").
			Where("tour_categories.category_id = ?", input.CategoryID)
	}
	if err := q.Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list tours")
	}
	h.cache.Set(ctx, key, res.Body)
	return res, nil
}

type PackagesResponse struct {
	Body []models.Package
}

func (h *CatalogHandler) HandleListPackages(ctx context.Context, input *ListRequest) (*PackagesResponse, error) {
	res := &PackagesResponse{}
	key := fmt.Sprintf("packages:%d:%d", input.LocationID, input.CategoryID)
	if h.cache.Get(ctx, key, &res.Body) {
		return res, nil
	}

	q := h.available(h.db.WithContext(ctx))
	if input.LocationID != 0 {
		q = q.Where("location_id = ?", input.LocationID)
	}
	if input.CategoryID != 0 {
		q = q.Joins("JOIN package_categories ON package_categories.package_id = packages.id").
			Where("package_categories.category_id = ?", input.CategoryID)
	}
	if err := q.Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list packages")
	}
	h.cache.Set(ctx, key, res.Body)
	return res, nil
}

type GetByIDRequest struct {
	ID uint `path:"id"`
}

type ActivityResponse struct {
	Body models.Activity
}

func (h *CatalogHandler) HandleGetActivity(ctx context.Context, input *GetByIDRequest) (*ActivityResponse, error) {
	res := &ActivityResponse{}
	err := h.db.WithContext(ctx).
		Preload("Location").Preload("Categories").Preload("Supplier").
		First(&res.Body, input.ID).Error
	if err != nil {
		return nil, huma.Error404NotFound("Activity not found")
	}
	return res, nil
}

type TourResponse struct {
	Body models.Tour
}

func (h *CatalogHandler) HandleGetTour(ctx context.Context, input *GetByIDRequest) (*TourResponse, error) {
	res := &TourResponse{}
	err := h.db.WithContext(ctx).
		Preload("Location").Preload("Categories").Preload("Supplier").
		First(&res.Body, input.ID).Error
	if err != nil {
		return nil, huma.Error404NotFound("Tour not found")
	}
	return res, nil
}

type PackageResponse struct {
	Body models.Package
}

func (h *CatalogHandler) HandleGetPackage(ctx context.Context, input *GetByIDRequest) (*PackageResponse, error) {
	res := &PackageResponse{}
	err := h.db.WithContext(ctx).
		Preload("Location").Preload("Categories").Preload("Supplier").
		First(&res.Body, input.ID).Error
	if err != nil {
		return nil, huma.Error404NotFound("Package not found")
	}
	return res, nil
}

type ActivityOffersResponse struct {
	Body []models.ActivityOffer
}

func (h *CatalogHandler) HandleActivityOffers(ctx context.Context, input *GetByIDRequest) (*ActivityOffersResponse, error) {
	res := &ActivityOffersResponse{}
	if err := h.db.WithContext(ctx).Where("activity_id = ?", input.ID).Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list offers")
	}
	return res, nil
}

type TourOffersResponse struct {
	Body []models.TourOffer
}

func (h *CatalogHandler) HandleTourOffers(ctx context.Context, input *GetByIDRequest) (*TourOffersResponse, error) {
	res := &TourOffersResponse{}
	if err := h.db.WithContext(ctx).Where("tour_id = ?", input.ID).Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list offers")
	}
	return res, nil
}

type PackageOffersResponse struct {
	Body []models.PackageOffer
}

func (h *CatalogHandler) HandlePackageOffers(ctx context.Context, input *GetByIDRequest) (*PackageOffersResponse, error) {
	res := &PackageOffersResponse{}
	if err := h.db.WithContext(ctx).Where("package_id = ?", input.ID).Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list offers")
	}
	return res, nil
}

type PeriodsRequest struct {
	OfferID uint   `path:"offerId"`
	Day     string `query:"day" doc:"YYYY-MM-DD; omit for all days"`
}

type PeriodsResponse struct {
	Body []models.Period
}

// HandleListPeriods returns the bookable time slots of an activity offer.
// Slots that sold out are omitted so the storefront never shows a slot it
// cannot sell.
func (h *CatalogHandler) HandleListPeriods(ctx context.Context, input *PeriodsRequest) (*PeriodsResponse, error) {
	q := h.db.WithContext(ctx).
		Where("activity_offer_id = ? AND stock > 0", input.OfferID).
		Order("day, time_from")
	if input.Day != "" {
		day, err := parseDate(input.Day)
		if err != nil {
			return nil, err
		}
		q = q.Where("day = ?", day)
	}
	res := &PeriodsResponse{}
	if err := q.Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list periods")
	}
	return res, nil
}

type DaysRequest struct {
	OfferID uint `path:"offerId"`
}

type TourDaysResponse struct {
	Body []models.TourDay
}

func (h *CatalogHandler) HandleListTourDays(ctx context.Context, input *DaysRequest) (*TourDaysResponse, error) {
	res := &TourDaysResponse{}
	err := h.db.WithContext(ctx).
		Where("tour_offer_id = ? AND stock > 0", input.OfferID).
		Order("day").Find(&res.Body).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list tour days")
	}
	return res, nil
}

type PackageDaysResponse struct {
	Body []models.PackageDay
}

func (h *CatalogHandler) HandleListPackageDays(ctx context.Context, input *DaysRequest) (*PackageDaysResponse, error) {
	res := &PackageDaysResponse{}
	err := h.db.WithContext(ctx).
		Where("package_offer_id = ? AND stock > 0", input.OfferID).
		Order("day").Find(&res.Body).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list package days")
	}
	return res, nil
}
