package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
)

// FeaturedResponse bundles the three product types, matching the storefront
// carousel that mixes them on one page.
type FeaturedResponse struct {
	Body struct {
		Activities []models.Activity `json:"activities"`
		Tours      []models.Tour     `json:"tours"`
		Packages   []models.Package  `json:"packages"`
	}
}

func (h *CatalogHandler) HandleFeatured(ctx context.Context, input *struct{}) (*FeaturedResponse, error) {
	res := &FeaturedResponse{}
	if h.cache.Get(ctx, "featured", &res.Body) {
		return res, nil
	}

	db := h.db.WithContext(ctx)
	if err := h.available(db).Where("featured = ?", true).Find(&res.Body.Activities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load featured products")
	}
	if err := h.available(db).Where("featured = ?", true).Find(&res.Body.Tours).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load featured products")
	}
	if err := h.available(db).Where("featured = ?", true).Find(&res.Body.Packages).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load featured products")
	}
	h.cache.Set(ctx, "featured", res.Body)
	return res, nil
}

type LatestRequest struct {
	Limit int `query:"limit" default:"8" maximum:"50"`
}

func (h *CatalogHandler) HandleLatest(ctx context.Context, input *LatestRequest) (*FeaturedResponse, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 8
	}

	res := &FeaturedResponse{}
	db := h.db.WithContext(ctx)
	if err := h.available(db).Order("created_at DESC").Limit(limit).Find(&res.Body.Activities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load latest products")
	}
	if err := h.available(db).Order("created_at DESC").Limit(limit).Find(&res.Body.Tours).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load latest products")
	}
	if err := h.available(db).Order("created_at DESC").Limit(limit).Find(&res.Body.Packages).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load latest products")
	}
	return res, nil
}

type SearchRequest struct {
	Query string `query:"q" required:"true" minLength:"1"`
}

func (h *CatalogHandler) HandleSearch(ctx context.Context, input *SearchRequest) (*FeaturedResponse, error) {
	pattern := "%" + input.Query + "%"
	res := &FeaturedResponse{}
	db := h.db.WithContext(ctx)
	if err := h.available(db).Where("title LIKE ? OR description LIKE ?", pattern, pattern).
		Find(&res.Body.Activities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Search failed")
	}
	if err := h.available(db).Where("title LIKE ? OR description LIKE ?", pattern, pattern).
		Find(&res.Body.Tours).Error; err != nil {
		return nil, huma.Error500InternalServerError("Search failed")
	}
	if err := h.available(db).Where("title LIKE ? OR description LIKE ?", pattern, pattern).
		Find(&res.Body.Packages).Error; err != nil {
		return nil, huma.Error500InternalServerError("Search failed")
	}
	return res, nil
}

type ForYouRequest struct {
	auth.AuthInput
}

// HandleForYou recommends products matching the customer's saved preferences
// and locations. With no preferences saved it falls back to featured.
func (h *CatalogHandler) HandleForYou(ctx context.Context, input *ForYouRequest) (*FeaturedResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	customer, err := h.authHandler.CustomerFor(userID)
	if err != nil {
		return nil, err
	}

	var customerFull models.Customer
	if err := h.db.WithContext(ctx).
		Preload("Locations").Preload("Preferences").
		First(&customerFull, customer.ID).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load preferences")
	}

	var locationIDs, categoryIDs []uint
	for _, l := range customerFull.Locations {
		locationIDs = append(locationIDs, l.ID)
	}
	for _, c := range customerFull.Preferences {
		categoryIDs = append(categoryIDs, c.ID)
	}
	if len(locationIDs) == 0 && len(categoryIDs) == 0 {
		return h.HandleFeatured(ctx, &struct{}{})
	}

	res := &FeaturedResponse{}
	db := h.db.WithContext(ctx)

	activities := h.available(db)
	tours := h.available(db)
	packages := h.available(db)
	if len(categoryIDs) > 0 {
		activities = activities.
			Joins("JOIN activity_categories ON activity_categories.activity_id = activities.id").
			Where("activity_categories.category_id IN ?", categoryIDs)
		tours = tours.
			Joins("JOIN tour_categories ON tour_categories.tour_id = tours.id").
			Where("tour_categories.category_id IN ?", categoryIDs)
		packages = packages.
			Joins("JOIN package_categories ON package_categories.package_id = packages.id").
			Where("package_categories.category_id IN ?", categoryIDs)
	}
	if len(locationIDs) > 0 {
		activities = activities.Where("location_id IN ?", locationIDs)
		tours = tours.Where("location_id IN ?", locationIDs)
		packages = packages.Where("location_id IN ?", locationIDs)
	}

	if err := activities.Distinct("activities.*").Find(&res.Body.Activities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load recommendations")
	}
	if err := tours.Distinct("tours.*").Find(&res.Body.Tours).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load recommendations")
	}
	if err := packages.Distinct("packages.*").Find(&res.Body.Packages).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load recommendations")
	}
	return res, nil
}
