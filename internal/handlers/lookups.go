package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// LookupHandler serves the small reference tables the storefront filters on.
type LookupHandler struct {
	db *gorm.DB
}

func NewLookupHandler(db *gorm.DB) *LookupHandler {
	return &LookupHandler{db: db}
}

type CategoriesResponse struct {
	Body []models.Category
}

func (h *LookupHandler) HandleListCategories(ctx context.Context, input *struct{}) (*CategoriesResponse, error) {
	res := &CategoriesResponse{}
	if err := h.db.WithContext(ctx).Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list categories")
	}
	return res, nil
}

type LocationsResponse struct {
	Body []models.Location
}

func (h *LookupHandler) HandleListLocations(ctx context.Context, input *struct{}) (*LocationsResponse, error) {
	res := &LocationsResponse{}
	if err := h.db.WithContext(ctx).Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list locations")
	}
	return res, nil
}
