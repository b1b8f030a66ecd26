package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteHandler stores per-user wishlists. Adding twice is a no-op thanks
// to the unique pair index plus an upsert.
type FavoriteHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewFavoriteHandler(db *gorm.DB, authHandler *auth.AuthHandler) *FavoriteHandler {
	return &FavoriteHandler{db: db, authHandler: authHandler}
}

type FavoriteRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type FavoritesListRequest struct {
	auth.AuthInput
}

type FavoritesResponse struct {
	Body struct {
		Activities []models.FavoriteActivity `json:"activities"`
		Tours      []models.FavoriteTour     `json:"tours"`
		Packages   []models.FavoritePackage  `json:"packages"`
	}
}

func (h *FavoriteHandler) HandleListFavorites(ctx context.Context, input *FavoritesListRequest) (*FavoritesResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	res := &FavoritesResponse{}
	db := h.db.WithContext(ctx)
	if err := db.Preload("Activity").Where("user_id = ?", userID).Find(&res.Body.Activities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list favorites")
	}
	if err := db.Preload("Tour").Where("user_id = ?", userID).Find(&res.Body.Tours).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list favorites")
	}
	if err := db.Preload("Package").Where("user_id = ?", userID).Find(&res.Body.Packages).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list favorites")
	}
	return res, nil
}

func (h *FavoriteHandler) HandleAddFavoriteActivity(ctx context.Context, input *FavoriteRequest) (*MessageResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	var activity models.Activity
	if err := h.db.WithContext(ctx).First(&activity, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Activity not found")
	}
	fav := models.FavoriteActivity{UserID: userID, ActivityID: activity.ID}
	if err := h.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to save favorite")
	}
	res := &MessageResponse{}
	res.Body.Message = "Added to favorites"
	return res, nil
}

func (h *FavoriteHandler) HandleAddFavoriteTour(ctx context.Context, input *FavoriteRequest) (*MessageResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	var tour models.Tour
	if err := h.db.WithContext(ctx).First(&tour, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Tour not found")
	}
	fav := models.FavoriteTour{UserID: userID, TourID: tour.ID}
	if err := h.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to save favorite")
	}
	res := &MessageResponse{}
	res.Body.Message = "Added to favorites"
	return res, nil
}

func (h *FavoriteHandler) HandleAddFavoritePackage(ctx context.Context, input *FavoriteRequest) (*MessageResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	var pkg models.Package
	if err := h.db.WithContext(ctx).First(&pkg, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Package not found")
	}
	fav := models.FavoritePackage{UserID: userID, PackageID: pkg.ID}
	if err := h.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to save favorite")
	}
	res := &MessageResponse{}
	res.Body.Message = "Added to favorites"
	return res, nil
}

func (h *FavoriteHandler) remove(ctx context.Context, cookie string, model any, column string, id uint) (*MessageResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, cookie)
	if err != nil {
		return nil, err
	}
	result := h.db.WithContext(ctx).Where("user_id = ? AND "+column+" = ?", userID, id).Delete(model)
	if result.Error != nil {
		return nil, huma.Error500InternalServerError("Failed to remove favorite")
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Favorite not found")
	}
	res := &MessageResponse{}
	res.Body.Message = "Removed from favorites"
	return res, nil
}

func (h *FavoriteHandler) HandleRemoveFavoriteActivity(ctx context.Context, input *FavoriteRequest) (*MessageResponse, error) {
	return h.remove(ctx, input.Cookie, &models.FavoriteActivity{}, "activity_id", input.ID)
}

func (h *FavoriteHandler) HandleRemoveFavoriteTour(ctx context.Context, input *FavoriteRequest) (*MessageResponse, error) {
	return h.remove(ctx, input.Cookie, &models.FavoriteTour{}, "tour_id", input.ID)
}

func (h *FavoriteHandler) HandleRemoveFavoritePackage(ctx context.Context, input *FavoriteRequest) (*MessageResponse, error) {
	return h.remove(ctx, input.Cookie, &models.FavoritePackage{}, "package_id", input.ID)
}
