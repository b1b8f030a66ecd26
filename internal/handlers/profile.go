package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProfileHandler updates account details and the customer's taste profile
// used by the for-you recommendations.
type ProfileHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewProfileHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ProfileHandler {
	return &ProfileHandler{db: db, authHandler: authHandler}
}

type UpdateProfileRequest struct {
	auth.AuthInput
	Body struct {
		Email string `json:"email,omitempty" format:"email"`
		Phone string `json:"phone,omitempty"`
	}
}

type UserResponse struct {
	Body models.User
}

func (h *ProfileHandler) HandleUpdateProfile(ctx context.Context, input *UpdateProfileRequest) (*UserResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}
	if input.Body.Email != "" {
		user.Email = input.Body.Email
	}
	if input.Body.Phone != "" {
		user.Phone = input.Body.Phone
	}
	if err := h.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update profile")
	}
	return &UserResponse{Body: user}, nil
}

type ChangePasswordRequest struct {
	auth.AuthInput
	Body struct {
		CurrentPassword string `json:"current_password" required:"true"`
		NewPassword     string `json:"new_password" required:"true" minLength:"8"`
	}
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *ProfileHandler) HandleChangePassword(ctx context.Context, input *ChangePasswordRequest) (*MessageResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Body.CurrentPassword)) != nil {
		return nil, huma.Error403Forbidden("Current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}
	user.PasswordHash = string(hash)
	if err := h.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to change password")
	}
	res := &MessageResponse{}
	res.Body.Message = "Password changed"
	return res, nil
}

type UpdatePreferencesRequest struct {
	auth.AuthInput
	Body struct {
		LocationIDs []uint `json:"location_ids"`
		CategoryIDs []uint `json:"category_ids"`
	}
}

type CustomerResponse struct {
	Body models.Customer
}

// HandleUpdatePreferences replaces the customer's saved locations and
// category preferences wholesale.
func (h *ProfileHandler) HandleUpdatePreferences(ctx context.Context, input *UpdatePreferencesRequest) (*CustomerResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	customer, err := h.authHandler.CustomerFor(userID)
	if err != nil {
		return nil, err
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locations []models.Location
		if len(input.Body.LocationIDs) > 0 {
			if err := tx.Find(&locations, input.Body.LocationIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(customer).Association("Locations").Replace(&locations); err != nil {
			return err
		}

		var categories []models.Category
		if len(input.Body.CategoryIDs) > 0 {
			if err := tx.Find(&categories, input.Body.CategoryIDs).Error; err != nil {
				return err
			}
		}
		return tx.Model(customer).Association("Preferences").Replace(&categories)
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to update preferences")
	}

	res := &CustomerResponse{}
	if err := h.db.WithContext(ctx).Preload("Locations").Preload("Preferences").Preload("User").
		First(&res.Body, customer.ID).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load profile")
	}
	return res, nil
}

type UpdateSupplierLocationRequest struct {
	auth.AuthInput
	Body struct {
		LocationID uint `json:"location_id" required:"true"`
	}
}

type SupplierResponse struct {
	Body models.Supplier
}

func (h *ProfileHandler) HandleUpdateSupplierLocation(ctx context.Context, input *UpdateSupplierLocationRequest) (*SupplierResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	supplier, err := h.authHandler.SupplierFor(userID)
	if err != nil {
		return nil, err
	}
	var location models.Location
	if err := h.db.WithContext(ctx).First(&location, input.Body.LocationID).Error; err != nil {
		return nil, huma.Error404NotFound("Location not found")
	}
	supplier.LocationID = &location.ID
	if err := h.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update location")
	}
	res := &SupplierResponse{Body: *supplier}
	res.Body.Location = &location
	return res, nil
}
