package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lebadvisor/lebadvisor-api/internal/auth"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewNotificationHandler(db *gorm.DB, authHandler *auth.AuthHandler) *NotificationHandler {
	return &NotificationHandler{db: db, authHandler: authHandler}
}

type NotificationsRequest struct {
	auth.AuthInput
	UnreadOnly bool `query:"unread" doc:"Only unread notifications"`
}

type NotificationsResponse struct {
	Body []models.Notification
}

func (h *NotificationHandler) HandleListNotifications(ctx context.Context, input *NotificationsRequest) (*NotificationsResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	q := h.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if input.UnreadOnly {
		q = q.Where("read = ?", false)
	}
	res := &NotificationsResponse{}
	if err := q.Find(&res.Body).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list notifications")
	}
	return res, nil
}

type MarkReadRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *NotificationHandler) HandleMarkRead(ctx context.Context, input *MarkReadRequest) (*MessageResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	result := h.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", input.ID, userID).
		Update("read", true)
	if result.Error != nil {
		return nil, huma.Error500InternalServerError("Failed to mark notification read")
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Notification not found")
	}
	res := &MessageResponse{}
	res.Body.Message = "Notification marked read"
	return res, nil
}

type MarkAllReadRequest struct {
	auth.AuthInput
}

func (h *NotificationHandler) HandleMarkAllRead(ctx context.Context, input *MarkAllReadRequest) (*MessageResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	err = h.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to mark notifications read")
	}
	res := &MessageResponse{}
	res.Body.Message = "All notifications marked read"
	return res, nil
}
