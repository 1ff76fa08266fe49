package repository

import (
	"context"
	"fmt"

	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/voting"
)

func (s *Store) CreateNotification(ctx context.Context, userID uint, message string) (*models.Notification, error) {
	n := models.Notification{UserID: userID, Message: message}
	if err := s.conn(ctx).Omit("User").Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) UnreadNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	var out []models.Notification
	err := s.conn(ctx).Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at desc").Order("id desc").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead flags a notification as read. Notifications owned by
// someone else are reported as not found.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id uint) (*models.Notification, error) {
	res := s.conn(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("notification %d: %w", id, voting.ErrNotFound)
	}
	var n models.Notification
	if err := s.conn(ctx).First(&n, id).Error; err != nil {
		return nil, notFound(err, "notification %d", id)
	}
	return &n, nil
}
