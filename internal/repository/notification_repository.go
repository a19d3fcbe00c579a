package repository

import (
	"github.com/taskhive/taskhive-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates a new notification
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(id uint64) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListByRecipient returns a user's notifications with the two-key
// business ordering: unread before read, then newest first.
func (r *GormNotificationRepository) ListByRecipient(email string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("to_email = ?", email).
		Order("CASE WHEN status = 'unread' THEN 0 ELSE 1 END, created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips a notification to read
func (r *GormNotificationRepository) MarkRead(id uint64) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("status", models.NotificationRead)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(email string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("to_email = ? AND status = ?", email, models.NotificationUnread).
		Count(&count).Error
	return count, err
}
