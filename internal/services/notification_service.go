package services

import (
	"errors"
	"fmt"

	"github.com/taskhive/taskhive-api/internal/cache"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService handles notification business logic. The unread
// count is served through an optional Redis cache; creation and
// mark-read both invalidate it.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	counts           *cache.CountCache
}

// NewNotificationService creates a new NotificationService. counts may be nil.
func NewNotificationService(notificationRepo repository.NotificationRepository, counts *cache.CountCache) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		counts:           counts,
	}
}

// Create stores a notification. Status is always forced to unread at
// creation regardless of what the caller supplied.
func (s *NotificationService) Create(notification *models.Notification) error {
	notification.Status = models.NotificationUnread

	if err := s.notificationRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.InvalidateUnreadCount(notification.ToEmail)
	return nil
}

// ListFor returns all notifications for an identity, unread before read,
// newest first within each group.
func (s *NotificationService) ListFor(email string) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByRecipient(email)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips a notification to read.
func (s *NotificationService) MarkRead(id uint64) error {
	notification, err := s.notificationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to find notification: %w", err)
	}

	if err := s.notificationRepo.MarkRead(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	s.InvalidateUnreadCount(notification.ToEmail)
	return nil
}

// CountUnread returns the unread count for an identity, preferring the
// cache and falling back to the store on a miss or cache failure.
func (s *NotificationService) CountUnread(email string) (int64, error) {
	if count, err := s.counts.GetUnread(email); err == nil {
		return count, nil
	}

	count, err := s.notificationRepo.CountUnread(email)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	// Best effort; a failed write just means the next poll hits the store.
	_ = s.counts.SetUnread(email, count)

	return count, nil
}

// InvalidateUnreadCount drops the cached unread count for an identity.
// Exposed for workflows that write notifications inside their own
// store transaction.
func (s *NotificationService) InvalidateUnreadCount(email string) {
	_ = s.counts.Invalidate(email)
}
