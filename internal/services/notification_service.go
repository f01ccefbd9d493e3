package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/notifications"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
)

// ErrNotificationForbidden rejects mailbox mutations on another user's notification.
var ErrNotificationForbidden = apperrors.NewForbidden("not authorized to manage this notification")

// CreateNotificationInput defines attributes required to persist a notification.
type CreateNotificationInput struct {
	UserID  string
	Type    string
	Title   string
	Message string
	Link    string
	IdeaID  *string
}

// NotificationService manages the per-user notification mailbox.
type NotificationService struct {
	db  *gorm.DB
	hub *notifications.Hub
}

// NewNotificationService constructs a NotificationService. The hub is optional.
func NewNotificationService(db *gorm.DB, hub *notifications.Hub) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	return &NotificationService{db: db, hub: hub}, nil
}

// ListForUser returns the user's notifications ordered by recency.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("notification service: user id is required")
	}

	var rows []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification service: list notifications: %w", err)
	}

	return rows, nil
}

// Create registers a new notification and broadcasts the event.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (*models.Notification, error) {
	ctx = ensureContext(ctx)
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, errors.New("notification service: user id is required")
	}
	notificationType := strings.TrimSpace(input.Type)
	if notificationType == "" {
		return nil, errors.New("notification service: type is required")
	}

	notification := models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   strings.TrimSpace(input.Title),
		Message: strings.TrimSpace(input.Message),
		Link:    strings.TrimSpace(input.Link),
		IdeaID:  input.IdeaID,
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("notification service: create notification: %w", err)
	}

	s.broadcast(userID, "notification.created", &notification)
	return &notification, nil
}

// MarkRead sets the notification read flag. Marking an already-read
// notification again is a no-op with the same success result.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	ctx = ensureContext(ctx)

	var notification models.Notification
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("notification service: load notification: %w", err)
	}

	if notification.IsRead {
		return &notification, nil
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&notification).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
		return nil, fmt.Errorf("notification service: mark read: %w", err)
	}

	notification.IsRead = true
	notification.ReadAt = &now

	s.broadcast(userID, "notification.read", &notification)
	return &notification, nil
}

// MarkAllRead marks all unread notifications for the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
		return fmt.Errorf("notification service: mark all read: %w", err)
	}

	s.hubBroadcast(userID, notifications.Event{Event: "notification.read_all"})
	return nil
}

// Delete removes a notification. Only the owning recipient may delete it.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	ctx = ensureContext(ctx)

	var notification models.Notification
	if err := s.db.WithContext(ctx).First(&notification, "id = ?", notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("notification service: load notification: %w", err)
	}

	if notification.UserID != userID {
		return ErrNotificationForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&notification).Error; err != nil {
		return fmt.Errorf("notification service: delete notification: %w", err)
	}

	s.hubBroadcast(userID, notifications.Event{
		Event:          "notification.deleted",
		NotificationID: notificationID,
	})
	return nil
}

func (s *NotificationService) broadcast(userID, event string, notification *models.Notification) {
	s.hubBroadcast(userID, notifications.Event{
		Event:          event,
		Notification:   notification,
		NotificationID: notification.ID,
	})
}

func (s *NotificationService) hubBroadcast(userID string, event notifications.Event) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(userID, event)
}
