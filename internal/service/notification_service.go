// Package service implements the application's business logic.
package service

import (
	"context"
	"log/slog"

	"socialpulse/internal/models"
	"socialpulse/internal/observability"
	"socialpulse/internal/realtime"
	"socialpulse/internal/repository"
)

// NotificationService creates, lists, and delivers notifications.
//
// Delivery is best-effort: a failed notification never fails the operation
// that triggered it. Failures are logged and counted, then discarded.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	notifier         *realtime.Notifier
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository, notifier *realtime.Notifier) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		notifier:         notifier,
	}
}

// Notify persists a notification and pushes it to the recipient's realtime
// channel. Self-notifications are suppressed, and a follow notification is
// suppressed when the same sender already notified the recipient about a
// follow before, so follow/unfollow cycling cannot spam the recipient.
func (s *NotificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if !notification.Type.Valid() {
		return models.NewValidationError("Unknown notification type")
	}
	if notification.RecipientID == notification.SenderID {
		observability.NotificationsSuppressed.WithLabelValues("self").Inc()
		return nil
	}

	if notification.Type == models.NotificationFollow {
		exists, err := s.notificationRepo.FollowNotificationExists(ctx, notification.RecipientID, notification.SenderID)
		if err != nil {
			observability.NotificationFailures.WithLabelValues("dedup").Inc()
			observability.Logger.WarnContext(ctx, "follow dedup check failed",
				slog.Any("recipient_id", notification.RecipientID),
				slog.String("error", err.Error()))
			return nil
		}
		if exists {
			observability.NotificationsSuppressed.WithLabelValues("follow_dedup").Inc()
			return nil
		}
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		observability.NotificationFailures.WithLabelValues("persist").Inc()
		observability.Logger.ErrorContext(ctx, "notification persist failed",
			slog.Any("recipient_id", notification.RecipientID),
			slog.String("type", string(notification.Type)),
			slog.String("error", err.Error()))
		return nil
	}

	// Resolve sender and post so the pushed event carries display fields,
	// not just foreign keys. Resolution failure falls back to the bare row.
	if resolved, err := s.notificationRepo.GetByID(ctx, notification.ID); err != nil {
		observability.NotificationFailures.WithLabelValues("resolve").Inc()
		observability.Logger.WarnContext(ctx, "notification resolution failed",
			slog.Any("notification_id", notification.ID),
			slog.String("error", err.Error()))
	} else {
		notification.Sender = resolved.Sender
		notification.Post = resolved.Post
	}

	if s.notifier != nil {
		event := realtime.Event{Event: realtime.EventNotification, Payload: notification}
		if err := s.notifier.PublishUser(ctx, notification.RecipientID, event); err != nil {
			observability.NotificationFailures.WithLabelValues("publish").Inc()
			observability.Logger.WarnContext(ctx, "notification publish failed",
				slog.Any("recipient_id", notification.RecipientID),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.ListByRecipient(ctx, recipientID, limit, offset)
}

// CountUnread returns how many unread notifications the recipient has.
func (s *NotificationService) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, recipientID)
}

// MarkRead flags one of the recipient's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID uint) error {
	return s.notificationRepo.MarkRead(ctx, id, recipientID)
}

// MarkAllRead flags every unread notification as read and returns the count.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, recipientID)
}

// Delete removes one of the recipient's notifications.
func (s *NotificationService) Delete(ctx context.Context, id, recipientID uint) error {
	return s.notificationRepo.Delete(ctx, id, recipientID)
}

// Clear removes every notification the recipient has and returns the count.
func (s *NotificationService) Clear(ctx context.Context, recipientID uint) (int64, error) {
	return s.notificationRepo.DeleteAll(ctx, recipientID)
}
