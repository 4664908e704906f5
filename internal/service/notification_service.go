package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"whiskaway/internal/middleware"
	"whiskaway/internal/models"
	"whiskaway/internal/observability"
	"whiskaway/internal/repository"
)

// NotificationSubscriber observes committed notification mutations. Errors
// are logged and never fail the mutation.
type NotificationSubscriber func(ctx context.Context, event models.NotificationEvent) error

// NotificationEmitter is the part of NotificationService other services use.
type NotificationEmitter interface {
	Emit(ctx context.Context, typ models.NotificationType, from *uint, to uint, data models.NotificationData) (*models.Notification, error)
}

// NotificationService owns the per-recipient notification log.
type NotificationService struct {
	repo     repository.NotificationRepository
	profiles repository.ProfileRepository

	mu          sync.RWMutex
	subscribers []NotificationSubscriber
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository, profiles repository.ProfileRepository) *NotificationService {
	return &NotificationService{repo: repo, profiles: profiles}
}

// Subscribe registers fn for every subsequent mutation.
func (s *NotificationService) Subscribe(fn NotificationSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *NotificationService) publish(ctx context.Context, event models.NotificationEvent) {
	s.mu.RLock()
	subs := make([]NotificationSubscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					middleware.Logger.ErrorContext(ctx, "notification subscriber panicked",
						slog.String("kind", string(event.Kind)), slog.Any("panic", r))
				}
			}()
			if err := fn(ctx, event); err != nil {
				middleware.Logger.WarnContext(ctx, "notification subscriber failed",
					slog.String("kind", string(event.Kind)), slog.String("error", err.Error()))
			}
		}()
	}
}

// Emit appends a notification to the recipient's log.
func (s *NotificationService) Emit(ctx context.Context, typ models.NotificationType, from *uint, to uint, data models.NotificationData) (*models.Notification, error) {
	if data == nil || data.NotificationType() != typ {
		return nil, models.NewValidationError(fmt.Sprintf("Payload does not match notification type %q", typ))
	}

	exists, err := s.profiles.Exists(ctx, to)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Profile", to)
	}

	n, err := models.NewNotification(from, to, data)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	observability.NotificationsEmitted.WithLabelValues(string(typ)).Inc()
	s.publish(ctx, models.NotificationEvent{Kind: models.NotificationEmitted, Notification: n, ProfileID: to})
	return n, nil
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, profileID uint, limit, offset int) ([]models.Notification, error) {
	return s.repo.ListForRecipient(ctx, profileID, limit, offset)
}

// MarkRead marks one notification read on behalf of actor. Marking an
// already-read notification succeeds without publishing.
func (s *NotificationService) MarkRead(ctx context.Context, id, actor uint) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.ToProfileID != actor {
		return nil, models.NewForbiddenError("You can only mark your own notifications as read")
	}

	changed, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Read = true
	if changed {
		s.publish(ctx, models.NotificationEvent{Kind: models.NotificationRead, Notification: n, ProfileID: actor})
	}
	return n, nil
}

// MarkAllRead marks every unread notification of profileID read.
func (s *NotificationService) MarkAllRead(ctx context.Context, profileID uint) (int64, error) {
	marked, err := s.repo.MarkAllRead(ctx, profileID)
	if err != nil {
		return 0, err
	}
	if marked > 0 {
		s.publish(ctx, models.NotificationEvent{Kind: models.NotificationRead, ProfileID: profileID})
	}
	return marked, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, profileID uint) (int64, error) {
	return s.repo.CountUnread(ctx, profileID)
}

// PurgeProfile removes a deleted profile from the log.
func (s *NotificationService) PurgeProfile(ctx context.Context, profileID uint) error {
	return s.repo.PurgeProfile(ctx, profileID)
}

// emitBestEffort emits a notification for an already committed mutation and
// logs failures instead of returning them.
func emitBestEffort(ctx context.Context, n NotificationEmitter, typ models.NotificationType, from *uint, to uint, data models.NotificationData) {
	if n == nil {
		return
	}
	if _, err := n.Emit(ctx, typ, from, to, data); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to emit notification",
			slog.String("type", string(typ)),
			slog.Any("to_profile_id", to),
			slog.String("error", err.Error()),
		)
	}
}

func uintPtr(v uint) *uint {
	return &v
}
