package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/realtime"
	"studioflow/internal/repository"
)

// NotifyEvent describes one fanout trigger. Recipients receive a persisted
// Notification row plus a live push; ProjectID, when set, additionally
// broadcasts the event to the project room so connected viewers refresh
// without a personal record each.
type NotifyEvent struct {
	Type          domain.NotificationType
	Title         string
	Message       *string
	ReferenceID   *uuid.UUID
	ReferenceType *domain.EntityType
	ProjectID     *uuid.UUID
	// ActorID is excluded everywhere; nobody is notified of their own
	// action.
	ActorID uuid.UUID
}

type NotificationService interface {
	Notify(ctx context.Context, recipientIDs []uuid.UUID, event NotifyEvent) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	hub       *realtime.Hub
	logger    *log.Logger
}

func NewNotificationService(notifRepo repository.NotificationRepository, hub *realtime.Hub, logger *log.Logger) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		hub:       hub,
		logger:    logger,
	}
}

// Notify persists the whole batch in one insert, then pushes live events.
// Persistence is the durable half; a failed push is only logged since the
// client recovers it from the notification list. Duplicate recipients are
// collapsed and the actor is dropped before anything is written.
func (s *notificationService) Notify(ctx context.Context, recipientIDs []uuid.UUID, event NotifyEvent) error {
	seen := make(map[uuid.UUID]struct{}, len(recipientIDs))
	notifications := make([]domain.Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		if id == event.ActorID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		notifications = append(notifications, domain.Notification{
			ID:            uuid.New(),
			UserID:        id,
			Type:          event.Type,
			Title:         event.Title,
			Message:       event.Message,
			ReferenceID:   event.ReferenceID,
			ReferenceType: event.ReferenceType,
		})
	}

	if err := s.notifRepo.CreateBulk(ctx, notifications); err != nil {
		return err
	}

	for i := range notifications {
		s.hub.EmitToUser(notifications[i].UserID, "notification", notifications[i])
	}

	if event.ProjectID != nil {
		s.hub.EmitToProject(*event.ProjectID, string(event.Type), map[string]any{
			"title":          event.Title,
			"message":        event.Message,
			"reference_id":   event.ReferenceID,
			"reference_type": event.ReferenceType,
		}, &event.ActorID)
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Normalize()
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.UnreadCount(ctx, userID)
}

// MarkRead is idempotent: marking an already-read notification succeeds.
// Only a notification that does not belong to the caller is a miss.
func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	found, err := s.notifRepo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !found {
		return domain.NotFound("notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.MarkAllRead(ctx, userID)
}
