package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/atinomeri/freela-sub000/internal/logger"
	"github.com/atinomeri/freela-sub000/internal/models"
	"github.com/atinomeri/freela-sub000/internal/realtime"
	"github.com/atinomeri/freela-sub000/internal/repositories"
	"github.com/atinomeri/freela-sub000/internal/services/dto"
	"github.com/atinomeri/freela-sub000/pkg/apperrors"

	"gorm.io/datatypes"
)

// NotificationService persists notifications and best-effort publishes
// them for realtime delivery. Persistence failures propagate — the row
// is a correctness requirement for the flows that depend on "the
// recipient will eventually see this". Transport failures are only
// logged: they cost latency, not eventual delivery, because clients
// reconcile against the stored rows.
type NotificationService interface {
	CreateAndEmit(ctx context.Context, payload *dto.NotificationPayload) (*models.Notification, error)
	CreateAndEmitBatch(ctx context.Context, payloads []*dto.NotificationPayload) ([]*models.Notification, error)
	EmitEvent(ctx context.Context, eventType string, toUserIDs []string, data any)

	GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	events           realtime.Publisher
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, events realtime.Publisher) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		events:           events,
	}
}

func (s *NotificationServiceImpl) CreateAndEmit(ctx context.Context, payload *dto.NotificationPayload) (*models.Notification, error) {
	notification, err := buildNotification(payload)
	if err != nil {
		return nil, err
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return nil, err
	}

	s.EmitEvent(ctx, realtime.EventNotification, []string{notification.UserID}, map[string]any{
		"notification": notification,
	})

	return notification, nil
}

// CreateAndEmitBatch inserts every payload, then emits exactly one event
// per distinct recipient: the single notification, or the slice when a
// recipient got several in this batch.
func (s *NotificationServiceImpl) CreateAndEmitBatch(ctx context.Context, payloads []*dto.NotificationPayload) ([]*models.Notification, error) {
	if len(payloads) == 0 {
		return nil, nil
	}

	notifications := make([]*models.Notification, 0, len(payloads))
	for _, payload := range payloads {
		notification, err := buildNotification(payload)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := s.notificationRepo.CreateBulkNotifications(notifications); err != nil {
		return nil, err
	}

	byUser := make(map[string][]*models.Notification)
	order := make([]string, 0, len(notifications))
	for _, n := range notifications {
		if _, seen := byUser[n.UserID]; !seen {
			order = append(order, n.UserID)
		}
		byUser[n.UserID] = append(byUser[n.UserID], n)
	}

	for _, userID := range order {
		group := byUser[userID]
		var data map[string]any
		if len(group) == 1 {
			data = map[string]any{"notification": group[0]}
		} else {
			data = map[string]any{"notifications": group}
		}
		s.EmitEvent(ctx, realtime.EventNotification, []string{userID}, data)
	}

	return notifications, nil
}

// EmitEvent never raises. Realtime delivery is a convenience layer;
// callers must not fail an already-committed state change over it.
func (s *NotificationServiceImpl) EmitEvent(ctx context.Context, eventType string, toUserIDs []string, data any) {
	err := s.events.Publish(ctx, realtime.Event{
		Type:      eventType,
		ToUserIDs: toUserIDs,
		Data:      data,
	})
	if err != nil {
		logger.CtxWarn(ctx, "realtime event dropped", "type", eventType, "error", err.Error())
	}
}

func (s *NotificationServiceImpl) GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return &dto.NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *NotificationServiceImpl) GetUnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationServiceImpl) MarkAsRead(userID, notificationID string) error {
	err := s.notificationRepo.MarkAsRead(userID, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func buildNotification(payload *dto.NotificationPayload) (*models.Notification, error) {
	notification := &models.Notification{
		UserID: payload.UserID,
		Type:   payload.Type,
		Title:  payload.Title,
		Body:   payload.Body,
		Href:   payload.Href,
	}

	if payload.Data != nil {
		raw, err := json.Marshal(payload.Data)
		if err != nil {
			return nil, err
		}
		notification.Data = datatypes.JSON(raw)
	}

	return notification, nil
}
