package dto

import (
	"time"

	"github.com/atinomeri/freela-sub000/internal/models"
)

// NotificationPayload is what producers hand to the emitter. Data is
// persisted as jsonb and mirrored into the realtime event.
type NotificationPayload struct {
	UserID string         `json:"user_id"`
	Type   string         `json:"type"`
	Title  string         `json:"title"`
	Body   string         `json:"body,omitempty"`
	Href   string         `json:"href,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	PageSize      int                   `json:"page_size"`
}

type NotificationResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	Href      string     `json:"href,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
