package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types understood by the frontend.
const (
	NotificationTypeNewProposal    = "new_proposal"
	NotificationTypeProposalStatus = "proposal_status"
	NotificationTypeMessage        = "message"
)

// Notification is the durable per-user record of an event. The realtime
// event mirroring it is best effort; a client reconciles against this
// row via the list endpoint. Immutable after creation except IsRead/ReadAt.
type Notification struct {
	BaseModel
	UserID string         `gorm:"not null;index" json:"user_id"`
	Type   string         `gorm:"not null" json:"type"`
	Title  string         `gorm:"not null" json:"title"`
	Body   string         `json:"body,omitempty"`
	Href   string         `json:"href,omitempty"`
	Data   datatypes.JSON `json:"data,omitempty"`
	IsRead bool           `gorm:"not null;default:false" json:"is_read"`
	ReadAt *time.Time     `json:"read_at,omitempty"`
}
