package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationLive        NotificationType = "live"
	NotificationVod         NotificationType = "vod"
	NotificationApply       NotificationType = "apply"
	NotificationVideoCall   NotificationType = "videoCall"
	NotificationCertificate NotificationType = "certificate"
)

// Notification is one entry in a user's notification queue. Ids increase
// monotonically (primary key); the queue supports append, removal by id and
// listing in insertion order, nothing else.
type Notification struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"not null;index;size:255"`

	Message    string            `json:"message" gorm:"type:text;not null"`
	Type       *NotificationType `json:"type" gorm:"size:20"`
	WorkshopID *uint             `json:"workshop_id"`
	Metadata   datatypes.JSON    `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
