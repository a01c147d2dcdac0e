package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event type constants grouped by aggregate.
const (
	EventApplicationReviewed  = "application.reviewed"
	EventInternMarked         = "intern.marked_current"
	EventInternRemovalQueued  = "intern.removal_queued"
	EventInternRemovalUndone  = "intern.removal_undone"
	EventInternRemoved        = "intern.removed"
	EventInternCompleted      = "intern.completed"
	EventInternEvaluated      = "intern.evaluated"
	EventReportAppealed       = "report.appealed"
	EventPostPublished        = "post.published"
	EventPostDeleted          = "post.deleted"
	EventNotificationCreated  = "notification.created"
	EventWorkshopRegistered   = "workshop.registered"
	EventCertificateIssued    = "workshop.certificate_issued"
	EventCallInitiated        = "call.initiated"
	EventCallConnected        = "call.connected"
	EventCallCancelled        = "call.cancelled"
)

const (
	eventSource  = "internship-service"
	eventVersion = "1.0"
)

// Event is the envelope every published message carries.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *Event) error
	Close() error
}
