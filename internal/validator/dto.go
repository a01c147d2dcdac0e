package validator

import (
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/internship-service/internal/models"
)

// ReviewSelectRequest is a company reviewer clicking a status on an application
type ReviewSelectRequest struct {
	Status models.ReviewStatus `json:"status" validate:"required,review_status"`
}

// EvaluationCreateRequest records an evaluation for a completed intern
type EvaluationCreateRequest struct {
	ApplicationID uint    `json:"application_id" validate:"required"`
	Performance   int     `json:"performance" validate:"required,min=1,max=5"`
	Comments      string  `json:"comments" validate:"required,nonblank,max=5000"`
	Recommended   bool    `json:"recommended"`
	MentorName    *string `json:"mentor_name" validate:"omitempty,max=100"`
}

// ReportCommentRequest adds a reviewer comment to an internship report
type ReportCommentRequest struct {
	Body string `json:"body" validate:"required,nonblank,max=2000"`
}

// AppealRequest submits a student's appeal of a rejected report
type AppealRequest struct {
	Message string `json:"message" validate:"required,nonblank,max=2000"`
}

// DraftCreateRequest creates an internship posting draft
type DraftCreateRequest struct {
	Title         string   `json:"title" validate:"required,nonblank,max=200"`
	Body          string   `json:"body" validate:"omitempty,max=10000"`
	DurationWeeks *int     `json:"duration_weeks" validate:"omitempty,min=1,max=104"`
	IsPaid        bool     `json:"is_paid"`
	Salary        *float64 `json:"salary" validate:"omitempty,min=0"`
}

// DraftUpdateRequest edits an existing draft
type DraftUpdateRequest struct {
	Title         *string  `json:"title" validate:"omitempty,nonblank,max=200"`
	Body          *string  `json:"body" validate:"omitempty,max=10000"`
	DurationWeeks *int     `json:"duration_weeks" validate:"omitempty,min=1,max=104"`
	IsPaid        *bool    `json:"is_paid"`
	Salary        *float64 `json:"salary" validate:"omitempty,min=0"`
}

// PostModerateRequest is a SCAD moderation decision on a published post
type PostModerateRequest struct {
	Status models.PostStatus `json:"status" validate:"required,post_status"`
}

// NotificationCreateRequest appends a notification to a user's list
type NotificationCreateRequest struct {
	UserID     string                   `json:"user_id" validate:"required"`
	Message    string                   `json:"message" validate:"required,nonblank,max=500"`
	Type       *models.NotificationType `json:"type" validate:"omitempty,notification_type"`
	WorkshopID *uint                    `json:"workshop_id"`
}

// WorkshopCreateRequest creates a career workshop
type WorkshopCreateRequest struct {
	Name        string         `json:"name" validate:"required,nonblank,max=200"`
	Description string         `json:"description" validate:"omitempty,max=5000"`
	StartsAt    time.Time      `json:"starts_at" validate:"required,future_date"`
	EndsAt      time.Time      `json:"ends_at" validate:"required"`
	Agenda      datatypes.JSON `json:"agenda"`
}

// AppointmentCreateRequest books a guidance appointment with the SCAD office
type AppointmentCreateRequest struct {
	StudentID   string    `json:"student_id" validate:"required"`
	OfficerID   string    `json:"officer_id" validate:"required"`
	Purpose     string    `json:"purpose" validate:"omitempty,max=200"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required,future_date"`
}
