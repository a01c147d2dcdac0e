package models

import (
	"time"

	"gorm.io/gorm"
)

type ReviewStatus string

const (
	ReviewNone      ReviewStatus = "none"
	ReviewAccepted  ReviewStatus = "accepted"
	ReviewRejected  ReviewStatus = "rejected"
	ReviewFinalized ReviewStatus = "finalized"
)

// ToggleReview is the single-slot review assignment: selecting the status
// that is already set clears it back to ReviewNone, any other selection
// simply overwrites the slot.
func ToggleReview(current, selected ReviewStatus) ReviewStatus {
	if current == selected {
		return ReviewNone
	}
	return selected
}

// InternshipApplication is a student's application to a posted internship.
// The intern lifecycle flags live on the same row; an application becomes an
// intern record when a reviewer marks it current.
type InternshipApplication struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	PostID    uint   `json:"post_id" gorm:"not null;index"`
	StudentID string `json:"student_id" gorm:"not null;index;size:255"`

	JobTitle       string       `json:"job_title" gorm:"not null;size:200"`
	ApplicantName  string       `json:"applicant_name" gorm:"not null;size:100"`
	ApplicantEmail string       `json:"applicant_email" gorm:"not null;size:255"`
	Status         ReviewStatus `json:"status" gorm:"default:none;index"`

	// Intern lifecycle flags. IsEvaluated may only be set while IsCompleted
	// holds; IsCurrentIntern is cleared whenever the review status leaves
	// accepted. The forward direction (current implies accepted) is not
	// enforced.
	IsCurrentIntern bool `json:"is_current_intern" gorm:"default:false;index"`
	IsCompleted     bool `json:"is_completed" gorm:"default:false"`
	IsEvaluated     bool `json:"is_evaluated" gorm:"default:false"`

	// PendingRemoval marks the undo window after a reviewer unmarks the
	// intern; RemovedAt is set once the window elapses and is terminal.
	PendingRemoval bool       `json:"pending_removal" gorm:"default:false"`
	RemovedAt      *time.Time `json:"removed_at"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Post    InternshipPost `json:"post" gorm:"foreignKey:PostID"`
	Student User           `json:"student" gorm:"foreignKey:StudentID"`
}

func (InternshipApplication) TableName() string {
	return "internship_applications"
}

// Evaluation is a company supervisor's final assessment of a completed
// internship. One evaluation per (evaluator, application) pair.
type Evaluation struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	ApplicationID uint   `json:"application_id" gorm:"not null;index;uniqueIndex:idx_evaluator_application"`
	EvaluatorID   string `json:"evaluator_id" gorm:"not null;size:255;uniqueIndex:idx_evaluator_application"`

	Performance int     `json:"performance"` // 1..5
	Comments    string  `json:"comments" gorm:"type:text"`
	Recommended bool    `json:"recommended"`
	MentorName  *string `json:"mentor_name" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Application InternshipApplication `json:"application" gorm:"foreignKey:ApplicationID"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
