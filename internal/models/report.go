package models

import (
	"time"

	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportAccepted ReportStatus = "accepted"
	ReportRejected ReportStatus = "rejected"
	ReportFlagged  ReportStatus = "flagged"
)

// InternshipReport is a student's internship report reviewed by faculty.
// A rejected report with reviewer comments can be appealed exactly once.
type InternshipReport struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"not null;index;size:255"`

	Title  string       `json:"title" gorm:"not null;size:200"`
	Body   string       `json:"body" gorm:"type:text"`
	Status ReportStatus `json:"status" gorm:"default:pending;index"`

	Appealed      bool       `json:"appealed" gorm:"default:false"`
	AppealMessage *string    `json:"appeal_message" gorm:"type:text"`
	AppealedAt    *time.Time `json:"appealed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Student  User            `json:"student" gorm:"foreignKey:StudentID"`
	Comments []ReportComment `json:"comments" gorm:"foreignKey:ReportID"`
}

func (InternshipReport) TableName() string {
	return "internship_reports"
}

// ReportComment is a reviewer's comment on a report. Comments are append
// only; the repository exposes no update or delete for them.
type ReportComment struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ReportID   uint   `json:"report_id" gorm:"not null;index"`
	ReviewerID string `json:"reviewer_id" gorm:"not null;size:255"`
	Body       string `json:"body" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at"`

	Reviewer User `json:"reviewer" gorm:"foreignKey:ReviewerID"`
}

func (ReportComment) TableName() string {
	return "report_comments"
}
