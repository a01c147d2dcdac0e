package models

import (
	"time"

	"gorm.io/gorm"
)

type PostStatus string

const (
	PostPending  PostStatus = "pending"
	PostFlagged  PostStatus = "flagged"
	PostAccepted PostStatus = "accepted"
	PostRejected PostStatus = "rejected"
)

// PostDraft is a company's unpublished internship posting. Drafts are freely
// editable; publishing relocates the content into internship_posts and
// deletes the draft. There is no way back from a post to a draft.
type PostDraft struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID string `json:"company_id" gorm:"not null;index;size:255"`

	Title       string `json:"title" gorm:"not null;size:200"`
	Body        string `json:"body" gorm:"type:text"`
	IsFinalized bool   `json:"is_finalized" gorm:"default:false"`

	DurationWeeks *int     `json:"duration_weeks"`
	IsPaid        bool     `json:"is_paid" gorm:"default:false"`
	Salary        *float64 `json:"salary"`

	LastEditedAt time.Time `json:"last_edited_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (PostDraft) TableName() string {
	return "post_drafts"
}

// InternshipPost is a published internship posting awaiting SCAD moderation.
type InternshipPost struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID string `json:"company_id" gorm:"not null;index;size:255"`

	Title  string     `json:"title" gorm:"not null;size:200"`
	Body   string     `json:"body" gorm:"type:text"`
	Status PostStatus `json:"status" gorm:"default:pending;index"`

	DurationWeeks *int     `json:"duration_weeks"`
	IsPaid        bool     `json:"is_paid" gorm:"default:false"`
	Salary        *float64 `json:"salary"`

	PublishedAt time.Time      `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Company User `json:"company" gorm:"foreignKey:CompanyID"`
}

func (InternshipPost) TableName() string {
	return "internship_posts"
}
