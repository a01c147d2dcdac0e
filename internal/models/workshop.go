package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Workshop is a career workshop run by the SCAD office. Students register,
// attend live or watch the recording, and earn a certificate.
type Workshop struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CreatedBy string `json:"created_by" gorm:"not null;size:255"`

	Name        string `json:"name" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"type:text"`

	StartsAt time.Time      `json:"starts_at"`
	EndsAt   time.Time      `json:"ends_at"`
	Agenda   datatypes.JSON `json:"agenda" gorm:"type:jsonb"` // Speaker list, session topics.

	IsLive       bool `json:"is_live" gorm:"default:false"`
	HasRecording bool `json:"has_recording" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Workshop) TableName() string {
	return "workshops"
}

type WorkshopRegistration struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	WorkshopID uint   `json:"workshop_id" gorm:"not null;index;uniqueIndex:idx_workshop_student"`
	StudentID  string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_workshop_student"`

	Attended          bool       `json:"attended" gorm:"default:false"`
	CertificateIssued bool       `json:"certificate_issued" gorm:"default:false"`
	CertifiedAt       *time.Time `json:"certified_at"`

	CreatedAt time.Time `json:"created_at"`

	Workshop Workshop `json:"workshop" gorm:"foreignKey:WorkshopID"`
	Student  User     `json:"student" gorm:"foreignKey:StudentID"`
}

func (WorkshopRegistration) TableName() string {
	return "workshop_registrations"
}
