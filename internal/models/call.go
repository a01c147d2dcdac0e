package models

import (
	"time"

	"gorm.io/gorm"
)

type CallStatus string

const (
	CallConnecting CallStatus = "connecting"
	CallConnected  CallStatus = "connected"
	CallCancelled  CallStatus = "cancelled"
	CallEnded      CallStatus = "ended"
)

// Appointment is a scheduled SCAD-student video appointment. CallInitiated
// is set while a call for this appointment is connecting or connected and
// cleared when the call is cancelled before connecting.
type Appointment struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"not null;index;size:255"`
	OfficerID string `json:"officer_id" gorm:"not null;index;size:255"`

	Purpose     string    `json:"purpose" gorm:"size:200"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Accepted    bool      `json:"accepted" gorm:"default:false"`

	CallInitiated bool `json:"call_initiated" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// VideoCall tracks one call attempt for an appointment. A call spends a
// fixed connecting window before it is connected; cancelling inside that
// window is allowed, afterwards the call can only be ended.
type VideoCall struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	AppointmentID uint       `json:"appointment_id" gorm:"not null;index"`
	CallerID      string     `json:"caller_id" gorm:"not null;size:255"`
	Status        CallStatus `json:"status" gorm:"default:connecting;index"`

	InitiatedAt time.Time  `json:"initiated_at"`
	ConnectedAt *time.Time `json:"connected_at"`
	EndedAt     *time.Time `json:"ended_at"`

	Appointment Appointment `json:"appointment" gorm:"foreignKey:AppointmentID"`
}

func (VideoCall) TableName() string {
	return "video_calls"
}
