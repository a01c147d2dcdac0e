package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleCompany UserRole = "company"
	RoleFaculty UserRole = "faculty"
	RoleScad    UserRole = "scad"

	// RoleNone marks an unauthenticated subject. It is never stored on a
	// user row; it is what the session store reports when no role is set.
	RoleNone UserRole = "none"
)

// Valid reports whether r is one of the four assignable roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleFaculty, RoleScad:
		return true
	}
	return false
}

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"-"`

	// Profile info
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	// Students carry their study program, companies their trade name.
	Major       *string `json:"major" gorm:"size:100"`
	CompanyName *string `json:"company_name" gorm:"size:200"`

	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
