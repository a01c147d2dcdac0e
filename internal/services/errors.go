package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/internship-service/internal/validator"
)

// ValidationErrors is re-exported so handlers can errors.As against the
// services package alone.
type ValidationErrors = validator.ValidationErrors

// Generic errors
var (
	ErrValidationFailed        = errors.New("validation failed")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrBadRequest              = errors.New("bad request")
	ErrConflict                = errors.New("resource conflict")
	ErrUserNotFound            = errors.New("user not found")
)

// Application and intern lifecycle errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationRemoved  = errors.New("application has been removed")
	ErrNotCurrentIntern    = errors.New("applicant is not a current intern")
	ErrInternNotCompleted  = errors.New("internship is not completed")
	ErrAlreadyEvaluated    = errors.New("intern has already been evaluated")
	ErrNoPendingRemoval    = errors.New("no removal is pending for this intern")
)

// Report and appeal errors
var (
	ErrReportNotFound   = errors.New("report not found")
	ErrAppealNotAllowed = errors.New("report is not eligible for appeal")
	ErrAlreadyAppealed  = errors.New("report has already been appealed")
)

// Posting errors
var (
	ErrDraftNotFound      = errors.New("draft not found")
	ErrDraftNotFinalized  = errors.New("draft must be finalized before publishing")
	ErrPostNotFound       = errors.New("post not found")
	ErrDeleteNotConfirmed = errors.New("delete requires confirmation")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Workshop errors
var (
	ErrWorkshopNotFound         = errors.New("workshop not found")
	ErrAlreadyRegistered        = errors.New("student is already registered for this workshop")
	ErrRegistrationNotFound     = errors.New("workshop registration not found")
	ErrCertificateAlreadyIssued = errors.New("certificate has already been issued")
	ErrRecordingNotAvailable    = errors.New("workshop recording is not available")
)

// Appointment and call errors
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrCallNotFound        = errors.New("call not found")
	ErrCallAlreadyActive   = errors.New("a call is already active for this appointment")
	ErrCallNotConnecting   = errors.New("call is not in a connecting state")
)

// PermissionError carries the denied actor, target and reason
type PermissionError struct {
	UserID     string
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError is a named rule violation with request context
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}
