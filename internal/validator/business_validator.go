package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/internship-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateDraftCreate validates posting draft creation business rules
func (bv *BusinessValidator) ValidateDraftCreate(req *DraftCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.IsPaid && (req.Salary == nil || *req.Salary <= 0) {
		errors = append(errors, ValidationError{
			Field:   "salary",
			Message: "must be positive for paid internships",
			Value:   req.Salary,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateWorkshopCreate validates workshop creation business rules
func (bv *BusinessValidator) ValidateWorkshopCreate(req *WorkshopCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if !req.EndsAt.After(req.StartsAt) {
		errors = append(errors, ValidationError{
			Field:   "ends_at",
			Message: "must be after start time",
			Value:   req.EndsAt,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateAppealEligibility checks whether a report can be appealed. An
// appeal requires a rejected report with at least one reviewer comment,
// and each report can be appealed only once.
func (bv *BusinessValidator) ValidateAppealEligibility(report *models.InternshipReport, commentCount int) ValidationErrors {
	var errors ValidationErrors

	if report.Status != models.ReportRejected {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("only rejected reports can be appealed, report is %s", report.Status),
			Value:   report.Status,
			Rule:    "business_logic",
		})
	}

	if commentCount == 0 {
		errors = append(errors, ValidationError{
			Field:   "comments",
			Message: "report has no reviewer comments to appeal against",
			Value:   commentCount,
			Rule:    "business_logic",
		})
	}

	if report.Appealed {
		errors = append(errors, ValidationError{
			Field:   "appealed",
			Message: "report has already been appealed",
			Value:   report.Appealed,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Review status set by company reviewers
	bv.validate.RegisterValidation("review_status", func(fl validator.FieldLevel) bool {
		status := models.ReviewStatus(fl.Field().String())
		switch status {
		case models.ReviewAccepted, models.ReviewRejected, models.ReviewFinalized:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("post_status", func(fl validator.FieldLevel) bool {
		status := models.PostStatus(fl.Field().String())
		switch status {
		case models.PostPending, models.PostFlagged, models.PostAccepted, models.PostRejected:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("notification_type", func(fl validator.FieldLevel) bool {
		nt := models.NotificationType(fl.Field().String())
		switch nt {
		case models.NotificationLive, models.NotificationVod, models.NotificationApply,
			models.NotificationVideoCall, models.NotificationCertificate:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		role := models.UserRole(fl.Field().String())
		switch role {
		case models.RoleStudent, models.RoleCompany, models.RoleFaculty, models.RoleScad:
			return true
		}
		return false
	})

	// Whitespace-only strings read as empty
	bv.validate.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// Scheduling fields must point forward; optional pointers pass when nil
	bv.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		field := fl.Field()

		if field.Kind() == reflect.Ptr && field.IsNil() {
			return true
		}

		var at time.Time
		if field.Kind() == reflect.Ptr {
			at = field.Elem().Interface().(time.Time)
		} else {
			at = field.Interface().(time.Time)
		}

		return at.After(time.Now())
	})
}
