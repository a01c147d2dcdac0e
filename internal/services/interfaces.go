package services

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type ReviewSelectRequest = validator.ReviewSelectRequest
type EvaluationCreateRequest = validator.EvaluationCreateRequest
type ReportCommentRequest = validator.ReportCommentRequest
type AppealRequest = validator.AppealRequest
type DraftCreateRequest = validator.DraftCreateRequest
type DraftUpdateRequest = validator.DraftUpdateRequest
type PostModerateRequest = validator.PostModerateRequest
type NotificationCreateRequest = validator.NotificationCreateRequest
type WorkshopCreateRequest = validator.WorkshopCreateRequest
type AppointmentCreateRequest = validator.AppointmentCreateRequest

type ApplicationResponse struct {
	*models.InternshipApplication
	CanEvaluate bool `json:"can_evaluate"`
	CanUndo     bool `json:"can_undo"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationResponse `json:"applications"`
	Total        int64                  `json:"total"`
	Page         int                    `json:"page"`
	Size         int                    `json:"size"`
}

type ReportResponse struct {
	*models.InternshipReport
	CanAppeal bool                    `json:"can_appeal"`
	Comments  []*models.ReportComment `json:"comments,omitempty"`
}

type DraftResponse struct {
	*models.PostDraft
	CanPublish bool `json:"can_publish"`
}

type PostListResponse struct {
	Posts []*models.InternshipPost `json:"posts"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Size  int                      `json:"size"`
}

type WorkshopResponse struct {
	*models.Workshop
	Registered        bool `json:"registered"`
	CertificateIssued bool `json:"certificate_issued"`
}

type CallResponse struct {
	*models.VideoCall
	CanCancel bool `json:"can_cancel"`
}

// AccessDecision is the route guard verdict for one navigation attempt.
type AccessDecision struct {
	Allowed  bool            `json:"allowed"`
	Redirect string          `json:"redirect,omitempty"`
	Role     models.UserRole `json:"role"`
}

// ===== SERVICE INTERFACES =====

// SessionService owns the durable role store and the route guard verdicts
// built on top of it.
type SessionService interface {
	Login(ctx context.Context, subject string, role models.UserRole) error
	Logout(ctx context.Context, subject string) error
	CurrentRole(ctx context.Context, subject string) (models.UserRole, error)

	// ResolveAccess combines the stored role with the route table. A wrong
	// role redirects to that role's own landing page, no role to login.
	ResolveAccess(ctx context.Context, subject string, path string) (*AccessDecision, error)
}

// ApplicationService covers the company reviewer's status selection over
// submitted applications.
type ApplicationService interface {
	GetByID(ctx context.Context, id uint, userID string) (*ApplicationResponse, error)
	List(ctx context.Context, filters repositories.ApplicationFilters, userID string) (*ApplicationListResponse, error)

	// SelectReview applies the single-slot status toggle. Selecting the
	// current status again resets it to none. Leaving accepted clears the
	// current-intern flag in the same transaction.
	SelectReview(ctx context.Context, id uint, req *ReviewSelectRequest, reviewerID string) (*ApplicationResponse, error)
}

// InternService covers the intern lifecycle from current through evaluated.
type InternService interface {
	ListCurrent(ctx context.Context, filters repositories.ApplicationFilters, userID string) (*ApplicationListResponse, error)

	MarkCurrent(ctx context.Context, id uint, reviewerID string) error

	// UnmarkCurrent hides the intern immediately and starts the removal
	// timer. UndoRemoval before the timer fires restores the intern and is
	// a no-op afterwards.
	UnmarkCurrent(ctx context.Context, id uint, reviewerID string) error
	UndoRemoval(ctx context.Context, id uint, reviewerID string) error

	ToggleCompleted(ctx context.Context, id uint, reviewerID string) (*ApplicationResponse, error)

	// Evaluate is one-way. A second evaluation for the same intern by the
	// same evaluator is rejected against stored evaluation records.
	Evaluate(ctx context.Context, req *EvaluationCreateRequest, evaluatorID string) (*models.Evaluation, error)
	ListEvaluations(ctx context.Context, applicationID uint, userID string) ([]*models.Evaluation, error)
}

// ReportService covers report review, comments and the one-shot appeal.
type ReportService interface {
	GetByID(ctx context.Context, id uint, userID string) (*ReportResponse, error)
	List(ctx context.Context, filters repositories.ReportFilters, userID string) ([]*ReportResponse, int64, error)

	SetStatus(ctx context.Context, id uint, status models.ReportStatus, reviewerID string) error
	AddComment(ctx context.Context, id uint, req *ReportCommentRequest, reviewerID string) (*models.ReportComment, error)

	// Appeal requires a rejected report with at least one comment and a
	// non-blank message. Each report can be appealed once.
	Appeal(ctx context.Context, id uint, req *AppealRequest, studentID string) (*ReportResponse, error)
}

// PostService covers the draft to post publication lifecycle.
type PostService interface {
	CreateDraft(ctx context.Context, req *DraftCreateRequest, companyID string) (*DraftResponse, error)
	GetDraft(ctx context.Context, id uint, companyID string) (*DraftResponse, error)
	UpdateDraft(ctx context.Context, id uint, req *DraftUpdateRequest, companyID string) (*DraftResponse, error)
	ListDrafts(ctx context.Context, companyID string) ([]*DraftResponse, error)
	FinalizeDraft(ctx context.Context, id uint, companyID string) (*DraftResponse, error)

	// Publish relocates a finalized draft into the posts collection with
	// status pending. There is no unpublish.
	Publish(ctx context.Context, draftID uint, companyID string) (*models.InternshipPost, error)

	GetPost(ctx context.Context, id uint) (*models.InternshipPost, error)
	ListPosts(ctx context.Context, filters repositories.PostFilters) (*PostListResponse, error)
	Moderate(ctx context.Context, id uint, req *PostModerateRequest, moderatorID string) error

	// Deletes are two-step. An unconfirmed call fails with
	// ErrDeleteNotConfirmed and changes nothing.
	DeleteDraft(ctx context.Context, id uint, companyID string, confirmed bool) error
	DeletePost(ctx context.Context, id uint, companyID string, confirmed bool) error
}

// NotificationService is the append/remove queue shared across workflows.
type NotificationService interface {
	Notify(ctx context.Context, req *NotificationCreateRequest) (*models.Notification, error)
	Remove(ctx context.Context, id uint, userID string) error
	ListForUser(ctx context.Context, userID string) ([]*models.Notification, error)
}

// WorkshopService covers workshops, registration and certificates.
type WorkshopService interface {
	Create(ctx context.Context, req *WorkshopCreateRequest, creatorID string) (*models.Workshop, error)
	GetByID(ctx context.Context, id uint, studentID string) (*WorkshopResponse, error)
	List(ctx context.Context, filters repositories.WorkshopFilters, studentID string) ([]*WorkshopResponse, int64, error)

	// Register appends an apply notification for the student.
	Register(ctx context.Context, workshopID uint, studentID string) error

	SetLive(ctx context.Context, workshopID uint, live bool, userID string) error
	AttachRecording(ctx context.Context, workshopID uint, userID string) error
	IssueCertificate(ctx context.Context, workshopID uint, studentID string, issuerID string) error
}

// CallService covers appointments and the simulated call connection.
type CallService interface {
	CreateAppointment(ctx context.Context, req *AppointmentCreateRequest, userID string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, userID string) ([]*models.Appointment, error)

	// InitiateCall starts the connect delay. The call transitions to
	// connected when the delay elapses unless cancelled first; cancelling
	// resets the appointment's call-initiated flag.
	InitiateCall(ctx context.Context, appointmentID uint, callerID string) (*CallResponse, error)
	CancelCall(ctx context.Context, callID uint, userID string) error
	EndCall(ctx context.Context, callID uint, userID string) error
	GetCall(ctx context.Context, callID uint, userID string) (*CallResponse, error)
}

// DashboardService covers SCAD office statistics and exports.
type DashboardService interface {
	GetCycleStats(ctx context.Context, userID string) (*repositories.CycleStats, error)
	ExportApplications(ctx context.Context, userID string) (*excelize.File, error)
	ExportCycleStats(ctx context.Context, userID string) (*excelize.File, error)
}

// ServiceManager provides access to all services with lifecycle management
type ServiceManager interface {
	Session() SessionService
	Application() ApplicationService
	Intern() InternService
	Report() ReportService
	Post() PostService
	Notification() NotificationService
	Workshop() WorkshopService
	Call() CallService
	Dashboard() DashboardService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
