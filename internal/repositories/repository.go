package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-service/internal/models"
)

// Repository aggregates all repository interfaces. WithTransaction yields a
// Repository bound to the transaction so multi-entity invariants (review
// status + intern flag, publish + draft removal) commit atomically.
type Repository interface {
	Application() ApplicationRepository
	Evaluation() EvaluationRepository
	Report() ReportRepository
	Post() PostRepository
	Notification() NotificationRepository
	Workshop() WorkshopRepository
	Appointment() AppointmentRepository

	// User domain (read-only; identity lives in Casdoor)
	User() UserRepository

	// Session domain (durable role store)
	Session() SessionRepository

	Dashboard() DashboardRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Shutdown gracefully closes all connections
	Shutdown(ctx context.Context) error
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.InternshipApplication) error
	GetByID(ctx context.Context, id uint) (*models.InternshipApplication, error)
	Update(ctx context.Context, app *models.InternshipApplication) error
	List(ctx context.Context, filters ApplicationFilters) ([]*models.InternshipApplication, int64, error)
	ListCurrentInterns(ctx context.Context, filters ApplicationFilters) ([]*models.InternshipApplication, int64, error)
}

type EvaluationRepository interface {
	Create(ctx context.Context, eval *models.Evaluation) error
	GetByEvaluatorAndApplication(ctx context.Context, evaluatorID string, applicationID uint) (*models.Evaluation, error)
	ListByApplication(ctx context.Context, applicationID uint) ([]*models.Evaluation, error)
	ListByEvaluator(ctx context.Context, evaluatorID string) ([]*models.Evaluation, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.InternshipReport) error
	GetByID(ctx context.Context, id uint) (*models.InternshipReport, error)
	Update(ctx context.Context, report *models.InternshipReport) error
	List(ctx context.Context, filters ReportFilters) ([]*models.InternshipReport, int64, error)

	// Comments are append-only.
	AddComment(ctx context.Context, comment *models.ReportComment) error
	ListComments(ctx context.Context, reportID uint) ([]*models.ReportComment, error)
}

type PostRepository interface {
	// Drafts
	CreateDraft(ctx context.Context, draft *models.PostDraft) error
	GetDraft(ctx context.Context, id uint) (*models.PostDraft, error)
	UpdateDraft(ctx context.Context, draft *models.PostDraft) error
	DeleteDraft(ctx context.Context, id uint) error
	ListDrafts(ctx context.Context, companyID string) ([]*models.PostDraft, error)

	// Posts
	CreatePost(ctx context.Context, post *models.InternshipPost) error
	GetPost(ctx context.Context, id uint) (*models.InternshipPost, error)
	UpdatePost(ctx context.Context, post *models.InternshipPost) error
	DeletePost(ctx context.Context, id uint) error
	ListPosts(ctx context.Context, filters PostFilters) ([]*models.InternshipPost, int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, entry *models.Notification) error
	Delete(ctx context.Context, id uint, userID string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
}

type WorkshopRepository interface {
	Create(ctx context.Context, workshop *models.Workshop) error
	GetByID(ctx context.Context, id uint) (*models.Workshop, error)
	Update(ctx context.Context, workshop *models.Workshop) error
	List(ctx context.Context, filters WorkshopFilters) ([]*models.Workshop, int64, error)

	Register(ctx context.Context, reg *models.WorkshopRegistration) error
	GetRegistration(ctx context.Context, workshopID uint, studentID string) (*models.WorkshopRegistration, error)
	UpdateRegistration(ctx context.Context, reg *models.WorkshopRegistration) error
	ListRegistrations(ctx context.Context, workshopID uint) ([]*models.WorkshopRegistration, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	Update(ctx context.Context, appt *models.Appointment) error
	ListByUser(ctx context.Context, userID string) ([]*models.Appointment, error)

	CreateCall(ctx context.Context, call *models.VideoCall) error
	GetCall(ctx context.Context, id uint) (*models.VideoCall, error)
	UpdateCall(ctx context.Context, call *models.VideoCall) error
	GetActiveCall(ctx context.Context, appointmentID uint) (*models.VideoCall, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
}

// SessionRepository is the durable role store. GetRole fails open: a
// missing or corrupt value reads as RoleNone and never errors the caller
// into a broken state. SetRole with RoleNone clears the stored value.
type SessionRepository interface {
	GetRole(ctx context.Context, subject string) (models.UserRole, error)
	SetRole(ctx context.Context, subject string, role models.UserRole) error
}

type DashboardRepository interface {
	GetCycleStats(ctx context.Context) (*CycleStats, error)
}

// ===== SHARED ERROR HANDLING =====

var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err is a missing-record error from any
// repository implementation.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
