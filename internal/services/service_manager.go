package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/internship-service/internal/deferred"
	"github.com/SAP-F-2025/internship-service/internal/events"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Undo window before an unmarked intern is removed for good.
	InternRemovalDelay time.Duration

	// Simulated connecting window before a call goes through.
	CallConnectDelay time.Duration

	DefaultTimeout time.Duration
}

// DefaultServiceManagerConfig mirrors the delays the product ships with.
func DefaultServiceManagerConfig() ServiceManagerConfig {
	return ServiceManagerConfig{
		InternRemovalDelay: 2 * time.Second,
		CallConnectDelay:   3 * time.Second,
		DefaultTimeout:     30 * time.Second,
	}
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	runner         *deferred.Runner
	config         ServiceManagerConfig

	sessionService      SessionService
	applicationService  ApplicationService
	internService       InternService
	reportService       ReportService
	postService         PostService
	notificationService NotificationService
	workshopService     WorkshopService
	callService         CallService
	dashboardService    DashboardService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	if config.InternRemovalDelay <= 0 {
		config.InternRemovalDelay = 2 * time.Second
	}
	if config.CallConnectDelay <= 0 {
		config.CallConnectDelay = 3 * time.Second
	}

	return &serviceManager{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		runner:         deferred.NewRunner(),
		config:         config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.sessionService = NewSessionService(sm.repo, sm.logger)
	sm.applicationService = NewApplicationService(sm.repo, sm.logger, sm.validator, sm.eventPublisher)
	sm.internService = NewInternService(sm.repo, sm.logger, sm.validator, sm.eventPublisher, sm.runner, sm.config.InternRemovalDelay)
	sm.reportService = NewReportService(sm.repo, sm.logger, sm.validator, sm.eventPublisher)
	sm.postService = NewPostService(sm.repo, sm.logger, sm.validator, sm.eventPublisher)
	sm.notificationService = NewNotificationService(sm.repo, sm.logger, sm.validator, sm.eventPublisher)
	sm.workshopService = NewWorkshopService(sm.repo, sm.logger, sm.validator, sm.eventPublisher, sm.notificationService)
	sm.callService = NewCallService(sm.repo, sm.logger, sm.validator, sm.eventPublisher, sm.notificationService, sm.runner, sm.config.CallConnectDelay)
	sm.dashboardService = NewDashboardService(sm.repo, sm.logger)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

// Shutdown stops the timer runner and releases the event publisher. Pending
// undo windows and connect delays are discarded, not fired.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	sm.runner.Close()
	if err := sm.eventPublisher.Close(); err != nil {
		sm.logger.Warn("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	return nil
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Session() SessionService           { return sm.sessionService }
func (sm *serviceManager) Application() ApplicationService   { return sm.applicationService }
func (sm *serviceManager) Intern() InternService             { return sm.internService }
func (sm *serviceManager) Report() ReportService             { return sm.reportService }
func (sm *serviceManager) Post() PostService                 { return sm.postService }
func (sm *serviceManager) Notification() NotificationService { return sm.notificationService }
func (sm *serviceManager) Workshop() WorkshopService         { return sm.workshopService }
func (sm *serviceManager) Call() CallService                 { return sm.callService }
func (sm *serviceManager) Dashboard() DashboardService       { return sm.dashboardService }
