package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/internship-service/internal/deferred"
	"github.com/SAP-F-2025/internship-service/internal/events"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

type internService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	runner         *deferred.Runner
	removalDelay   time.Duration
}

func NewInternService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, runner *deferred.Runner, removalDelay time.Duration) InternService {
	return &internService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		runner:         runner,
		removalDelay:   removalDelay,
	}
}

func removalKey(id uint) string {
	return fmt.Sprintf("intern-removal:%d", id)
}

func (s *internService) ListCurrent(ctx context.Context, filters repositories.ApplicationFilters, userID string) (*ApplicationListResponse, error) {
	apps, total, err := s.repo.Application().ListCurrentInterns(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list current interns: %w", err)
	}

	responses := make([]*ApplicationResponse, len(apps))
	for i, app := range apps {
		responses[i] = &ApplicationResponse{
			InternshipApplication: app,
			CanEvaluate:           app.IsCompleted && !app.IsEvaluated,
			CanUndo:               app.PendingRemoval,
		}
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &ApplicationListResponse{
		Applications: responses,
		Total:        total,
		Page:         page,
		Size:         len(responses),
	}, nil
}

func (s *internService) MarkCurrent(ctx context.Context, id uint, reviewerID string) error {
	s.logger.Info("Marking current intern", "application_id", id, "reviewer_id", reviewerID)

	app, err := s.repo.Application().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to get application: %w", err)
	}
	if app.RemovedAt != nil {
		return ErrApplicationRemoved
	}

	// Re-marking during the undo window acts as an undo.
	s.runner.Cancel(removalKey(id))

	app.IsCurrentIntern = true
	app.PendingRemoval = false
	if err := s.repo.Application().Update(ctx, app); err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventInternMarked, map[string]interface{}{
		"application_id": id,
		"reviewer_id":    reviewerID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish intern marked event", "application_id", id, "error", pubErr)
	}

	return nil
}

// UnmarkCurrent starts the undo window. The intern leaves the active view
// immediately but the removal only commits when the timer fires.
func (s *internService) UnmarkCurrent(ctx context.Context, id uint, reviewerID string) error {
	s.logger.Info("Unmarking current intern", "application_id", id, "reviewer_id", reviewerID)

	app, err := s.repo.Application().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to get application: %w", err)
	}
	if app.RemovedAt != nil {
		return ErrApplicationRemoved
	}
	if !app.IsCurrentIntern {
		return ErrNotCurrentIntern
	}

	app.PendingRemoval = true
	if err := s.repo.Application().Update(ctx, app); err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}

	s.runner.Schedule(removalKey(id), s.removalDelay, func() {
		s.commitRemoval(id)
	})

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventInternRemovalQueued, map[string]interface{}{
		"application_id": id,
		"reviewer_id":    reviewerID,
		"delay_ms":       s.removalDelay.Milliseconds(),
	})); pubErr != nil {
		s.logger.Warn("Failed to publish removal queued event", "application_id", id, "error", pubErr)
	}

	return nil
}

// commitRemoval runs on the timer goroutine after the undo window closes.
// The read-modify-write is transactional so an undo arriving at the expiry
// instant either lands before the commit (and is respected) or after it
// (and sees the removal as final).
func (s *internService) commitRemoval(id uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	committed := false
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		app, err := txRepo.Application().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load application for removal: %w", err)
		}
		if !app.PendingRemoval || app.RemovedAt != nil {
			return nil
		}

		now := time.Now()
		app.IsCurrentIntern = false
		app.PendingRemoval = false
		app.RemovedAt = &now
		if err := txRepo.Application().Update(ctx, app); err != nil {
			return fmt.Errorf("failed to commit intern removal: %w", err)
		}
		committed = true
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to commit intern removal", "application_id", id, "error", err)
		return
	}
	if !committed {
		return
	}

	s.logger.Info("Intern removal committed", "application_id", id)

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventInternRemoved, map[string]interface{}{
		"application_id": id,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish intern removed event", "application_id", id, "error", pubErr)
	}
}

// UndoRemoval restores the intern if the undo window is still open. After
// the window has closed it is a no-op, never an error.
func (s *internService) UndoRemoval(ctx context.Context, id uint, reviewerID string) error {
	cancelled := s.runner.Cancel(removalKey(id))

	restored := false
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		app, err := txRepo.Application().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil
			}
			return fmt.Errorf("failed to get application: %w", err)
		}

		if app.RemovedAt != nil || !app.PendingRemoval {
			// Timer already fired, or nothing was pending.
			return nil
		}

		app.PendingRemoval = false
		app.IsCurrentIntern = true
		if err := txRepo.Application().Update(ctx, app); err != nil {
			return fmt.Errorf("failed to restore intern: %w", err)
		}
		restored = true
		return nil
	})
	if err != nil {
		return err
	}
	if !restored {
		return nil
	}

	s.logger.Info("Intern removal undone",
		"application_id", id,
		"reviewer_id", reviewerID,
		"timer_cancelled", cancelled)

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventInternRemovalUndone, map[string]interface{}{
		"application_id": id,
		"reviewer_id":    reviewerID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish removal undone event", "application_id", id, "error", pubErr)
	}

	return nil
}

func (s *internService) ToggleCompleted(ctx context.Context, id uint, reviewerID string) (*ApplicationResponse, error) {
	app, err := s.repo.Application().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app.RemovedAt != nil {
		return nil, ErrApplicationRemoved
	}
	if !app.IsCurrentIntern {
		return nil, ErrNotCurrentIntern
	}

	app.IsCompleted = !app.IsCompleted
	if err := s.repo.Application().Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	if app.IsCompleted {
		if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventInternCompleted, map[string]interface{}{
			"application_id": id,
			"reviewer_id":    reviewerID,
		})); pubErr != nil {
			s.logger.Warn("Failed to publish intern completed event", "application_id", id, "error", pubErr)
		}
	}

	return &ApplicationResponse{
		InternshipApplication: app,
		CanEvaluate:           app.IsCompleted && !app.IsEvaluated,
		CanUndo:               app.PendingRemoval,
	}, nil
}

func (s *internService) Evaluate(ctx context.Context, req *EvaluationCreateRequest, evaluatorID string) (*models.Evaluation, error) {
	s.logger.Info("Evaluating intern",
		"application_id", req.ApplicationID,
		"evaluator_id", evaluatorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var evaluation *models.Evaluation
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		app, err := txRepo.Application().GetByID(ctx, req.ApplicationID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrApplicationNotFound
			}
			return fmt.Errorf("failed to get application: %w", err)
		}
		if app.RemovedAt != nil {
			return ErrApplicationRemoved
		}
		if !app.IsCompleted {
			return ErrInternNotCompleted
		}
		if app.IsEvaluated {
			return ErrAlreadyEvaluated
		}

		// Duplicate check against stored evaluation records rather than any
		// UI-side disabling.
		existing, err := txRepo.Evaluation().GetByEvaluatorAndApplication(ctx, evaluatorID, req.ApplicationID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to check existing evaluation: %w", err)
		}
		if existing != nil {
			return ErrAlreadyEvaluated
		}

		evaluation = &models.Evaluation{
			ApplicationID: req.ApplicationID,
			EvaluatorID:   evaluatorID,
			Performance:   req.Performance,
			Comments:      req.Comments,
			Recommended:   req.Recommended,
			MentorName:    req.MentorName,
		}
		if err := txRepo.Evaluation().Create(ctx, evaluation); err != nil {
			return fmt.Errorf("failed to create evaluation: %w", err)
		}

		app.IsEvaluated = true
		if err := txRepo.Application().Update(ctx, app); err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventInternEvaluated, map[string]interface{}{
		"application_id": req.ApplicationID,
		"evaluation_id":  evaluation.ID,
		"evaluator_id":   evaluatorID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish evaluation event", "application_id", req.ApplicationID, "error", pubErr)
	}

	return evaluation, nil
}

func (s *internService) ListEvaluations(ctx context.Context, applicationID uint, userID string) ([]*models.Evaluation, error) {
	evaluations, err := s.repo.Evaluation().ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evaluations, nil
}
