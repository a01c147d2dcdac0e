package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/internship-service/internal/events"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

type applicationService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewApplicationService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ApplicationService {
	return &applicationService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

func (s *applicationService) GetByID(ctx context.Context, id uint, userID string) (*ApplicationResponse, error) {
	app, err := s.repo.Application().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return s.toResponse(app), nil
}

func (s *applicationService) List(ctx context.Context, filters repositories.ApplicationFilters, userID string) (*ApplicationListResponse, error) {
	apps, total, err := s.repo.Application().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	responses := make([]*ApplicationResponse, len(apps))
	for i, app := range apps {
		responses[i] = s.toResponse(app)
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

func (s *applicationService) SelectReview(ctx context.Context, id uint, req *ReviewSelectRequest, reviewerID string) (*ApplicationResponse, error) {
	s.logger.Info("Selecting review status",
		"application_id", id,
		"status", req.Status,
		"reviewer_id", reviewerID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var updated *models.InternshipApplication
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		app, err := txRepo.Application().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrApplicationNotFound
			}
			return fmt.Errorf("failed to get application: %w", err)
		}
		if app.RemovedAt != nil {
			return ErrApplicationRemoved
		}

		previous := app.Status
		app.Status = models.ToggleReview(app.Status, req.Status)

		// The current-intern flag only means anything while the review
		// stands at accepted, so leaving accepted clears it.
		if previous == models.ReviewAccepted && app.Status != models.ReviewAccepted {
			app.IsCurrentIntern = false
		}

		if err := txRepo.Application().Update(ctx, app); err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}

		updated = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventApplicationReviewed, map[string]interface{}{
		"application_id": updated.ID,
		"status":         updated.Status,
		"reviewer_id":    reviewerID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish review event", "application_id", updated.ID, "error", pubErr)
	}

	return s.toResponse(updated), nil
}

func (s *applicationService) toResponse(app *models.InternshipApplication) *ApplicationResponse {
	return &ApplicationResponse{
		InternshipApplication: app,
		CanEvaluate:           app.IsCompleted && !app.IsEvaluated,
		CanUndo:               app.PendingRemoval,
	}
}
