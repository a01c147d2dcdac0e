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

type notificationService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) NotificationService {
	return &notificationService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

func (s *notificationService) Notify(ctx context.Context, req *NotificationCreateRequest) (*models.Notification, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	entry := &models.Notification{
		UserID:     req.UserID,
		Message:    req.Message,
		Type:       req.Type,
		WorkshopID: req.WorkshopID,
	}
	if err := s.repo.Notification().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventNotificationCreated, map[string]interface{}{
		"notification_id": entry.ID,
		"user_id":         entry.UserID,
		"type":            entry.Type,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish notification event", "notification_id", entry.ID, "error", pubErr)
	}

	return entry, nil
}

func (s *notificationService) Remove(ctx context.Context, id uint, userID string) error {
	if err := s.repo.Notification().Delete(ctx, id, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to remove notification: %w", err)
	}
	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	entries, err := s.repo.Notification().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return entries, nil
}
