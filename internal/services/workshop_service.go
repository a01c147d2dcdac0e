package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/internship-service/internal/events"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

type workshopService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	notifier       NotificationService
}

func NewWorkshopService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, notifier NotificationService) WorkshopService {
	return &workshopService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		notifier:       notifier,
	}
}

func (s *workshopService) Create(ctx context.Context, req *WorkshopCreateRequest, creatorID string) (*models.Workshop, error) {
	if verrs := s.validator.GetBusinessValidator().ValidateWorkshopCreate(req); len(verrs) > 0 {
		return nil, verrs
	}

	workshop := &models.Workshop{
		CreatedBy:   creatorID,
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Agenda:      req.Agenda,
	}
	if err := s.repo.Workshop().Create(ctx, workshop); err != nil {
		return nil, fmt.Errorf("failed to create workshop: %w", err)
	}

	s.logger.Info("Workshop created", "workshop_id", workshop.ID, "creator_id", creatorID)
	return workshop, nil
}

func (s *workshopService) GetByID(ctx context.Context, id uint, studentID string) (*WorkshopResponse, error) {
	workshop, err := s.repo.Workshop().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("failed to get workshop: %w", err)
	}

	response := &WorkshopResponse{Workshop: workshop}
	if studentID != "" {
		reg, err := s.repo.Workshop().GetRegistration(ctx, id, studentID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get registration: %w", err)
		}
		if reg != nil {
			response.Registered = true
			response.CertificateIssued = reg.CertificateIssued
		}
	}
	return response, nil
}

func (s *workshopService) List(ctx context.Context, filters repositories.WorkshopFilters, studentID string) ([]*WorkshopResponse, int64, error) {
	workshops, total, err := s.repo.Workshop().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workshops: %w", err)
	}

	responses := make([]*WorkshopResponse, len(workshops))
	for i, workshop := range workshops {
		responses[i] = &WorkshopResponse{Workshop: workshop}
		if studentID == "" {
			continue
		}
		reg, err := s.repo.Workshop().GetRegistration(ctx, workshop.ID, studentID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, 0, fmt.Errorf("failed to get registration: %w", err)
		}
		if reg != nil {
			responses[i].Registered = true
			responses[i].CertificateIssued = reg.CertificateIssued
		}
	}
	return responses, total, nil
}

// Register signs the student up and drops an apply notification into their
// queue.
func (s *workshopService) Register(ctx context.Context, workshopID uint, studentID string) error {
	s.logger.Info("Registering for workshop", "workshop_id", workshopID, "student_id", studentID)

	workshop, err := s.repo.Workshop().GetByID(ctx, workshopID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrWorkshopNotFound
		}
		return fmt.Errorf("failed to get workshop: %w", err)
	}

	existing, err := s.repo.Workshop().GetRegistration(ctx, workshopID, studentID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return fmt.Errorf("failed to check registration: %w", err)
	}
	if existing != nil {
		return ErrAlreadyRegistered
	}

	reg := &models.WorkshopRegistration{
		WorkshopID: workshopID,
		StudentID:  studentID,
	}
	if err := s.repo.Workshop().Register(ctx, reg); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}

	applyType := models.NotificationApply
	if _, err := s.notifier.Notify(ctx, &NotificationCreateRequest{
		UserID:     studentID,
		Message:    fmt.Sprintf("You applied to the workshop %q", workshop.Name),
		Type:       &applyType,
		WorkshopID: &workshopID,
	}); err != nil {
		s.logger.Warn("Failed to append apply notification", "workshop_id", workshopID, "error", err)
	}

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventWorkshopRegistered, map[string]interface{}{
		"workshop_id": workshopID,
		"student_id":  studentID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish registration event", "workshop_id", workshopID, "error", pubErr)
	}

	return nil
}

// SetLive flips the live flag; going live notifies every registered student.
func (s *workshopService) SetLive(ctx context.Context, workshopID uint, live bool, userID string) error {
	workshop, err := s.repo.Workshop().GetByID(ctx, workshopID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrWorkshopNotFound
		}
		return fmt.Errorf("failed to get workshop: %w", err)
	}

	workshop.IsLive = live
	if err := s.repo.Workshop().Update(ctx, workshop); err != nil {
		return fmt.Errorf("failed to update workshop: %w", err)
	}

	if live {
		s.notifyRegistered(ctx, workshop, models.NotificationLive,
			fmt.Sprintf("The workshop %q is live now", workshop.Name))
	}
	return nil
}

// AttachRecording marks the recording available and notifies registrants.
func (s *workshopService) AttachRecording(ctx context.Context, workshopID uint, userID string) error {
	workshop, err := s.repo.Workshop().GetByID(ctx, workshopID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrWorkshopNotFound
		}
		return fmt.Errorf("failed to get workshop: %w", err)
	}

	workshop.HasRecording = true
	if err := s.repo.Workshop().Update(ctx, workshop); err != nil {
		return fmt.Errorf("failed to update workshop: %w", err)
	}

	s.notifyRegistered(ctx, workshop, models.NotificationVod,
		fmt.Sprintf("The recording of %q is available", workshop.Name))
	return nil
}

func (s *workshopService) IssueCertificate(ctx context.Context, workshopID uint, studentID string, issuerID string) error {
	s.logger.Info("Issuing certificate",
		"workshop_id", workshopID,
		"student_id", studentID,
		"issuer_id", issuerID)

	workshop, err := s.repo.Workshop().GetByID(ctx, workshopID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrWorkshopNotFound
		}
		return fmt.Errorf("failed to get workshop: %w", err)
	}

	reg, err := s.repo.Workshop().GetRegistration(ctx, workshopID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to get registration: %w", err)
	}
	if reg.CertificateIssued {
		return ErrCertificateAlreadyIssued
	}

	now := time.Now()
	reg.CertificateIssued = true
	reg.CertifiedAt = &now
	if err := s.repo.Workshop().UpdateRegistration(ctx, reg); err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}

	certType := models.NotificationCertificate
	if _, err := s.notifier.Notify(ctx, &NotificationCreateRequest{
		UserID:     studentID,
		Message:    fmt.Sprintf("You earned a certificate for %q", workshop.Name),
		Type:       &certType,
		WorkshopID: &workshopID,
	}); err != nil {
		s.logger.Warn("Failed to append certificate notification", "workshop_id", workshopID, "error", err)
	}

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventCertificateIssued, map[string]interface{}{
		"workshop_id": workshopID,
		"student_id":  studentID,
		"issuer_id":   issuerID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish certificate event", "workshop_id", workshopID, "error", pubErr)
	}

	return nil
}

func (s *workshopService) notifyRegistered(ctx context.Context, workshop *models.Workshop, nType models.NotificationType, message string) {
	regs, err := s.repo.Workshop().ListRegistrations(ctx, workshop.ID)
	if err != nil {
		s.logger.Warn("Failed to list registrations for notification", "workshop_id", workshop.ID, "error", err)
		return
	}

	workshopID := workshop.ID
	for _, reg := range regs {
		if _, err := s.notifier.Notify(ctx, &NotificationCreateRequest{
			UserID:     reg.StudentID,
			Message:    message,
			Type:       &nType,
			WorkshopID: &workshopID,
		}); err != nil {
			s.logger.Warn("Failed to notify registrant",
				"workshop_id", workshop.ID,
				"student_id", reg.StudentID,
				"error", err)
		}
	}
}
