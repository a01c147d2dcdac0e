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

type callService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	notifier       NotificationService
	runner         *deferred.Runner
	connectDelay   time.Duration
}

func NewCallService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, notifier NotificationService, runner *deferred.Runner, connectDelay time.Duration) CallService {
	return &callService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		notifier:       notifier,
		runner:         runner,
		connectDelay:   connectDelay,
	}
}

func connectKey(callID uint) string {
	return fmt.Sprintf("call-connect:%d", callID)
}

func (s *callService) CreateAppointment(ctx context.Context, req *AppointmentCreateRequest, userID string) (*models.Appointment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	appt := &models.Appointment{
		StudentID:   req.StudentID,
		OfficerID:   req.OfficerID,
		Purpose:     req.Purpose,
		ScheduledAt: req.ScheduledAt,
	}
	if err := s.repo.Appointment().Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.logger.Info("Appointment created", "appointment_id", appt.ID, "created_by", userID)
	return appt, nil
}

func (s *callService) ListAppointments(ctx context.Context, userID string) ([]*models.Appointment, error) {
	appts, err := s.repo.Appointment().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

// InitiateCall opens the connecting window. The call flips to connected
// when the window elapses unless CancelCall gets there first.
func (s *callService) InitiateCall(ctx context.Context, appointmentID uint, callerID string) (*CallResponse, error) {
	s.logger.Info("Initiating call", "appointment_id", appointmentID, "caller_id", callerID)

	appt, err := s.repo.Appointment().GetByID(ctx, appointmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if appt.StudentID != callerID && appt.OfficerID != callerID {
		return nil, NewPermissionError(callerID, appointmentID, "appointment", "call", "not a participant")
	}

	active, err := s.repo.Appointment().GetActiveCall(ctx, appointmentID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check active call: %w", err)
	}
	if active != nil {
		return nil, ErrCallAlreadyActive
	}

	call := &models.VideoCall{
		AppointmentID: appointmentID,
		CallerID:      callerID,
		Status:        models.CallConnecting,
		InitiatedAt:   time.Now(),
	}
	if err := s.repo.Appointment().CreateCall(ctx, call); err != nil {
		return nil, fmt.Errorf("failed to create call: %w", err)
	}

	appt.CallInitiated = true
	if err := s.repo.Appointment().Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.runner.Schedule(connectKey(call.ID), s.connectDelay, func() {
		s.commitConnect(call.ID)
	})

	// Ring the other participant.
	callee := appt.StudentID
	if callerID == appt.StudentID {
		callee = appt.OfficerID
	}
	callType := models.NotificationVideoCall
	if _, err := s.notifier.Notify(ctx, &NotificationCreateRequest{
		UserID:  callee,
		Message: "Incoming video call for your appointment",
		Type:    &callType,
	}); err != nil {
		s.logger.Warn("Failed to append call notification", "call_id", call.ID, "error", err)
	}

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventCallInitiated, map[string]interface{}{
		"call_id":        call.ID,
		"appointment_id": appointmentID,
		"caller_id":      callerID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish call initiated event", "call_id", call.ID, "error", pubErr)
	}

	return &CallResponse{VideoCall: call, CanCancel: true}, nil
}

// commitConnect runs on the timer goroutine once the connecting window
// closes without a cancel.
func (s *callService) commitConnect(callID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Transactional so a cancel racing the window close cannot be clobbered:
	// whichever write lands first settles the call's state.
	connected := false
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		call, err := txRepo.Appointment().GetCall(ctx, callID)
		if err != nil {
			return fmt.Errorf("failed to load call for connect: %w", err)
		}
		if call.Status != models.CallConnecting {
			return nil
		}

		now := time.Now()
		call.Status = models.CallConnected
		call.ConnectedAt = &now
		if err := txRepo.Appointment().UpdateCall(ctx, call); err != nil {
			return fmt.Errorf("failed to commit call connect: %w", err)
		}
		connected = true
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to commit call connect", "call_id", callID, "error", err)
		return
	}
	if !connected {
		return
	}

	s.logger.Info("Call connected", "call_id", callID)

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventCallConnected, map[string]interface{}{
		"call_id": callID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish call connected event", "call_id", callID, "error", pubErr)
	}
}

// CancelCall aborts a connecting call and resets the appointment's
// call-initiated flag.
func (s *callService) CancelCall(ctx context.Context, callID uint, userID string) error {
	s.runner.Cancel(connectKey(callID))

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		call, err := txRepo.Appointment().GetCall(ctx, callID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCallNotFound
			}
			return fmt.Errorf("failed to get call: %w", err)
		}
		if call.Status != models.CallConnecting {
			return ErrCallNotConnecting
		}

		call.Status = models.CallCancelled
		if err := txRepo.Appointment().UpdateCall(ctx, call); err != nil {
			return fmt.Errorf("failed to update call: %w", err)
		}

		return clearCallInitiated(ctx, txRepo, call.AppointmentID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Call cancelled", "call_id", callID, "user_id", userID)

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventCallCancelled, map[string]interface{}{
		"call_id": callID,
		"user_id": userID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish call cancelled event", "call_id", callID, "error", pubErr)
	}

	return nil
}

func (s *callService) EndCall(ctx context.Context, callID uint, userID string) error {
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		call, err := txRepo.Appointment().GetCall(ctx, callID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCallNotFound
			}
			return fmt.Errorf("failed to get call: %w", err)
		}
		if call.Status != models.CallConnected {
			return fmt.Errorf("%w: call is %s", ErrConflict, call.Status)
		}

		now := time.Now()
		call.Status = models.CallEnded
		call.EndedAt = &now
		if err := txRepo.Appointment().UpdateCall(ctx, call); err != nil {
			return fmt.Errorf("failed to update call: %w", err)
		}

		return clearCallInitiated(ctx, txRepo, call.AppointmentID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Call ended", "call_id", callID, "user_id", userID)
	return nil
}

func (s *callService) GetCall(ctx context.Context, callID uint, userID string) (*CallResponse, error) {
	call, err := s.repo.Appointment().GetCall(ctx, callID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCallNotFound
		}
		return nil, fmt.Errorf("failed to get call: %w", err)
	}

	return &CallResponse{
		VideoCall: call,
		CanCancel: call.Status == models.CallConnecting,
	}, nil
}

func clearCallInitiated(ctx context.Context, repo repositories.Repository, appointmentID uint) error {
	appt, err := repo.Appointment().GetByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("failed to get appointment: %w", err)
	}

	appt.CallInitiated = false
	if err := repo.Appointment().Update(ctx, appt); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}
