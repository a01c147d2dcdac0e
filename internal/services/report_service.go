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

type reportService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewReportService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ReportService {
	return &reportService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

func (s *reportService) GetByID(ctx context.Context, id uint, userID string) (*ReportResponse, error) {
	report, err := s.repo.Report().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	comments, err := s.repo.Report().ListComments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list report comments: %w", err)
	}

	return s.toResponse(report, comments), nil
}

func (s *reportService) List(ctx context.Context, filters repositories.ReportFilters, userID string) ([]*ReportResponse, int64, error) {
	reports, total, err := s.repo.Report().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}

	responses := make([]*ReportResponse, len(reports))
	for i, report := range reports {
		responses[i] = s.toResponse(report, nil)
	}
	return responses, total, nil
}

func (s *reportService) SetStatus(ctx context.Context, id uint, status models.ReportStatus, reviewerID string) error {
	switch status {
	case models.ReportPending, models.ReportAccepted, models.ReportRejected, models.ReportFlagged:
	default:
		return fmt.Errorf("%w: invalid report status %q", ErrBadRequest, status)
	}

	report, err := s.repo.Report().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrReportNotFound
		}
		return fmt.Errorf("failed to get report: %w", err)
	}

	report.Status = status
	if err := s.repo.Report().Update(ctx, report); err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}

	s.logger.Info("Report status updated",
		"report_id", id,
		"status", status,
		"reviewer_id", reviewerID)
	return nil
}

func (s *reportService) AddComment(ctx context.Context, id uint, req *ReportCommentRequest, reviewerID string) (*models.ReportComment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.repo.Report().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	comment := &models.ReportComment{
		ReportID:   id,
		ReviewerID: reviewerID,
		Body:       req.Body,
	}
	if err := s.repo.Report().AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}

// Appeal turns Appealed on exactly once. Eligibility requires a rejected
// report with at least one reviewer comment.
func (s *reportService) Appeal(ctx context.Context, id uint, req *AppealRequest, studentID string) (*ReportResponse, error) {
	s.logger.Info("Appealing report", "report_id", id, "student_id", studentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var report *models.InternshipReport
	var comments []*models.ReportComment
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		report, err = txRepo.Report().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrReportNotFound
			}
			return fmt.Errorf("failed to get report: %w", err)
		}
		if report.StudentID != studentID {
			return NewPermissionError(studentID, id, "report", "appeal", "not the report owner")
		}

		comments, err = txRepo.Report().ListComments(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list report comments: %w", err)
		}

		if report.Appealed {
			return ErrAlreadyAppealed
		}
		if verrs := s.validator.GetBusinessValidator().ValidateAppealEligibility(report, len(comments)); len(verrs) > 0 {
			return ErrAppealNotAllowed
		}

		now := time.Now()
		report.Appealed = true
		report.AppealMessage = &req.Message
		report.AppealedAt = &now
		if err := txRepo.Report().Update(ctx, report); err != nil {
			return fmt.Errorf("failed to update report: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventReportAppealed, map[string]interface{}{
		"report_id":  id,
		"student_id": studentID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish appeal event", "report_id", id, "error", pubErr)
	}

	return s.toResponse(report, comments), nil
}

func (s *reportService) toResponse(report *models.InternshipReport, comments []*models.ReportComment) *ReportResponse {
	canAppeal := report.Status == models.ReportRejected && !report.Appealed && len(comments) > 0
	return &ReportResponse{
		InternshipReport: report,
		CanAppeal:        canAppeal,
		Comments:         comments,
	}
}
