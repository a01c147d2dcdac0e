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

type postService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewPostService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) PostService {
	return &postService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// ===== DRAFT OPERATIONS =====

func (s *postService) CreateDraft(ctx context.Context, req *DraftCreateRequest, companyID string) (*DraftResponse, error) {
	if verrs := s.validator.GetBusinessValidator().ValidateDraftCreate(req); len(verrs) > 0 {
		return nil, verrs
	}

	draft := &models.PostDraft{
		CompanyID:     companyID,
		Title:         req.Title,
		Body:          req.Body,
		DurationWeeks: req.DurationWeeks,
		IsPaid:        req.IsPaid,
		Salary:        req.Salary,
		LastEditedAt:  time.Now(),
	}
	if err := s.repo.Post().CreateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	s.logger.Info("Draft created", "draft_id", draft.ID, "company_id", companyID)
	return s.toDraftResponse(draft), nil
}

func (s *postService) GetDraft(ctx context.Context, id uint, companyID string) (*DraftResponse, error) {
	draft, err := s.getOwnedDraft(ctx, s.repo, id, companyID, "read")
	if err != nil {
		return nil, err
	}
	return s.toDraftResponse(draft), nil
}

func (s *postService) UpdateDraft(ctx context.Context, id uint, req *DraftUpdateRequest, companyID string) (*DraftResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	draft, err := s.getOwnedDraft(ctx, s.repo, id, companyID, "update")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		draft.Title = *req.Title
	}
	if req.Body != nil {
		draft.Body = *req.Body
	}
	if req.DurationWeeks != nil {
		draft.DurationWeeks = req.DurationWeeks
	}
	if req.IsPaid != nil {
		draft.IsPaid = *req.IsPaid
	}
	if req.Salary != nil {
		draft.Salary = req.Salary
	}
	draft.LastEditedAt = time.Now()

	if err := s.repo.Post().UpdateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return s.toDraftResponse(draft), nil
}

func (s *postService) ListDrafts(ctx context.Context, companyID string) ([]*DraftResponse, error) {
	drafts, err := s.repo.Post().ListDrafts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	responses := make([]*DraftResponse, len(drafts))
	for i, draft := range drafts {
		responses[i] = s.toDraftResponse(draft)
	}
	return responses, nil
}

func (s *postService) FinalizeDraft(ctx context.Context, id uint, companyID string) (*DraftResponse, error) {
	draft, err := s.getOwnedDraft(ctx, s.repo, id, companyID, "finalize")
	if err != nil {
		return nil, err
	}

	draft.IsFinalized = true
	draft.LastEditedAt = time.Now()
	if err := s.repo.Post().UpdateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to finalize draft: %w", err)
	}
	return s.toDraftResponse(draft), nil
}

// Publish relocates the draft into the posts collection. The draft row is
// gone afterwards; there is no way back from a post to a draft.
func (s *postService) Publish(ctx context.Context, draftID uint, companyID string) (*models.InternshipPost, error) {
	s.logger.Info("Publishing draft", "draft_id", draftID, "company_id", companyID)

	var post *models.InternshipPost
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		draft, err := s.getOwnedDraft(ctx, txRepo, draftID, companyID, "publish")
		if err != nil {
			return err
		}
		if !draft.IsFinalized {
			return ErrDraftNotFinalized
		}

		post = &models.InternshipPost{
			CompanyID:     draft.CompanyID,
			Title:         draft.Title,
			Body:          draft.Body,
			Status:        models.PostPending,
			DurationWeeks: draft.DurationWeeks,
			IsPaid:        draft.IsPaid,
			Salary:        draft.Salary,
			PublishedAt:   time.Now(),
		}
		if err := txRepo.Post().CreatePost(ctx, post); err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}

		if err := txRepo.Post().DeleteDraft(ctx, draftID); err != nil {
			return fmt.Errorf("failed to remove published draft: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventPostPublished, map[string]interface{}{
		"post_id":    post.ID,
		"draft_id":   draftID,
		"company_id": companyID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish post event", "post_id", post.ID, "error", pubErr)
	}

	return post, nil
}

// ===== POST OPERATIONS =====

func (s *postService) GetPost(ctx context.Context, id uint) (*models.InternshipPost, error) {
	post, err := s.repo.Post().GetPost(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, filters repositories.PostFilters) (*PostListResponse, error) {
	posts, total, err := s.repo.Post().ListPosts(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	page := 1
	if filters.Limit > 0 {
		page = filters.Offset/filters.Limit + 1
	}

	return &PostListResponse{
		Posts: posts,
		Total: total,
		Page:  page,
		Size:  len(posts),
	}, nil
}

func (s *postService) Moderate(ctx context.Context, id uint, req *PostModerateRequest, moderatorID string) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	post, err := s.repo.Post().GetPost(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post: %w", err)
	}

	post.Status = req.Status
	if err := s.repo.Post().UpdatePost(ctx, post); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.Info("Post moderated",
		"post_id", id,
		"status", req.Status,
		"moderator_id", moderatorID)
	return nil
}

// ===== DELETE OPERATIONS =====

// DeleteDraft is the second half of the two-step delete. The confirm dialog
// maps to the confirmed flag; an unconfirmed call changes nothing.
func (s *postService) DeleteDraft(ctx context.Context, id uint, companyID string, confirmed bool) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}

	if _, err := s.getOwnedDraft(ctx, s.repo, id, companyID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Post().DeleteDraft(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDraftNotFound
		}
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	s.logger.Info("Draft deleted", "draft_id", id, "company_id", companyID)
	return nil
}

func (s *postService) DeletePost(ctx context.Context, id uint, companyID string, confirmed bool) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}

	post, err := s.repo.Post().GetPost(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post.CompanyID != companyID {
		return NewPermissionError(companyID, id, "post", "delete", "not the post owner")
	}

	if err := s.repo.Post().DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("Post deleted", "post_id", id, "company_id", companyID)

	if pubErr := s.eventPublisher.PublishEvent(ctx, events.NewEvent(events.EventPostDeleted, map[string]interface{}{
		"post_id":    id,
		"company_id": companyID,
	})); pubErr != nil {
		s.logger.Warn("Failed to publish post deleted event", "post_id", id, "error", pubErr)
	}

	return nil
}

func (s *postService) getOwnedDraft(ctx context.Context, repo repositories.Repository, id uint, companyID, action string) (*models.PostDraft, error) {
	draft, err := repo.Post().GetDraft(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	if draft.CompanyID != companyID {
		return nil, NewPermissionError(companyID, id, "draft", action, "not the draft owner")
	}
	return draft, nil
}

func (s *postService) toDraftResponse(draft *models.PostDraft) *DraftResponse {
	return &DraftResponse{
		PostDraft:  draft,
		CanPublish: draft.IsFinalized,
	}
}
