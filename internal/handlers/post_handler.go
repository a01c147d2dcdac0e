package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/services"
	"github.com/SAP-F-2025/internship-service/internal/utils"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

// PostHandler covers the company's draft workspace, the one-way publication
// into the posts collection, and SCAD moderation.
type PostHandler struct {
	BaseHandler
	postService services.PostService
	validator   *validator.Validator
}

func NewPostHandler(postService services.PostService, validator *validator.Validator, logger utils.Logger) *PostHandler {
	return &PostHandler{
		BaseHandler: NewBaseHandler(logger),
		postService: postService,
		validator:   validator,
	}
}

// CreateDraft creates a new internship post draft.
// @Summary Create draft
// @Tags posts
// @Router /api/v1/drafts [post]
func (h *PostHandler) CreateDraft(c *gin.Context) {
	var req services.DraftCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating post draft", "title", req.Title)

	resp, err := h.postService.CreateDraft(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetDraft returns one of the company's drafts.
func (h *PostHandler) GetDraft(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.postService.GetDraft(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListDrafts returns the company's drafts.
func (h *PostHandler) ListDrafts(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing post drafts")

	drafts, err := h.postService.ListDrafts(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, drafts)
}

// UpdateDraft applies a partial edit to a draft.
func (h *PostHandler) UpdateDraft(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.DraftUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Updating post draft", "draft_id", id)

	resp, err := h.postService.UpdateDraft(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FinalizeDraft marks a draft ready for publication.
func (h *PostHandler) FinalizeDraft(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Finalizing post draft", "draft_id", id)

	resp, err := h.postService.FinalizeDraft(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PublishDraft relocates a finalized draft into the posts collection. There
// is no way back to draft.
// @Summary Publish draft
// @Tags posts
// @Router /api/v1/drafts/{id}/publish [post]
func (h *PostHandler) PublishDraft(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Publishing post draft", "draft_id", id)

	post, err := h.postService.Publish(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// DeleteDraft deletes a draft. The request must carry confirmed=true.
func (h *PostHandler) DeleteDraft(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	confirmed := c.Query("confirmed") == "true"

	h.LogRequest(c, "Deleting post draft", "draft_id", id, "confirmed", confirmed)

	if err := h.postService.DeleteDraft(c.Request.Context(), id, userID, confirmed); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Draft deleted"})
}

// GetPost returns one published post.
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListPosts returns published posts matching the query filters.
// @Summary List posts
// @Tags posts
// @Param status query string false "Post status filter"
// @Param is_paid query bool false "Paid filter"
// @Router /api/v1/posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	filters := repositories.PostFilters{
		SortBy:    c.DefaultQuery("sort_by", "published_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	if status := c.Query("status"); status != "" {
		s := models.PostStatus(status)
		filters.Status = &s
	}
	if companyID := c.Query("company_id"); companyID != "" {
		filters.CompanyID = &companyID
	}
	if isPaid := c.Query("is_paid"); isPaid != "" {
		v := isPaid == "true"
		filters.IsPaid = &v
	}

	resp, err := h.postService.ListPosts(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ModeratePost sets the moderation status of a published post.
func (h *PostHandler) ModeratePost(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.PostModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Moderating post", "post_id", id, "status", req.Status)

	if err := h.postService.Moderate(c.Request.Context(), id, &req, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Post moderated"})
}

// DeletePost deletes a published post. The request must carry confirmed=true.
// @Summary Delete post
// @Tags posts
// @Param confirmed query bool true "Confirmation flag"
// @Router /api/v1/posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	confirmed := c.Query("confirmed") == "true"

	h.LogRequest(c, "Deleting post", "post_id", id, "confirmed", confirmed)

	if err := h.postService.DeletePost(c.Request.Context(), id, userID, confirmed); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Post deleted"})
}

func (h *PostHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Draft not found",
		})
	case errors.Is(err, services.ErrPostNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Post not found",
		})
	case errors.Is(err, services.ErrDraftNotFinalized):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Draft must be finalized before publishing",
		})
	case errors.Is(err, services.ErrDeleteNotConfirmed):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Delete requires confirmation",
			Details: "retry with confirmed=true",
		})
	case errors.Is(err, services.ErrBadRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
