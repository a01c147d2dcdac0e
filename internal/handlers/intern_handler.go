package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/services"
	"github.com/SAP-F-2025/internship-service/internal/utils"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

// InternHandler covers the current-intern lifecycle: marking, the undoable
// removal, completion and the one-way evaluation.
type InternHandler struct {
	BaseHandler
	internService services.InternService
	validator     *validator.Validator
}

func NewInternHandler(internService services.InternService, validator *validator.Validator, logger utils.Logger) *InternHandler {
	return &InternHandler{
		BaseHandler:   NewBaseHandler(logger),
		internService: internService,
		validator:     validator,
	}
}

// ListCurrentInterns returns the interns currently visible in the cycle.
// Interns with a pending removal are already filtered out.
func (h *InternHandler) ListCurrentInterns(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing current interns")

	filters := repositories.ApplicationFilters{}
	filters.Limit, filters.Offset = parsePagination(c)

	resp, err := h.internService.ListCurrent(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkCurrent flags an accepted applicant as a current intern.
func (h *InternHandler) MarkCurrent(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Marking current intern", "application_id", id)

	if err := h.internService.MarkCurrent(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Intern marked as current"})
}

// UnmarkCurrent hides the intern and starts the removal timer. The removal
// commits when the timer fires unless undone first.
// @Summary Unmark current intern
// @Tags interns
// @Router /api/v1/interns/{id} [delete]
func (h *InternHandler) UnmarkCurrent(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Unmarking current intern", "application_id", id)

	if err := h.internService.UnmarkCurrent(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{Message: "Intern removal scheduled"})
}

// UndoRemoval cancels a pending removal. After the removal has committed the
// call succeeds without restoring anything.
func (h *InternHandler) UndoRemoval(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Undoing intern removal", "application_id", id)

	if err := h.internService.UndoRemoval(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Removal undone"})
}

// ToggleCompleted flips the internship-completed flag for a current intern.
func (h *InternHandler) ToggleCompleted(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Toggling internship completion", "application_id", id)

	resp, err := h.internService.ToggleCompleted(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Evaluate records an evaluation for a completed intern. Each evaluator can
// evaluate an intern once.
// @Summary Evaluate intern
// @Tags interns
// @Router /api/v1/interns/evaluations [post]
func (h *InternHandler) Evaluate(c *gin.Context) {
	var req services.EvaluationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Evaluating intern", "application_id", req.ApplicationID)

	evaluation, err := h.internService.Evaluate(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, evaluation)
}

// ListEvaluations returns the stored evaluations for one application.
func (h *InternHandler) ListEvaluations(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	evaluations, err := h.internService.ListEvaluations(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluations)
}

func (h *InternHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Application not found",
		})
	case errors.Is(err, services.ErrApplicationRemoved):
		c.JSON(http.StatusGone, ErrorResponse{
			Message: "Application has been removed from the cycle",
		})
	case errors.Is(err, services.ErrNotCurrentIntern):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Applicant is not a current intern",
		})
	case errors.Is(err, services.ErrInternNotCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Internship must be completed before evaluation",
		})
	case errors.Is(err, services.ErrAlreadyEvaluated):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Intern has already been evaluated",
		})
	case errors.Is(err, services.ErrNoPendingRemoval):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "No removal is pending for this intern",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
