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

// ApplicationHandler covers the company reviewer's view over submitted
// applications and the review status selection.
type ApplicationHandler struct {
	BaseHandler
	applicationService services.ApplicationService
	validator          *validator.Validator
}

func NewApplicationHandler(applicationService services.ApplicationService, validator *validator.Validator, logger utils.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        NewBaseHandler(logger),
		applicationService: applicationService,
		validator:          validator,
	}
}

// ListApplications returns applications matching the query filters.
// @Summary List applications
// @Tags applications
// @Param status query string false "Review status filter"
// @Param post_id query int false "Post filter"
// @Router /api/v1/applications [get]
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing applications")

	filters := repositories.ApplicationFilters{
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	if status := c.Query("status"); status != "" {
		s := models.ReviewStatus(status)
		filters.Status = &s
	}
	if postID, ok := parseOptionalUintQuery(c, "post_id"); ok {
		filters.PostID = &postID
	}

	resp, err := h.applicationService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetApplication returns one application with its action flags.
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting application", "application_id", id)

	resp, err := h.applicationService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SelectReview applies the review status selection. Selecting the status the
// application already holds resets it to none.
// @Summary Select review status
// @Tags applications
// @Router /api/v1/applications/{id}/review [put]
func (h *ApplicationHandler) SelectReview(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ReviewSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Selecting review status", "application_id", id, "status", req.Status)

	resp, err := h.applicationService.SelectReview(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
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
