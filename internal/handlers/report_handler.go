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

// ReportHandler covers report review, reviewer comments and the student's
// one-shot appeal.
type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
	validator     *validator.Validator
}

func NewReportHandler(reportService services.ReportService, validator *validator.Validator, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
		validator:     validator,
	}
}

type reportStatusRequest struct {
	Status models.ReportStatus `json:"status" binding:"required"`
}

// ListReports returns reports matching the query filters.
// @Summary List reports
// @Tags reports
// @Param status query string false "Report status filter"
// @Param appealed query bool false "Appealed filter"
// @Router /api/v1/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing reports")

	filters := repositories.ReportFilters{}
	filters.Limit, filters.Offset = parsePagination(c)

	if status := c.Query("status"); status != "" {
		s := models.ReportStatus(status)
		filters.Status = &s
	}
	if appealed := c.Query("appealed"); appealed != "" {
		v := appealed == "true"
		filters.Appealed = &v
	}

	reports, total, err := h.reportService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   total,
	})
}

// GetReport returns one report with its comments and appeal eligibility.
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting report", "report_id", id)

	resp, err := h.reportService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetStatus updates the review status of a report.
func (h *ReportHandler) SetStatus(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Setting report status", "report_id", id, "status", req.Status)

	if err := h.reportService.SetStatus(c.Request.Context(), id, req.Status, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Report status updated"})
}

// AddComment attaches a reviewer comment to a report.
func (h *ReportHandler) AddComment(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ReportCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Adding report comment", "report_id", id)

	comment, err := h.reportService.AddComment(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// Appeal files the student's appeal against a rejected report. A report can
// be appealed once, and only after a reviewer has commented on it.
// @Summary Appeal rejected report
// @Tags reports
// @Router /api/v1/reports/{id}/appeal [post]
func (h *ReportHandler) Appeal(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Filing report appeal", "report_id", id)

	resp, err := h.reportService.Appeal(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrReportNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Report not found",
		})
	case errors.Is(err, services.ErrAlreadyAppealed):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Report has already been appealed",
		})
	case errors.Is(err, services.ErrAppealNotAllowed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Report is not eligible for appeal",
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
