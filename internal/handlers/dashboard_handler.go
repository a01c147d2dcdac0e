package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/internship-service/internal/services"
	"github.com/SAP-F-2025/internship-service/internal/utils"
)

// DashboardHandler covers the SCAD office cycle statistics and the Excel
// exports built from them.
type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetCycleStats returns the aggregated statistics for the current cycle.
// @Summary Get cycle statistics
// @Tags dashboard
// @Router /api/v1/dashboard/stats [get]
func (h *DashboardHandler) GetCycleStats(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting cycle statistics")

	stats, err := h.dashboardService.GetCycleStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportApplications streams the full application list as an Excel workbook.
// @Summary Export applications
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/v1/dashboard/exports/applications [get]
func (h *DashboardHandler) ExportApplications(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting applications")

	file, err := h.dashboardService.ExportApplications(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.streamWorkbook(c, file, fmt.Sprintf("applications-%s.xlsx", time.Now().Format("2006-01-02")))
}

// ExportCycleStats streams the cycle summary as an Excel workbook.
func (h *DashboardHandler) ExportCycleStats(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting cycle statistics")

	file, err := h.dashboardService.ExportCycleStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.streamWorkbook(c, file, fmt.Sprintf("cycle-summary-%s.xlsx", time.Now().Format("2006-01-02")))
}

func (h *DashboardHandler) streamWorkbook(c *gin.Context, file *excelize.File, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := file.Write(c.Writer); err != nil {
		// Headers are already out; all we can do is log.
		h.LogError(c, err, "Failed to stream workbook", "filename", filename)
	}
}

func (h *DashboardHandler) handleServiceError(c *gin.Context, err error) {
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

	h.LogError(c, err, "Unexpected service error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}
