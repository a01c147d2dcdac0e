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

// WorkshopHandler covers SCAD workshop management and student registration.
type WorkshopHandler struct {
	BaseHandler
	workshopService services.WorkshopService
	validator       *validator.Validator
}

func NewWorkshopHandler(workshopService services.WorkshopService, validator *validator.Validator, logger utils.Logger) *WorkshopHandler {
	return &WorkshopHandler{
		BaseHandler:     NewBaseHandler(logger),
		workshopService: workshopService,
		validator:       validator,
	}
}

type workshopLiveRequest struct {
	Live bool `json:"live"`
}

// CreateWorkshop creates a new workshop.
// @Summary Create workshop
// @Tags workshops
// @Router /api/v1/workshops [post]
func (h *WorkshopHandler) CreateWorkshop(c *gin.Context) {
	var req services.WorkshopCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating workshop", "name", req.Name)

	workshop, err := h.workshopService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, workshop)
}

// GetWorkshop returns one workshop with the caller's registration state.
func (h *WorkshopHandler) GetWorkshop(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.workshopService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListWorkshops returns workshops matching the query filters.
func (h *WorkshopHandler) ListWorkshops(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing workshops")

	filters := repositories.WorkshopFilters{}
	filters.Limit, filters.Offset = parsePagination(c)

	if upcoming := c.Query("upcoming"); upcoming != "" {
		v := upcoming == "true"
		filters.Upcoming = &v
	}

	workshops, total, err := h.workshopService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workshops": workshops,
		"total":     total,
	})
}

// Register signs the caller up for a workshop and queues the apply
// notification.
// @Summary Register for workshop
// @Tags workshops
// @Router /api/v1/workshops/{id}/register [post]
func (h *WorkshopHandler) Register(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Registering for workshop", "workshop_id", id)

	if err := h.workshopService.Register(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Registered for workshop"})
}

// SetLive flips the live flag and notifies registered students when the
// workshop goes live.
func (h *WorkshopHandler) SetLive(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req workshopLiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Setting workshop live state", "workshop_id", id, "live", req.Live)

	if err := h.workshopService.SetLive(c.Request.Context(), id, req.Live, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Workshop live state updated"})
}

// AttachRecording marks the workshop recording as available and notifies
// registered students.
func (h *WorkshopHandler) AttachRecording(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Attaching workshop recording", "workshop_id", id)

	if err := h.workshopService.AttachRecording(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Recording attached"})
}

// IssueCertificate issues the attendance certificate for one registered
// student. Issuing twice is rejected.
// @Summary Issue workshop certificate
// @Tags workshops
// @Router /api/v1/workshops/{id}/certificates/{student_id} [post]
func (h *WorkshopHandler) IssueCertificate(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	studentID := c.Param("student_id")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid student_id parameter"})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Issuing workshop certificate", "workshop_id", id, "student_id", studentID)

	if err := h.workshopService.IssueCertificate(c.Request.Context(), id, studentID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Certificate issued"})
}

func (h *WorkshopHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrWorkshopNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Workshop not found",
		})
	case errors.Is(err, services.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Already registered for this workshop",
		})
	case errors.Is(err, services.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Workshop registration not found",
		})
	case errors.Is(err, services.ErrCertificateAlreadyIssued):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Certificate has already been issued",
		})
	case errors.Is(err, services.ErrRecordingNotAvailable):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Workshop recording is not available",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
