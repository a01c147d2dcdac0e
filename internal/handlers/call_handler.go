package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-service/internal/services"
	"github.com/SAP-F-2025/internship-service/internal/utils"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

// CallHandler covers appointments and the simulated call connection.
type CallHandler struct {
	BaseHandler
	callService services.CallService
	validator   *validator.Validator
}

func NewCallHandler(callService services.CallService, validator *validator.Validator, logger utils.Logger) *CallHandler {
	return &CallHandler{
		BaseHandler: NewBaseHandler(logger),
		callService: callService,
		validator:   validator,
	}
}

// CreateAppointment books a video appointment between a student and a SCAD
// officer.
// @Summary Create appointment
// @Tags appointments
// @Router /api/v1/appointments [post]
func (h *CallHandler) CreateAppointment(c *gin.Context) {
	var req services.AppointmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating appointment", "student_id", req.StudentID, "officer_id", req.OfficerID)

	appointment, err := h.callService.CreateAppointment(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// ListAppointments returns the caller's appointments.
func (h *CallHandler) ListAppointments(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing appointments")

	appointments, err := h.callService.ListAppointments(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// InitiateCall starts a call on an appointment. The call stays in connecting
// until the connect delay elapses, then transitions to connected unless
// cancelled first.
// @Summary Initiate call
// @Tags appointments
// @Router /api/v1/appointments/{id}/call [post]
func (h *CallHandler) InitiateCall(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Initiating call", "appointment_id", id)

	resp, err := h.callService.InitiateCall(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// GetCall returns the current state of a call.
func (h *CallHandler) GetCall(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.callService.GetCall(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CancelCall aborts a connecting call and resets the appointment so the call
// can be initiated again.
func (h *CallHandler) CancelCall(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Cancelling call", "call_id", id)

	if err := h.callService.CancelCall(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Call cancelled"})
}

// EndCall hangs up a connected call.
func (h *CallHandler) EndCall(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Ending call", "call_id", id)

	if err := h.callService.EndCall(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Call ended"})
}

func (h *CallHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Appointment not found",
		})
	case errors.Is(err, services.ErrCallNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Call not found",
		})
	case errors.Is(err, services.ErrCallAlreadyActive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "A call is already active for this appointment",
		})
	case errors.Is(err, services.ErrCallNotConnecting):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Call is not in a connecting state",
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Call state does not allow this action",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
