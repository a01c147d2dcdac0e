package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/services"
	"github.com/SAP-F-2025/internship-service/internal/utils"
)

// SessionHandler exposes the durable role store and the route guard.
type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

type LoginRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// Login records the authenticated subject's role for the session.
// @Summary Record session role
// @Tags session
// @Router /api/v1/session/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Recording session role", "role", req.Role)

	if err := h.sessionService.Login(c.Request.Context(), userID, req.Role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged in"})
}

// Logout clears the stored role. Calling it twice is harmless.
func (h *SessionHandler) Logout(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Clearing session role")

	if err := h.sessionService.Logout(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// CurrentRole returns the role stored for the session.
func (h *SessionHandler) CurrentRole(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	role, err := h.sessionService.CurrentRole(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}

// ResolveAccess answers whether the session may reach a dashboard path and,
// when it may not, where to send it instead.
// @Summary Resolve route access
// @Tags session
// @Param path query string true "Route path"
// @Router /api/v1/session/access [get]
func (h *SessionHandler) ResolveAccess(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "path query parameter is required"})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	decision, err := h.sessionService.ResolveAccess(c.Request.Context(), userID, path)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Landing answers an allowed dashboard navigation. The route guard has
// already vetted the role by the time this runs.
func (h *SessionHandler) Landing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"path": c.Request.URL.Path,
		"role": c.MustGet("session_role"),
	})
}

func (h *SessionHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBadRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid role"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
