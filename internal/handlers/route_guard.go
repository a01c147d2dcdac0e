package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-service/internal/services"
	"github.com/SAP-F-2025/internship-service/internal/utils"
)

// RouteGuardMiddleware enforces the static route table on the dashboard
// page surface. Browser navigations land here directly, so a denial answers
// with a redirect to the subject's own landing page (or login) instead of a
// JSON error.
func RouteGuardMiddleware(sessions services.SessionService, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString("user_id")

		decision, err := sessions.ResolveAccess(c.Request.Context(), subject, c.Request.URL.Path)
		if err != nil {
			utils.FromContext(c.Request.Context(), logger).Error("Route guard failed",
				"path", c.Request.URL.Path,
				"error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Failed to resolve access",
			})
			return
		}

		if !decision.Allowed {
			c.Redirect(http.StatusFound, decision.Redirect)
			c.Abort()
			return
		}

		c.Set("session_role", decision.Role)
		c.Next()
	}
}
