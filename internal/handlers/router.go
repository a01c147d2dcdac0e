package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-service/internal/authz"
	"github.com/SAP-F-2025/internship-service/internal/config"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/services"
	"github.com/SAP-F-2025/internship-service/internal/utils"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

type HandlerManager struct {
	sessionHandler      *SessionHandler
	applicationHandler  *ApplicationHandler
	internHandler       *InternHandler
	reportHandler       *ReportHandler
	postHandler         *PostHandler
	notificationHandler *NotificationHandler
	workshopHandler     *WorkshopHandler
	callHandler         *CallHandler
	dashboardHandler    *DashboardHandler
	authMiddleware      *CasdoorAuthMiddleware
	sessionService      services.SessionService
	logger              utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		sessionHandler:      NewSessionHandler(serviceManager.Session(), logger),
		applicationHandler:  NewApplicationHandler(serviceManager.Application(), validator, logger),
		internHandler:       NewInternHandler(serviceManager.Intern(), validator, logger),
		reportHandler:       NewReportHandler(serviceManager.Report(), validator, logger),
		postHandler:         NewPostHandler(serviceManager.Post(), validator, logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		workshopHandler:     NewWorkshopHandler(serviceManager.Workshop(), validator, logger),
		callHandler:         NewCallHandler(serviceManager.Call(), validator, logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:      authMiddleware,
		sessionService:      serviceManager.Session(),
		logger:              logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Session and route guard - all authenticated users
		session := v1.Group("/session")
		{
			session.POST("/login", hm.sessionHandler.Login)
			session.POST("/logout", hm.sessionHandler.Logout)
			session.GET("/role", hm.sessionHandler.CurrentRole)
			session.GET("/access", hm.sessionHandler.ResolveAccess)
		}

		// Application review - Companies only
		applications := v1.Group("/applications")
		applications.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleCompany))
		{
			applications.GET("", hm.applicationHandler.ListApplications)
			applications.GET("/:id", hm.applicationHandler.GetApplication)
			applications.PUT("/:id/review", hm.applicationHandler.SelectReview)
		}

		// Intern lifecycle - Companies only
		interns := v1.Group("/interns")
		interns.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleCompany))
		{
			interns.GET("", hm.internHandler.ListCurrentInterns)
			interns.POST("/:id", hm.internHandler.MarkCurrent)
			interns.DELETE("/:id", hm.internHandler.UnmarkCurrent)
			interns.POST("/:id/undo", hm.internHandler.UndoRemoval)
			interns.PUT("/:id/completed", hm.internHandler.ToggleCompleted)
			interns.POST("/evaluations", hm.internHandler.Evaluate)
			interns.GET("/:id/evaluations", hm.internHandler.ListEvaluations)
		}

		// Report review and appeal
		reports := v1.Group("/reports")
		{
			// Viewing - all authenticated users; services scope students to
			// their own reports
			reports.GET("", hm.reportHandler.ListReports)
			reports.GET("/:id", hm.reportHandler.GetReport)

			// Review - Faculty and SCAD only
			reports.PUT("/:id/status", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleScad), hm.reportHandler.SetStatus)
			reports.POST("/:id/comments", hm.authMiddleware.RequireRoleMiddleware(models.RoleFaculty, models.RoleScad), hm.reportHandler.AddComment)

			// Appeal - Students only
			reports.POST("/:id/appeal", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.reportHandler.Appeal)
		}

		// Draft workspace - Companies only
		drafts := v1.Group("/drafts")
		drafts.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleCompany))
		{
			drafts.POST("", hm.postHandler.CreateDraft)
			drafts.GET("", hm.postHandler.ListDrafts)
			drafts.GET("/:id", hm.postHandler.GetDraft)
			drafts.PUT("/:id", hm.postHandler.UpdateDraft)
			drafts.POST("/:id/finalize", hm.postHandler.FinalizeDraft)
			drafts.POST("/:id/publish", hm.postHandler.PublishDraft)
			drafts.DELETE("/:id", hm.postHandler.DeleteDraft)
		}

		// Published posts
		posts := v1.Group("/posts")
		{
			posts.GET("", hm.postHandler.ListPosts)
			posts.GET("/:id", hm.postHandler.GetPost)

			// Moderation - SCAD only
			posts.PUT("/:id/moderate", hm.authMiddleware.RequireRoleMiddleware(models.RoleScad), hm.postHandler.ModeratePost)

			// Deletion - owning company
			posts.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleCompany), hm.postHandler.DeletePost)
		}

		// Notification queue - all authenticated users
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.DELETE("/:id", hm.notificationHandler.RemoveNotification)
		}

		// Workshops
		workshops := v1.Group("/workshops")
		{
			workshops.GET("", hm.workshopHandler.ListWorkshops)
			workshops.GET("/:id", hm.workshopHandler.GetWorkshop)

			// Registration - Students only
			workshops.POST("/:id/register", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.workshopHandler.Register)

			// Management - SCAD only
			workshops.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleScad), hm.workshopHandler.CreateWorkshop)
			workshops.PUT("/:id/live", hm.authMiddleware.RequireRoleMiddleware(models.RoleScad), hm.workshopHandler.SetLive)
			workshops.POST("/:id/recording", hm.authMiddleware.RequireRoleMiddleware(models.RoleScad), hm.workshopHandler.AttachRecording)
			workshops.POST("/:id/certificates/:student_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleScad), hm.workshopHandler.IssueCertificate)
		}

		// Appointments and calls - Students and SCAD officers
		appointments := v1.Group("/appointments")
		appointments.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent, models.RoleScad))
		{
			appointments.POST("", hm.callHandler.CreateAppointment)
			appointments.GET("", hm.callHandler.ListAppointments)
			appointments.POST("/:id/call", hm.callHandler.InitiateCall)
		}

		calls := v1.Group("/calls")
		calls.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent, models.RoleScad))
		{
			calls.GET("/:id", hm.callHandler.GetCall)
			calls.POST("/:id/cancel", hm.callHandler.CancelCall)
			calls.POST("/:id/end", hm.callHandler.EndCall)
		}

		// Dashboard - SCAD only
		dashboard := v1.Group("/dashboard")
		dashboard.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleScad))
		{
			dashboard.GET("/stats", hm.dashboardHandler.GetCycleStats)
			dashboard.GET("/exports/applications", hm.dashboardHandler.ExportApplications)
			dashboard.GET("/exports/stats", hm.dashboardHandler.ExportCycleStats)
		}
	}

	// Dashboard page surface. The route guard redirects wrong-role and
	// unauthenticated navigations; the pages themselves are rendered by the
	// frontend, so the backend answers with the resolved view context.
	pages := router.Group("/")
	pages.Use(hm.authMiddleware.OptionalAuthMiddleware(), RouteGuardMiddleware(hm.sessionService, hm.logger))
	for _, rule := range authz.Rules {
		pages.GET(rule.Path, hm.sessionHandler.Landing)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "internship-service",
		})
	})
}
