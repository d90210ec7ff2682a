package routes

import (
	"os"
	"strconv"
	"time"

	"github.com/facilitydesk/backend/internal/controllers"
	"github.com/facilitydesk/backend/internal/middleware"
	"github.com/facilitydesk/backend/internal/models"
	"github.com/facilitydesk/backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes. The event publisher
// may be nil when no message broker is configured.
func SetupRoutes(r *gin.Engine, db *gorm.DB, events *services.EventPublisher) {
	// Initialize services
	catalogService := services.NewCatalogService(db)
	folioGenerator := services.NewFolioGenerator(os.Getenv("FOLIO_PREFIX"))
	historyService := services.NewHistoryService(db)
	commentService := services.NewCommentService(db)
	reportService := services.NewReportService(db, catalogService, folioGenerator, historyService, transitionPolicy(), events)
	statsService := services.NewStatsService(db, catalogService, overdueWindow())

	// Initialize controllers
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	catalogController := controllers.NewCatalogController(catalogService)
	reportController := controllers.NewReportController(reportService, historyService, statsService, commentService)
	commentController := controllers.NewCommentController(commentService)

	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleTechnician)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authController.Login)
			auth.POST("/register", authController.Register)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/auth/refresh", authController.RefreshToken)

			// Users
			users := protected.Group("/users")
			{
				users.GET("/me", userController.GetCurrentUser)
				users.PUT("/me", userController.UpdateCurrentUser)
				users.GET("", staffOnly, userController.GetUsers)
			}

			// Workflow catalog (read-only)
			protected.GET("/states", catalogController.GetStates)
			protected.GET("/priorities", catalogController.GetPriorities)
			protected.GET("/categories", catalogController.GetCategories)
			protected.GET("/buildings", catalogController.GetBuildings)
			protected.GET("/buildings/:id/rooms", catalogController.GetRooms)

			// Reports
			reports := protected.Group("/reports")
			{
				reports.GET("", reportController.GetReports)
				reports.POST("", reportController.CreateReport)
				reports.GET("/stats", reportController.GetDashboardStats)
				reports.GET("/folio/:folio", reportController.GetReportByFolio)
				reports.GET("/:id", reportController.GetReport)
				reports.PUT("/:id", staffOnly, reportController.UpdateReport)
				reports.DELETE("/:id", adminOnly, reportController.DeleteReport)
				reports.GET("/:id/history", reportController.GetReportHistory)
				reports.GET("/:id/comments", commentController.GetCommentsByReport)
				reports.POST("/:id/comments", commentController.CreateComment)
			}

			// Comments
			comments := protected.Group("/comments")
			{
				comments.PUT("/:id", staffOnly, commentController.UpdateComment)
				comments.DELETE("/:id", staffOnly, commentController.DeleteComment)
			}
		}
	}
}

// overdueWindow reads OVERDUE_DAYS, defaulting to the 7-day window.
func overdueWindow() time.Duration {
	if raw := os.Getenv("OVERDUE_DAYS"); raw != "" {
		if days, err := strconv.Atoi(raw); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	return services.DefaultOverdueWindow
}

// transitionPolicy picks the configured state-transition policy.
func transitionPolicy() services.TransitionPolicy {
	if os.Getenv("TRANSITION_POLICY") == "forward-only" {
		return services.ForwardOnlyPolicy()
	}
	return services.AllowAllPolicy()
}
