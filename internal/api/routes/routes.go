package routes

import (
	"log"

	"collab-hub-backend/internal/api/handlers"
	"collab-hub-backend/internal/api/middleware"
	"collab-hub-backend/internal/auth"
	"collab-hub-backend/internal/config"
	"collab-hub-backend/internal/logger"
	"collab-hub-backend/internal/repository"
	"collab-hub-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))

	// Initialize validator and logger
	validator := validator.New()
	appLogger := logger.New()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	goalRepo := repository.NewGoalRepository(db)

	// Initialize services
	activityService := service.NewActivityService(activityRepo, membershipRepo)
	membershipService := service.NewMembershipService(membershipRepo, groupRepo, userRepo, activityService, appLogger)
	groupService := service.NewGroupService(groupRepo, membershipRepo, activityService, validator, appLogger)
	noteService := service.NewNoteService(noteRepo, membershipRepo, activityService, validator, appLogger)
	goalService := service.NewGoalService(goalRepo, membershipRepo, activityService, validator, appLogger)

	// Initialize auth configuration and services
	authConfig, err := auth.LoadAuthConfig(cfg.AuthConfigPath)
	if err != nil {
		log.Printf("Warning: Failed to load auth config: %v", err)
		// Continue without auth if config fails to load
		authConfig = nil
	}

	var authHandler *auth.AuthHandler
	var authMiddleware *auth.AuthMiddleware
	if authConfig != nil {
		authService, err := auth.NewAuthService(authConfig, userRepo)
		if err != nil {
			log.Printf("Warning: Failed to initialize auth service: %v", err)
		} else {
			authHandler = auth.NewAuthHandler(authService)
			authMiddleware = auth.NewAuthMiddleware(authService)
		}
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	groupHandler := handlers.NewGroupHandler(groupService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	activityHandler := handlers.NewActivityHandler(activityService)
	noteHandler := handlers.NewNoteHandler(noteService)
	goalHandler := handlers.NewGoalHandler(goalService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Auth routes
	if authHandler != nil {
		authRoutes := router.Group("/api/auth")
		{
			providerGroup := authRoutes.Group("/:provider")
			{
				providerGroup.GET("/start", authHandler.Start)
				providerGroup.GET("/callback", authHandler.Callback)
				providerGroup.POST("/refresh", authHandler.Refresh)
				providerGroup.POST("/logout", authHandler.Logout)
			}
		}
	}

	// API v1 routes - All endpoints require authentication
	v1 := router.Group("/api/v1")

	if authMiddleware != nil {
		v1.Use(authMiddleware.RequireAuth())
	}

	{
		// Group routes
		groups := v1.Group("/groups")
		{
			groups.GET("", groupHandler.ListGroups)
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("/:id", groupHandler.GetGroup)
			groups.PUT("/:id", groupHandler.UpdateGroup)
			groups.DELETE("/:id", groupHandler.DeleteGroup)

			// Membership routes
			groups.GET("/:id/members", membershipHandler.ListMembers)
			groups.POST("/:id/members", membershipHandler.AddMember)
			groups.DELETE("/:id/members/:userId", membershipHandler.RemoveMember)
			groups.PUT("/:id/members/role", membershipHandler.ChangeRole)
			groups.POST("/:id/leadership", membershipHandler.TransferLeadership)

			// Activity routes
			groups.GET("/:id/activity", activityHandler.ListActivity)

			// Note and goal routes scoped to a group
			groups.GET("/:id/notes", noteHandler.ListNotes)
			groups.POST("/:id/notes", noteHandler.CreateNote)
			groups.GET("/:id/goals", goalHandler.ListGoals)
			groups.POST("/:id/goals", goalHandler.CreateGoal)
		}

		// Note routes
		notes := v1.Group("/notes")
		{
			notes.PUT("/:noteId", noteHandler.UpdateNote)
			notes.DELETE("/:noteId", noteHandler.DeleteNote)
		}

		// Goal routes
		goals := v1.Group("/goals")
		{
			goals.PUT("/:goalId", goalHandler.UpdateGoal)
			goals.POST("/:goalId/complete", goalHandler.CompleteGoal)
			goals.DELETE("/:goalId", goalHandler.DeleteGoal)
		}
	}

	return router
}
