package routes

import (
	"todoai-api/api/handlers"
	"todoai-api/api/middleware"
	"todoai-api/internal/catalog"
	"todoai-api/internal/generation"
	"todoai-api/internal/tasklist"
	"todoai-api/internal/user"
	"todoai-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Services are the application services exposed over HTTP
type Services struct {
	Users      user.Service
	Generation generation.Service
	Providers  catalog.Service
	TaskLists  tasklist.Service
}

func SetupRoutes(router *gin.Engine, db *gorm.DB, logger *logger.Logger, services Services) {
	router.Use(middleware.RequestLogging(logger))
	router.Use(gin.Recovery())

	healthHandler := handlers.NewHealthHandler(db, logger)
	userHandler := handlers.NewUserHandler(services.Users, logger)
	aiHandler := handlers.NewAIHandler(services.Generation, logger)
	providerHandler := handlers.NewProviderHandler(services.Providers, logger)
	taskListHandler := handlers.NewTaskListHandler(services.TaskLists, logger)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Check)
		v1.POST("/users", userHandler.Create)
		v1.POST("/ai-public/test-api-key", aiHandler.TestPublicAPIKey)
	}

	authed := v1.Group("", middleware.BearerAuth(services.Users, logger))
	{
		authed.GET("/users/me", userHandler.Me)
		authed.PUT("/users/me/ai-integration", userHandler.ConfigureAIIntegration)

		ai := authed.Group("/ai")
		ai.POST("/generate-tasks", aiHandler.GenerateTasks)
		ai.POST("/generate-tasklist", aiHandler.GenerateTaskList)
		ai.POST("/generate-tasklist/preview", aiHandler.PreviewTaskList)
		ai.GET("/providers", aiHandler.ListProviders)
		ai.POST("/test-api-key", aiHandler.TestAPIKey)

		providers := authed.Group("/providers")
		providers.GET("", providerHandler.List)
		providers.GET("/active", providerHandler.ListActive)
		providers.GET("/name/:name", providerHandler.GetByName)
		providers.GET("/:id", providerHandler.Get)
		providers.POST("", providerHandler.Create)
		providers.PUT("/:id", providerHandler.Update)
		providers.PUT("/:id/toggle-status", providerHandler.ToggleStatus)
		providers.DELETE("/:id", providerHandler.Delete)

		authed.GET("/task-lists", taskListHandler.List)
		authed.POST("/task-lists", taskListHandler.Create)
		authed.GET("/task-lists/:id", taskListHandler.Get)
		authed.PATCH("/task-lists/:id", taskListHandler.Update)
		authed.DELETE("/task-lists/:id", taskListHandler.Delete)

		tasks := authed.Group("/tasks")
		tasks.POST("", taskListHandler.CreateTask)
		tasks.GET("", taskListHandler.ListTasks)
		tasks.GET("/completed", taskListHandler.ListCompletedTasks)
		tasks.GET("/pending", taskListHandler.ListPendingTasks)
		tasks.GET("/:id", taskListHandler.GetTask)
		tasks.PATCH("/:id", taskListHandler.UpdateTask)
		tasks.PATCH("/:id/toggle", taskListHandler.ToggleTask)
		tasks.DELETE("/:id", taskListHandler.DeleteTask)
	}

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
