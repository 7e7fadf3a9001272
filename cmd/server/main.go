package main

import (
	_ "github.com/joho/godotenv/autoload" // Load .env file automatically

	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoai-api/api/routes"
	"todoai-api/internal/catalog"
	"todoai-api/internal/config"
	"todoai-api/internal/database"
	"todoai-api/internal/events"
	"todoai-api/internal/generation"
	"todoai-api/internal/llm"
	"todoai-api/internal/tasklist"
	"todoai-api/internal/user"
	"todoai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.Server.Environment)
	defer logger.Sync()

	// Services log through the structured logger
	zapLogger := logger.Zap()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.Fatalw("Failed to connect to database", "error", err)
	}

	if err := tasklist.MigrateWithValidation(db); err != nil {
		logger.Fatalw("Failed to run migrations", "error", err)
	}

	var eventBus events.EventBus = events.NoopBus{}
	if cfg.Events.Enabled {
		eventBus = events.NewEventBus(zapLogger)
		if err := events.RegisterMetricsSubscribers(eventBus, zapLogger); err != nil {
			logger.Fatalw("Failed to register event subscribers", "error", err)
		}
	}

	defaults := llm.DefaultDefaults()
	defaults.Temperature = cfg.LLM.DefaultTemperature
	defaults.MaxOutputTokens = cfg.LLM.DefaultMaxTokens
	defaults = defaults.WithModelOverrides(map[string]string{
		llm.VendorHuggingFace: cfg.LLM.HuggingFace.DefaultModel,
		llm.VendorOpenRouter:  cfg.LLM.OpenRouter.DefaultModel,
		llm.VendorGemini:      cfg.LLM.Gemini.DefaultModel,
	})

	registry := llm.NewDefaultRegistry(cfg.LLM, zapLogger)
	orchestrator := llm.NewOrchestrator(registry, zapLogger.Named("orchestrator"),
		llm.WithRequestTimeout(cfg.LLM.Timeout()),
		llm.WithRetryPolicy(llm.RetryPolicy{MaxAttempts: cfg.LLM.MaxAttempts, BaseDelay: cfg.LLM.BaseDelay()}),
		llm.WithDefaults(defaults),
	)

	userRepository := user.NewGormRepository(db, zapLogger)
	taskListRepository := tasklist.NewGormRepository(db, zapLogger)
	providerRepository := catalog.NewGormRepository(db, zapLogger)

	userService := user.NewService(userRepository, registry, zapLogger)
	providerService := catalog.NewService(providerRepository, zapLogger)
	taskListService := tasklist.NewService(taskListRepository, zapLogger)
	generationService := generation.NewService(
		orchestrator,
		registry,
		userService,
		taskListRepository,
		providerService,
		eventBus,
		zapLogger.Named("generation"),
	)

	if cfg.Seed.Providers {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := providerService.Seed(seedCtx, registry.ListCatalog()); err != nil {
			logger.Errorw("Failed to seed providers", "error", err)
		}
		seedCancel()
	}

	logger.Infow("Services initialized",
		"vendors", registry.Vendors(),
		"events_enabled", cfg.Events.Enabled,
		"max_attempts", cfg.LLM.MaxAttempts)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	routes.SetupRoutes(router, db, logger, routes.Services{
		Users:      userService,
		Generation: generationService,
		Providers:  providerService,
		TaskLists:  taskListService,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infow("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
	}

	// In-flight requests are done, so pending async handlers can drain
	if err := eventBus.Close(); err != nil {
		logger.Errorw("Failed to close event bus", "error", err)
	}

	logger.Info("Server exited")
}
