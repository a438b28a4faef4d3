// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scalerlabs/funnel-engine-go/internal/application/container"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/cleanup"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/manager"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/performance"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/persistence/database"
	"github.com/scalerlabs/funnel-engine-go/internal/presentation/http/server"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("Scaler funnel engine starting...")

	// Step 1: Initialize channeled logging
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Initialize performance tracking
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())
	logger.Startup().Info("Performance tracker initialized")

	// Step 3: Initialize cache system
	logger.Startup().Info("Initializing cache system...")
	cacheManager := manager.NewManager(config.MaxSessions, int64(config.CounterCapacity), logger)
	logger.Startup().Info("Cache system initialized",
		"maxSessions", config.MaxSessions,
		"counterCapacity", config.CounterCapacity)

	// Step 4: Open the lead capture database and ensure its schema
	logger.Startup().Info("Opening database...", "driver", config.DBDriver)
	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logger.Startup().Info("Database ready", "path", config.DBPath)

	// Step 5: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer, err := container.NewContainer(logger, perfTracker, cacheManager, db)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 6: Start background session cleanup worker
	logger.Startup().Info("Starting background cleanup worker...")
	cleanupWorker := cleanup.NewWorker(cacheManager, appContainer.EngagementService, cleanup.NewConfig(), logger)
	go cleanupWorker.Start(ctx)

	// Step 7: Start the re-engagement email dispatcher
	logger.Startup().Info("Starting re-engagement dispatcher...")
	go appContainer.ReengagementService.Start(ctx)

	// Step 8: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Closing database...")
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	} else {
		logger.Shutdown().Info("Database closed successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
