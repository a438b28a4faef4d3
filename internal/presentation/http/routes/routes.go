// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scalerlabs/funnel-engine-go/internal/application/container"
	"github.com/scalerlabs/funnel-engine-go/internal/presentation/http/handlers"
	"github.com/scalerlabs/funnel-engine-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	funnelHandlers := handlers.NewFunnelHandlers(container.EngagementService, container.Logger, container.PerfTracker)
	counterHandlers := handlers.NewCounterHandlers(container.CacheManager, container.Broadcaster, container.Logger)
	sysopHandlers := handlers.NewSysOpHandlers(container)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// SysOp dashboard endpoints
	sysopAPI := r.Group("/api/sysop")
	{
		sysopAPI.GET("/auth", sysopHandlers.AuthCheck)
		sysopAPI.POST("/login", sysopHandlers.Login)

		// SysOp Authenticated endpoints
		sysopAPI.Use(sysopHandlers.SysOpAuthMiddleware())
		{
			sysopAPI.GET("/stats", sysopHandlers.GetStats)
			sysopAPI.GET("/logs/levels", sysopHandlers.GetLogLevels)
			sysopAPI.POST("/logs/levels", sysopHandlers.SetLogLevel)
		}
	}

	// Visitor-facing funnel API
	api := r.Group("/api/v1")
	{
		funnel := api.Group("/funnel")
		{
			funnel.POST("/session", funnelHandlers.PostSession)
			funnel.GET("/session/:id", funnelHandlers.GetSession)
			funnel.GET("/session/:id/challenge", funnelHandlers.GetChallenge)
			funnel.POST("/session/:id/challenge", funnelHandlers.PostStartChallenge)
			funnel.POST("/session/:id/submit", funnelHandlers.PostSubmit)
			funnel.POST("/session/:id/exit", funnelHandlers.PostExit)
			funnel.POST("/session/:id/resume", funnelHandlers.PostResume)
			funnel.POST("/session/:id/abandon", funnelHandlers.PostAbandon)
			funnel.GET("/session/:id/nuggets", funnelHandlers.GetNugget)
			funnel.GET("/session/:id/emails/:variant", funnelHandlers.GetEmailPreview)
		}

		api.GET("/claim", funnelHandlers.GetClaim)

		api.GET("/counter", counterHandlers.GetCounter)
		api.GET("/counter/stream", counterHandlers.StreamCounter)
	}

	return r
}
