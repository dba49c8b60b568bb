package api

import (
	"github.com/gin-gonic/gin"

	"github.com/willardjansen/cubby-remote-reaper/internal/api/handlers"
	apimiddleware "github.com/willardjansen/cubby-remote-reaper/internal/api/middleware"
	"github.com/willardjansen/cubby-remote-reaper/internal/bridge"
	"github.com/willardjansen/cubby-remote-reaper/internal/catalog"
	"github.com/willardjansen/cubby-remote-reaper/internal/config"
	"github.com/willardjansen/cubby-remote-reaper/internal/logger"
)

func SetupRouter(cfg *config.Config, store *catalog.Store, hub *bridge.Hub, loader handlers.SourceLoader, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.AllowedOrigin))

	// Health check
	healthHandler := handlers.NewHealthHandler(store, hub, version)
	router.GET("/health", healthHandler.HealthCheck)

	// WebSocket relay between the DAW-side script and browser remotes
	router.GET("/ws", func(c *gin.Context) {
		if err := hub.Serve(c.Writer, c.Request); err != nil {
			logger.Error("WebSocket upgrade failed", err, logger.WithContext(c))
		}
	})

	api := router.Group("/api")
	{
		// Bank tree, search, reload
		banksHandler := handlers.NewBanksHandler(store, loader)
		api.GET("/banks", banksHandler.GetTree)
		api.GET("/banks/search", banksHandler.Search)
		api.POST("/banks/reload", banksHandler.Reload)

		// DAW-side poller upload
		bankDataHandler := handlers.NewBankDataHandler(hub)
		api.POST("/bankdata", bankDataHandler.Ingest)

		// Project file generation
		projectHandler := handlers.NewProjectHandler()
		api.POST("/project", projectHandler.Generate)
	}

	return router
}
