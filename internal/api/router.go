package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expense-ledger/internal/api/handler"
	"github.com/expense-ledger/internal/api/middleware"
	"github.com/expense-ledger/internal/config"
)

type routeHandlers struct {
	auth           *handler.AuthHandler
	imports        *handler.ImportHandler
	reconciliation *handler.ReconciliationHandler
	transactions   *handler.TransactionHandler
	analytics      *handler.AnalyticsHandler
	attachments    *handler.AttachmentHandler
	scheduled      *handler.ScheduledHandler
	settings       *handler.SettingsHandler
}

// setupRouter configures all routes and middleware for the HTTP server.
// Everything under /api except the login endpoint requires a bearer token;
// middleware order matters: recovery first, then logging, then correlation.
func setupRouter(log *slog.Logger, router *gin.Engine, authCfg *config.AuthConfig, h *routeHandlers) {
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CorrelationID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/auth/login", h.auth.Login)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(authCfg))

	importRoutes := protected.Group("/imports")
	{
		importRoutes.POST("/upload", h.imports.Upload)
		importRoutes.POST("/process", h.imports.Process)
		importRoutes.GET("", h.imports.List)
		importRoutes.GET("/:importId/transactions", h.imports.ListTransactions)

		importRoutes.POST("/transactions/:id/approve", h.reconciliation.Approve)
		importRoutes.POST("/transactions/:id/merge", h.reconciliation.Merge)
		importRoutes.POST("/transactions/:id/ignore", h.reconciliation.Ignore)
		importRoutes.DELETE("/transactions/:id", h.reconciliation.Delete)
	}

	transactionRoutes := protected.Group("/transactions")
	{
		transactionRoutes.POST("", h.transactions.Create)
		transactionRoutes.GET("", h.transactions.List)
		transactionRoutes.GET("/pending-count", h.transactions.PendingCount)
		transactionRoutes.GET("/summary", h.analytics.Summary)
		transactionRoutes.POST("/attachments/upload", h.attachments.Upload)
		transactionRoutes.GET("/:id", h.transactions.GetByID)
		transactionRoutes.PUT("/:id", h.transactions.Update)
		transactionRoutes.DELETE("/:id", h.transactions.Delete)
	}

	trendRoutes := protected.Group("/trends")
	{
		trendRoutes.GET("", h.analytics.Trends)
		trendRoutes.GET("/categories", h.analytics.CategoryTrends)
	}

	scheduledRoutes := protected.Group("/scheduled-transactions")
	{
		scheduledRoutes.POST("", h.scheduled.Create)
		scheduledRoutes.GET("", h.scheduled.List)
		scheduledRoutes.PUT("/:id", h.scheduled.Update)
		scheduledRoutes.DELETE("/:id", h.scheduled.Delete)
	}

	settingsRoutes := protected.Group("/settings")
	{
		settingsRoutes.GET("", h.settings.Get)
		settingsRoutes.PUT("", h.settings.Update)
	}
}
