// Package api wires the HTTP surface of the expense ledger: routing,
// middleware, request handling and the server lifecycle.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expense-ledger/internal/api/handler"
	"github.com/expense-ledger/internal/api/service"
	"github.com/expense-ledger/internal/config"
)

// Services bundles everything the HTTP surface depends on
type Services struct {
	Auth           service.AuthService
	Import         service.ImportService
	Reconciliation service.ReconciliationService
	Transaction    service.TransactionService
	Analytics      service.AnalyticsService
	Attachment     service.AttachmentService
	Scheduled      service.ScheduledService
	Settings       service.SettingsService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services *Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	handlers := &routeHandlers{
		auth:           handler.NewAuthHandler(log, services.Auth),
		imports:        handler.NewImportHandler(log, services.Import),
		reconciliation: handler.NewReconciliationHandler(log, services.Reconciliation),
		transactions:   handler.NewTransactionHandler(log, services.Transaction),
		analytics:      handler.NewAnalyticsHandler(log, services.Analytics),
		attachments:    handler.NewAttachmentHandler(log, services.Attachment),
		scheduled:      handler.NewScheduledHandler(log, services.Scheduled),
		settings:       handler.NewSettingsHandler(log, services.Settings),
	}

	setupRouter(log, httpRouter, &cfg.Auth, handlers)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
