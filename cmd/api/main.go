package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/expense-ledger/internal/api"
	"github.com/expense-ledger/internal/api/service"
	"github.com/expense-ledger/internal/config"
	"github.com/expense-ledger/internal/data/mongo"
	"github.com/expense-ledger/internal/data/postgres"
	"github.com/expense-ledger/internal/logger"
	"github.com/expense-ledger/internal/platform/messaging/producers"
	"github.com/expense-ledger/internal/platform/objectstore"
	"github.com/expense-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize object storage for statements and attachments
	store, err := objectstore.NewGCSStore(appCtx, cfg.Storage.Bucket)
	if err != nil {
		log.Error("Failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for statement processing jobs
	jobProducer, err := producers.NewStatementJobProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	importRepo := postgres.NewImportRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	scheduledRepo := postgres.NewScheduledRepository(log, postgresDB)
	settingsRepo := postgres.NewSettingsRepository(log, postgresDB)
	importedRepo := mongo.NewImportedTransactionRepository(log, mongoDB.Database())

	// Initialize services
	services := &api.Services{
		Auth:           service.NewAuthService(&cfg.Auth),
		Import:         service.NewImportService(log, importRepo, importedRepo, store, jobProducer, &cfg.Storage),
		Reconciliation: service.NewReconciliationService(log, importedRepo, transactionRepo),
		Transaction:    service.NewTransactionService(transactionRepo),
		Analytics:      service.NewAnalyticsService(transactionRepo),
		Attachment:     service.NewAttachmentService(log, store, &cfg.Storage),
		Scheduled:      service.NewScheduledService(scheduledRepo),
		Settings:       service.NewSettingsService(settingsRepo),
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	postgresDB.Close()

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = jobProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	if err = store.Close(); err != nil {
		log.Error("Error closing object storage client", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
