package components

import (
	"log/slog"

	"github.com/expense-ledger/internal/config"
	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/outbox"
	"github.com/expense-ledger/internal/domain/transaction"
	"github.com/expense-ledger/internal/importer/service"
	"github.com/expense-ledger/internal/platform/objectstore"
)

// CreateProcessingService creates a processing service with all its
// dependencies, wrapped in a worker pool when one can be created
func CreateProcessingService(
	importRepo imports.Repository,
	transactionRepo transaction.Repository,
	outboxRepo outbox.Repository,
	store objectstore.Store,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	parser := NewStatementParser(logger)
	matcher := NewTransactionMatcher(transactionRepo, cfg.Importer.MatchWindowDays, logger)
	batchRecorder := NewBatchRecorder(outboxRepo, logger)

	baseService := service.NewProcessingService(
		importRepo,
		store,
		parser,
		matcher,
		batchRecorder,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
