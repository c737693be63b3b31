package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/outbox"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/platform/objectstore"
)

// ProcessingServiceImpl parses and matches one statement per job. Permanent
// failures (missing object, unparseable file) mark the import FAILED and ack
// the message; transient failures propagate so the consumer leaves the
// offset uncommitted and Kafka redelivers.
type ProcessingServiceImpl struct {
	importRepo    imports.Repository
	store         objectstore.Store
	parser        StatementParser
	matcher       TransactionMatcher
	batchRecorder BatchRecorder
	logger        *slog.Logger
}

// NewProcessingService creates a new statement processing service
func NewProcessingService(
	importRepo imports.Repository,
	store objectstore.Store,
	parser StatementParser,
	matcher TransactionMatcher,
	batchRecorder BatchRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		importRepo:    importRepo,
		store:         store,
		parser:        parser,
		matcher:       matcher,
		batchRecorder: batchRecorder,
		logger:        logger,
	}
}

// ProcessStatement handles the core logic for one statement job
func (s *ProcessingServiceImpl) ProcessStatement(ctx context.Context, job *shared.StatementJob) error {
	logger := s.logger
	if job.CorrelationID != "" {
		logger = s.logger.With("correlation_id", job.CorrelationID)
	}

	logger.Info("Processing statement", "import_id", job.ImportID.String(), "file_url", job.FileURL)

	if err := s.importRepo.UpdateStatus(ctx, job.ImportID, imports.ImportStatusProcessing, ""); err != nil {
		var notFound imports.ErrImportNotFound
		if errors.As(err, &notFound) {
			// The job references an import that no longer exists. Retrying
			// cannot help, so ack the message.
			logger.Warn("Statement job references unknown import", "import_id", job.ImportID.String())
			return nil
		}
		return fmt.Errorf("failed to mark import %s as processing: %w", job.ImportID.String(), err)
	}

	key, err := s.store.KeyFromURL(job.FileURL)
	if err != nil {
		return s.markFailed(ctx, logger, job, "invalid statement file URL: "+err.Error())
	}

	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			return s.markFailed(ctx, logger, job, "statement file not found in storage")
		}
		return fmt.Errorf("failed to download statement %s: %w", key, err)
	}

	items, err := s.parser.Parse(imports.ImportType(job.ImportType), data)
	if err != nil {
		return s.markFailed(ctx, logger, job, "failed to parse statement: "+err.Error())
	}
	if len(items) == 0 {
		return s.markFailed(ctx, logger, job, "statement contains no transactions")
	}

	for _, item := range items {
		item.ImportID = job.ImportID
	}

	if err := s.matcher.Match(ctx, items); err != nil {
		return fmt.Errorf("failed to match statement lines for import %s: %w", job.ImportID.String(), err)
	}

	batch := &outbox.Batch{
		ImportID:      job.ImportID,
		CorrelationID: job.CorrelationID,
		Transactions:  items,
	}
	if err := s.batchRecorder.RecordBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to record statement batch for import %s: %w", job.ImportID.String(), err)
	}

	matched := 0
	for _, item := range items {
		if item.HasMatch() {
			matched++
		}
	}
	logger.Info("Statement processed",
		"import_id", job.ImportID.String(),
		"lines", len(items),
		"matched", matched,
	)
	return nil
}

// markFailed records a permanent failure on the import and acks the message
func (s *ProcessingServiceImpl) markFailed(ctx context.Context, logger *slog.Logger, job *shared.StatementJob, reason string) error {
	logger.Error("Statement processing failed", "import_id", job.ImportID.String(), "reason", reason)

	if err := s.importRepo.UpdateStatus(ctx, job.ImportID, imports.ImportStatusFailed, reason); err != nil {
		logger.Error("Failed to mark import as FAILED",
			"import_id", job.ImportID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to mark import %s as failed: %w", job.ImportID.String(), err)
	}
	return nil
}
