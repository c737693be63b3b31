package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/outbox"
	"github.com/expense-ledger/internal/domain/shared"
)

// QueuePublisher moves stored statement batches into the reconciliation
// queue
type QueuePublisher interface {
	PublishBatch(ctx context.Context, message *outbox.Message) error
}

// QueuePublisherImpl implements QueuePublisher. It bulk-inserts the batch
// into the document store and only then flips the import to COMPLETED, so
// an import is never observed COMPLETED before its transactions exist.
type QueuePublisherImpl struct {
	outboxRepo   outbox.Repository
	importedRepo imports.TransactionRepository
	importRepo   imports.Repository
	logger       *slog.Logger
}

// NewQueuePublisher creates a new publisher
func NewQueuePublisher(
	outboxRepo outbox.Repository,
	importedRepo imports.TransactionRepository,
	importRepo imports.Repository,
	logger *slog.Logger,
) QueuePublisher {
	return &QueuePublisherImpl{
		outboxRepo:   outboxRepo,
		importedRepo: importedRepo,
		importRepo:   importRepo,
		logger:       logger,
	}
}

// PublishBatch processes one outbox message
func (p *QueuePublisherImpl) PublishBatch(ctx context.Context, message *outbox.Message) error {
	batch, err := message.GetBatch()
	if err != nil {
		p.logger.Error("Failed to unmarshal statement batch from outbox payload",
			"outbox_id", message.ID, "import_id", message.ImportID.String(), "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status after unmarshal error",
				"outbox_id", message.ID, "update_error", updateErr,
			)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if batch.CorrelationID != "" {
		logger = p.logger.With("correlation_id", batch.CorrelationID)
	}

	logger.Info("Publishing statement batch to reconciliation queue",
		"outbox_id", message.ID,
		"import_id", batch.ImportID.String(),
		"lines", len(batch.Transactions),
	)

	// CreateBatch tolerates duplicate ids, so a retry after a partial insert
	// completes the batch instead of failing
	if err := p.importedRepo.CreateBatch(ctx, batch.Transactions); err != nil {
		return fmt.Errorf("failed to insert imported transactions for import %s: %w", batch.ImportID.String(), err)
	}

	if err := p.importRepo.UpdateStatus(ctx, batch.ImportID, imports.ImportStatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to mark import %s as COMPLETED: %w", batch.ImportID.String(), err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Batch published but failed to mark outbox message as PROCESSED",
			"outbox_id", message.ID, "import_id", batch.ImportID.String(), "error", err,
		)
		return fmt.Errorf("batch for import %s published, but failed to mark outbox %d as PROCESSED: %w", batch.ImportID.String(), message.ID, err)
	}

	logger.Info("Statement batch published",
		"outbox_id", message.ID,
		"import_id", batch.ImportID.String(),
	)
	return nil
}
