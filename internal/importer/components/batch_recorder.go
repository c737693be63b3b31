package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/expense-ledger/internal/domain/outbox"
	"github.com/expense-ledger/internal/importer/service"
)

// BatchRecorderImpl stores parsed batches in the transactional outbox. One
// outbox message per import: a redelivered job hits the unique constraint
// and is treated as already recorded.
type BatchRecorderImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

// NewBatchRecorder creates a new batch recorder
func NewBatchRecorder(outboxRepo outbox.Repository, logger *slog.Logger) service.BatchRecorder {
	return &BatchRecorderImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// RecordBatch writes the batch as a pending outbox message
func (r *BatchRecorderImpl) RecordBatch(ctx context.Context, batch *outbox.Batch) error {
	message, err := outbox.NewMessage(batch)
	if err != nil {
		return fmt.Errorf("failed to build outbox message for import %s: %w", batch.ImportID.String(), err)
	}

	if err := r.outboxRepo.Create(ctx, message); err != nil {
		var duplicate outbox.ErrDuplicateMessage
		if errors.As(err, &duplicate) {
			r.logger.Info("Statement batch already recorded, skipping",
				"import_id", batch.ImportID.String(),
			)
			return nil
		}
		return fmt.Errorf("failed to store outbox message for import %s: %w", batch.ImportID.String(), err)
	}

	r.logger.Info("Statement batch recorded in outbox",
		"import_id", batch.ImportID.String(),
		"outbox_id", message.ID,
		"lines", len(batch.Transactions),
	)
	return nil
}
