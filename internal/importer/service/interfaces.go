package service

import (
	"context"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/outbox"
	"github.com/expense-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for processing statement jobs
type ProcessingService interface {
	ProcessStatement(ctx context.Context, job *shared.StatementJob) error
}

// StatementParser turns a downloaded statement file into pending imported
// transactions. The parser fills everything except the import id, which the
// caller stamps.
type StatementParser interface {
	Parse(importType imports.ImportType, data []byte) ([]*imports.ImportedTransaction, error)
}

// TransactionMatcher pairs parsed statement lines with existing ledger
// transactions. Matched lines get their MatchingTransactionID and the
// denormalized MatchingTransaction snapshot filled in place.
type TransactionMatcher interface {
	Match(ctx context.Context, items []*imports.ImportedTransaction) error
}

// BatchRecorder stores the parsed and matched batch in the transactional
// outbox for the poller to publish
type BatchRecorder interface {
	RecordBatch(ctx context.Context, batch *outbox.Batch) error
}
