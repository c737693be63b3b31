package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/domain/transaction"
)

// TransactionEdits carries user corrections applied while approving or
// merging an imported transaction. Zero-valued fields keep the parsed
// statement values.
type TransactionEdits struct {
	Description string
	Value       int64
	Date        *time.Time
	Type        shared.EntryType
	Category    string
}

// ReconciliationServiceImpl implements the ReconciliationService interface.
// Every decision re-reads the item and checks its eligibility on the server:
// clients gate buttons on the same rules, but the stored status and match
// presence are what actually decide.
type ReconciliationServiceImpl struct {
	logger          *slog.Logger
	importedRepo    imports.TransactionRepository
	transactionRepo transaction.Repository
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	logger *slog.Logger,
	importedRepo imports.TransactionRepository,
	transactionRepo transaction.Repository,
) ReconciliationService {
	return &ReconciliationServiceImpl{
		logger:          logger,
		importedRepo:    importedRepo,
		transactionRepo: transactionRepo,
	}
}

// Approve accepts a pending unmatched item as a new ledger transaction,
// applying any user edits over the parsed statement values.
func (s *ReconciliationServiceImpl) Approve(ctx context.Context, id uuid.UUID, edits *TransactionEdits) (*imports.ImportedTransaction, error) {
	item, err := s.importedRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !item.CanApprove() {
		return nil, imports.ErrInvalidTransition{ID: id, Status: item.Status, Action: "approve"}
	}

	description := item.Description
	value := item.Value
	date := item.Date
	entryType := item.Type
	category := ""
	if edits != nil {
		if edits.Description != "" {
			description = edits.Description
		}
		if edits.Value > 0 {
			value = edits.Value
		}
		if edits.Date != nil {
			date = *edits.Date
		}
		if edits.Type != "" {
			entryType = edits.Type
		}
		if edits.Category != "" {
			category = edits.Category
		}
	}

	txn, err := transaction.New(description, value, date, entryType, category)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.importedRepo.UpdateStatus(ctx, id, imports.ImportedTransactionStatusApproved); err != nil {
		// The ledger transaction exists but the item is still pending. A
		// retried approve will fail eligibility, so surface the error for
		// manual resolution instead of hiding it.
		s.logger.Error("Approved ledger transaction created but status update failed",
			"imported_transaction_id", id.String(),
			"transaction_id", txn.ID.String(),
			"error", err,
		)
		return nil, err
	}

	item.Status = imports.ImportedTransactionStatusApproved
	s.logger.Info("Imported transaction approved",
		"imported_transaction_id", id.String(),
		"transaction_id", txn.ID.String(),
	)
	return item, nil
}

// Merge folds a pending matched item into its matching ledger transaction:
// the matched transaction takes the statement's date and value, overridden
// by any user edits, and stops being pending.
func (s *ReconciliationServiceImpl) Merge(ctx context.Context, id uuid.UUID, edits *TransactionEdits) (*imports.ImportedTransaction, error) {
	item, err := s.importedRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !item.CanMerge() {
		return nil, imports.ErrInvalidTransition{ID: id, Status: item.Status, Action: "merge"}
	}

	matched, err := s.transactionRepo.GetByID(ctx, *item.MatchingTransactionID)
	if err != nil {
		return nil, err
	}

	matched.Date = item.Date
	matched.Value = item.Value
	matched.Pending = false
	if edits != nil {
		if edits.Description != "" {
			matched.Description = edits.Description
		}
		if edits.Value > 0 {
			matched.Value = edits.Value
		}
		if edits.Date != nil {
			matched.Date = *edits.Date
		}
		if edits.Type != "" {
			matched.Type = edits.Type
		}
		if edits.Category != "" {
			matched.Category = edits.Category
		}
	}

	if err := s.transactionRepo.Update(ctx, matched); err != nil {
		return nil, err
	}

	if err := s.importedRepo.UpdateStatus(ctx, id, imports.ImportedTransactionStatusMerged); err != nil {
		s.logger.Error("Matched transaction updated but status update failed",
			"imported_transaction_id", id.String(),
			"transaction_id", matched.ID.String(),
			"error", err,
		)
		return nil, err
	}

	item.Status = imports.ImportedTransactionStatusMerged
	s.logger.Info("Imported transaction merged",
		"imported_transaction_id", id.String(),
		"transaction_id", matched.ID.String(),
	)
	return item, nil
}

// Ignore rejects a pending item. The ledger is untouched.
func (s *ReconciliationServiceImpl) Ignore(ctx context.Context, id uuid.UUID) (*imports.ImportedTransaction, error) {
	item, err := s.importedRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !item.CanIgnore() {
		return nil, imports.ErrInvalidTransition{ID: id, Status: item.Status, Action: "ignore"}
	}

	if err := s.importedRepo.UpdateStatus(ctx, id, imports.ImportedTransactionStatusIgnored); err != nil {
		return nil, err
	}

	item.Status = imports.ImportedTransactionStatusIgnored
	return item, nil
}

// Delete soft-deletes a resolved item from the reconciliation queue. Pending
// items cannot be deleted; they must be decided first.
func (s *ReconciliationServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.importedRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !item.CanDelete() {
		return imports.ErrInvalidTransition{ID: id, Status: item.Status, Action: "delete"}
	}

	return s.importedRepo.MarkDeleted(ctx, id)
}
