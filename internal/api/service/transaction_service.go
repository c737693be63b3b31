package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/domain/transaction"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	transactionRepo transaction.Repository
}

// NewTransactionService creates a new ledger transaction service
func NewTransactionService(transactionRepo transaction.Repository) TransactionService {
	return &TransactionServiceImpl{
		transactionRepo: transactionRepo,
	}
}

// Create validates and stores a new ledger transaction
func (s *TransactionServiceImpl) Create(ctx context.Context, description string, value int64, date time.Time, entryType shared.EntryType, category string, pending bool) (*transaction.Transaction, error) {
	txn, err := transaction.New(description, value, date, entryType, category)
	if err != nil {
		return nil, err
	}
	txn.Pending = pending

	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// GetByID retrieves a transaction, returns ErrTransactionNotFound if missing
func (s *TransactionServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

// List returns a page of transactions along with the total count
func (s *TransactionServiceImpl) List(ctx context.Context, page, perPage int) ([]*transaction.Transaction, int64, error) {
	offset := (page - 1) * perPage

	txns, err := s.transactionRepo.List(ctx, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactionRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}

// Update replaces the mutable fields of an existing transaction
func (s *TransactionServiceImpl) Update(ctx context.Context, txn *transaction.Transaction) (*transaction.Transaction, error) {
	if err := s.transactionRepo.Update(ctx, txn); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByID(ctx, txn.ID)
}

// Delete removes a transaction from the ledger
func (s *TransactionServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.transactionRepo.Delete(ctx, id)
}

// PendingCount returns the number of transactions awaiting review
func (s *TransactionServiceImpl) PendingCount(ctx context.Context) (int64, error) {
	return s.transactionRepo.CountPending(ctx)
}
