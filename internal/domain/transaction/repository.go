package transaction

import (
	"context"
	"time"

	"github.com/expense-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages ledger transaction persistence with pagination support
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*Transaction, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, txn *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPending(ctx context.Context) (int64, error)

	// GetByTypeAndValueInWindow returns transactions of the given type and
	// value whose date falls inside [start, end], ordered by date. Used by
	// the import processor to find reconciliation candidates.
	GetByTypeAndValueInWindow(ctx context.Context, entryType shared.EntryType, value int64, start, end time.Time) ([]*Transaction, error)

	Summarize(ctx context.Context, start, end time.Time) (*Summary, error)
	MonthlyTrends(ctx context.Context, months int) ([]*TrendPoint, error)
	CategoryTotals(ctx context.Context, start, end time.Time) ([]*CategoryTotal, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates missing ledger transaction
type ErrTransactionNotFound struct {
	ID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
