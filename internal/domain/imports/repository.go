package imports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages import record persistence
type Repository interface {
	Create(ctx context.Context, imp *Import) error
	GetByID(ctx context.Context, id uuid.UUID) (*Import, error)
	List(ctx context.Context) ([]*Import, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ImportStatus, errMessage string) error
	WithTx(tx pgx.Tx) Repository
}

// TransactionRepository manages imported transaction persistence.
// Parsed statement lines carry opaque raw data and a denormalized match
// snapshot, so they live in a document store rather than in Postgres.
type TransactionRepository interface {
	CreateBatch(ctx context.Context, transactions []*ImportedTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*ImportedTransaction, error)
	ListByImportID(ctx context.Context, importID uuid.UUID) ([]*ImportedTransaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ImportedTransactionStatus) error
	MarkDeleted(ctx context.Context, id uuid.UUID) error
}

// ErrImportNotFound indicates missing import record
type ErrImportNotFound struct {
	ImportID uuid.UUID
}

func (e ErrImportNotFound) Error() string {
	return "import not found: " + e.ImportID.String()
}

// Is implements the errors.Is interface for ErrImportNotFound
func (e ErrImportNotFound) Is(target error) bool {
	t, ok := target.(ErrImportNotFound)
	if !ok {
		return false
	}
	if t.ImportID == uuid.Nil {
		return true
	}
	return e.ImportID == t.ImportID
}

// ErrImportedTransactionNotFound indicates missing imported transaction
type ErrImportedTransactionNotFound struct {
	ID uuid.UUID
}

func (e ErrImportedTransactionNotFound) Error() string {
	return "imported transaction not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrImportedTransactionNotFound
func (e ErrImportedTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrImportedTransactionNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
