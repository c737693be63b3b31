package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/scheduled"
	"github.com/expense-ledger/internal/domain/settings"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/domain/transaction"
)

// ErrInvalidCredentials indicates a failed login attempt
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService defines the interface for session token issuance
type AuthService interface {
	// Login verifies the configured credentials and returns a signed token.
	// Returns ErrInvalidCredentials on mismatch.
	Login(ctx context.Context, username, password string) (string, error)
}

// ImportService defines the interface for bank statement import operations
type ImportService interface {
	// UploadStatement streams a statement file into object storage and
	// returns the stored file URL. No Import record is created yet.
	UploadStatement(ctx context.Context, fileName, contentType string, r io.Reader) (string, error)

	// RegisterImport creates an Import in PENDING status and publishes a
	// statement job for asynchronous processing.
	RegisterImport(ctx context.Context, fileURL, originalFileName string, importType imports.ImportType, lastFourDigits, paymentMonth, correlationID string) (*imports.Import, error)

	// ListImports returns all imports, newest first
	ListImports(ctx context.Context) ([]*imports.Import, error)

	// GetImportByID retrieves one import
	// Returns ErrImportNotFound if the import doesn't exist
	GetImportByID(ctx context.Context, id uuid.UUID) (*imports.Import, error)

	// ListImportedTransactions returns every parsed line of an import,
	// soft-deleted ones flagged
	ListImportedTransactions(ctx context.Context, importID uuid.UUID) ([]*imports.ImportedTransaction, error)
}

// ReconciliationService defines the reconciliation decisions for imported
// transactions. Each method enforces the status/match preconditions and
// returns ErrInvalidTransition when they do not hold.
type ReconciliationService interface {
	// Approve accepts a pending unmatched item as a new ledger transaction,
	// applying any user edits over the parsed statement values
	Approve(ctx context.Context, id uuid.UUID, edits *TransactionEdits) (*imports.ImportedTransaction, error)

	// Merge folds a pending matched item into its matching ledger
	// transaction, applying any user edits to the merged result
	Merge(ctx context.Context, id uuid.UUID, edits *TransactionEdits) (*imports.ImportedTransaction, error)

	// Ignore rejects a pending item with no ledger effect
	Ignore(ctx context.Context, id uuid.UUID) (*imports.ImportedTransaction, error)

	// Delete soft-deletes a resolved (non-pending) item from the queue
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionService defines the interface for ledger transaction operations
type TransactionService interface {
	Create(ctx context.Context, description string, value int64, date time.Time, entryType shared.EntryType, category string, pending bool) (*transaction.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)

	// List returns a page of transactions along with the total count
	List(ctx context.Context, page, perPage int) ([]*transaction.Transaction, int64, error)

	Update(ctx context.Context, txn *transaction.Transaction) (*transaction.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PendingCount(ctx context.Context) (int64, error)
}

// AnalyticsService defines the aggregate views over the ledger
type AnalyticsService interface {
	Summary(ctx context.Context, start, end time.Time) (*transaction.Summary, error)
	MonthlyTrends(ctx context.Context, months int) ([]*transaction.TrendPoint, error)
	CategoryTotals(ctx context.Context, start, end time.Time) ([]*transaction.CategoryTotal, error)
}

// Attachment describes a stored transaction attachment. FileKey is the
// storage key, never the original filename.
type Attachment struct {
	FileKey  string `json:"fileKey"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
}

// AttachmentService defines the interface for transaction attachment uploads
type AttachmentService interface {
	// Upload stores an attachment under a key derived from the owning entity
	// id and a random component
	Upload(ctx context.Context, entityID, fileName, mimeType string, size int64, r io.Reader) (*Attachment, error)
}

// ScheduledService defines the interface for scheduled transaction CRUD
type ScheduledService interface {
	Create(ctx context.Context, description string, value int64, entryType shared.EntryType, category string, unit scheduled.IntervalUnit, count int, nextRun time.Time) (*scheduled.ScheduledTransaction, error)
	List(ctx context.Context) ([]*scheduled.ScheduledTransaction, error)
	Update(ctx context.Context, st *scheduled.ScheduledTransaction) (*scheduled.ScheduledTransaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsService defines the interface for notification settings
type SettingsService interface {
	Get(ctx context.Context) (*settings.Settings, error)
	Save(ctx context.Context, s *settings.Settings) (*settings.Settings, error)
}
