// Package postgres provides PostgreSQL implementations of the domain
// repositories. Imports, ledger transactions, scheduled transactions,
// settings and the statement outbox all live here; only parsed statement
// lines are stored elsewhere.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/platform/persistence"
)

// ImportRepository implements the imports.Repository interface for PostgreSQL
type ImportRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewImportRepository creates a new PostgreSQL import repository.
func NewImportRepository(logger *slog.Logger, db *persistence.PostgresDB) imports.Repository {
	return &ImportRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls.
func (r *ImportRepository) WithTx(tx pgx.Tx) imports.Repository {
	return &ImportRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new import record
func (r *ImportRepository) Create(ctx context.Context, imp *imports.Import) error {
	query := `
		INSERT INTO imports (id, file_url, original_file_name, import_type, status, error, credit_card_last_four_digits, payment_month, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		imp.ID,
		imp.FileURL,
		imp.OriginalFileName,
		imp.ImportType,
		imp.Status,
		imp.Error,
		imp.CreditCardLastFourDigits,
		imp.PaymentMonth,
		imp.CreatedAt,
		imp.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create import", "error", err)
		return fmt.Errorf("failed to create import: %w", err)
	}

	return nil
}

// GetByID retrieves an import by its ID
func (r *ImportRepository) GetByID(ctx context.Context, id uuid.UUID) (*imports.Import, error) {
	query := `
		SELECT id, file_url, original_file_name, import_type, status, error, credit_card_last_four_digits, payment_month, created_at, updated_at
		FROM imports
		WHERE id = $1
	`

	var imp imports.Import
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&imp.ID,
		&imp.FileURL,
		&imp.OriginalFileName,
		&imp.ImportType,
		&imp.Status,
		&imp.Error,
		&imp.CreditCardLastFourDigits,
		&imp.PaymentMonth,
		&imp.CreatedAt,
		&imp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, imports.ErrImportNotFound{ImportID: id}
		}
		r.logger.Error("Failed to get import", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get import: %w", err)
	}

	return &imp, nil
}

// List returns all imports, newest first. Imports are permanent audit
// records so the full history is small enough to return unpaginated.
func (r *ImportRepository) List(ctx context.Context) ([]*imports.Import, error) {
	query := `
		SELECT id, file_url, original_file_name, import_type, status, error, credit_card_last_four_digits, payment_month, created_at, updated_at
		FROM imports
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list imports", "error", err)
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var result []*imports.Import
	for rows.Next() {
		var imp imports.Import
		if err := rows.Scan(
			&imp.ID,
			&imp.FileURL,
			&imp.OriginalFileName,
			&imp.ImportType,
			&imp.Status,
			&imp.Error,
			&imp.CreditCardLastFourDigits,
			&imp.PaymentMonth,
			&imp.CreatedAt,
			&imp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import row: %w", err)
		}
		result = append(result, &imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import rows: %w", err)
	}

	return result, nil
}

// UpdateStatus transitions an import to the given status. errMessage is only
// persisted for FAILED imports.
func (r *ImportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status imports.ImportStatus, errMessage string) error {
	query := `
		UPDATE imports
		SET status = $1, error = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, status, errMessage, id)
	if err != nil {
		r.logger.Error("Failed to update import status", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update import status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return imports.ErrImportNotFound{ImportID: id}
	}

	return nil
}
