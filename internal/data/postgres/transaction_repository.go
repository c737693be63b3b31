package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/domain/transaction"
	"github.com/expense-ledger/internal/platform/persistence"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL ledger transaction repository.
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic multi-repository operations.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const transactionColumns = `id, description, value, date, type, category, pending, created_at, updated_at`

func scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var txn transaction.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.Description,
		&txn.Value,
		&txn.Date,
		&txn.Type,
		&txn.Category,
		&txn.Pending,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Create stores a new ledger transaction
func (r *TransactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, description, value, date, type, category, pending, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		txn.ID,
		txn.Description,
		txn.Value,
		txn.Date,
		txn.Type,
		txn.Category,
		txn.Pending,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a ledger transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// List returns a page of ledger transactions, newest first
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY date DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*transaction.Transaction, error) {
	var result []*transaction.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		result = append(result, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return result, nil
}

// Count returns the total number of ledger transactions
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// Update replaces the mutable fields of an existing ledger transaction
func (r *TransactionRepository) Update(ctx context.Context, txn *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $1, value = $2, date = $3, type = $4, category = $5, pending = $6, updated_at = NOW()
		WHERE id = $7
	`

	result, err := r.querier.Exec(ctx, query,
		txn.Description,
		txn.Value,
		txn.Date,
		txn.Type,
		txn.Category,
		txn.Pending,
		txn.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update transaction", "id", txn.ID.String(), "error", err)
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrTransactionNotFound{ID: txn.ID}
	}

	return nil
}

// Delete removes a ledger transaction
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete transaction", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrTransactionNotFound{ID: id}
	}

	return nil
}

// CountPending returns the number of transactions still marked pending
func (r *TransactionRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE pending = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending transactions: %w", err)
	}
	return count, nil
}

// GetByTypeAndValueInWindow returns reconciliation candidates ordered by date
func (r *TransactionRepository) GetByTypeAndValueInWindow(ctx context.Context, entryType shared.EntryType, value int64, start, end time.Time) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE type = $1 AND value = $2 AND date BETWEEN $3 AND $4
		ORDER BY date ASC
	`

	rows, err := r.querier.Query(ctx, query, entryType, value, start, end)
	if err != nil {
		r.logger.Error("Failed to query matching candidates", "error", err)
		return nil, fmt.Errorf("failed to query matching candidates: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Summarize aggregates income, expense and balance over the given period
func (r *TransactionRepository) Summarize(ctx context.Context, start, end time.Time) (*transaction.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(value) FILTER (WHERE type = 'INCOME'), 0),
			COALESCE(SUM(value) FILTER (WHERE type = 'EXPENSE'), 0),
			COUNT(*)
		FROM transactions
		WHERE date BETWEEN $1 AND $2
	`

	var s transaction.Summary
	err := r.querier.QueryRow(ctx, query, start, end).Scan(&s.TotalIncome, &s.TotalExpense, &s.Count)
	if err != nil {
		r.logger.Error("Failed to summarize transactions", "error", err)
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	s.Balance = s.TotalIncome - s.TotalExpense

	return &s, nil
}

// MonthlyTrends returns per-month income and expense totals for the most
// recent months, oldest first.
func (r *TransactionRepository) MonthlyTrends(ctx context.Context, months int) ([]*transaction.TrendPoint, error) {
	query := `
		SELECT
			TO_CHAR(date_trunc('month', date), 'YYYY-MM') AS month,
			COALESCE(SUM(value) FILTER (WHERE type = 'INCOME'), 0),
			COALESCE(SUM(value) FILTER (WHERE type = 'EXPENSE'), 0)
		FROM transactions
		WHERE date >= date_trunc('month', NOW()) - ($1 - 1) * INTERVAL '1 month'
		GROUP BY 1
		ORDER BY 1 ASC
	`

	rows, err := r.querier.Query(ctx, query, months)
	if err != nil {
		r.logger.Error("Failed to query monthly trends", "error", err)
		return nil, fmt.Errorf("failed to query monthly trends: %w", err)
	}
	defer rows.Close()

	var result []*transaction.TrendPoint
	for rows.Next() {
		var p transaction.TrendPoint
		if err := rows.Scan(&p.Month, &p.Income, &p.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trend rows: %w", err)
	}

	return result, nil
}

// CategoryTotals aggregates expense totals per category over the given period
func (r *TransactionRepository) CategoryTotals(ctx context.Context, start, end time.Time) ([]*transaction.CategoryTotal, error) {
	query := `
		SELECT category, COALESCE(SUM(value), 0), COUNT(*)
		FROM transactions
		WHERE type = 'EXPENSE' AND date BETWEEN $1 AND $2
		GROUP BY category
		ORDER BY 2 DESC
	`

	rows, err := r.querier.Query(ctx, query, start, end)
	if err != nil {
		r.logger.Error("Failed to query category totals", "error", err)
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	var result []*transaction.CategoryTotal
	for rows.Next() {
		var c transaction.CategoryTotal
		if err := rows.Scan(&c.Category, &c.Total, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}

	return result, nil
}
