package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/expense-ledger/internal/domain/scheduled"
	"github.com/expense-ledger/internal/platform/persistence"
)

// ScheduledRepository implements the scheduled.Repository interface for PostgreSQL
type ScheduledRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewScheduledRepository(logger *slog.Logger, db *persistence.PostgresDB) scheduled.Repository {
	return &ScheduledRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const scheduledColumns = `id, description, value, type, category, interval_unit, interval_count, next_run, enabled, created_at, updated_at`

func scanScheduled(row pgx.Row) (*scheduled.ScheduledTransaction, error) {
	var st scheduled.ScheduledTransaction
	err := row.Scan(
		&st.ID,
		&st.Description,
		&st.Value,
		&st.Type,
		&st.Category,
		&st.IntervalUnit,
		&st.IntervalCount,
		&st.NextRun,
		&st.Enabled,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *ScheduledRepository) Create(ctx context.Context, st *scheduled.ScheduledTransaction) error {
	query := `
		INSERT INTO scheduled_transactions (id, description, value, type, category, interval_unit, interval_count, next_run, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		st.ID,
		st.Description,
		st.Value,
		st.Type,
		st.Category,
		st.IntervalUnit,
		st.IntervalCount,
		st.NextRun,
		st.Enabled,
		st.CreatedAt,
		st.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create scheduled transaction", "error", err)
		return fmt.Errorf("failed to create scheduled transaction: %w", err)
	}

	return nil
}

func (r *ScheduledRepository) GetByID(ctx context.Context, id uuid.UUID) (*scheduled.ScheduledTransaction, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_transactions WHERE id = $1`

	st, err := scanScheduled(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, scheduled.ErrNotFound{ID: id}
		}
		r.logger.Error("Failed to get scheduled transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get scheduled transaction: %w", err)
	}

	return st, nil
}

func (r *ScheduledRepository) List(ctx context.Context) ([]*scheduled.ScheduledTransaction, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_transactions ORDER BY next_run ASC`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list scheduled transactions", "error", err)
		return nil, fmt.Errorf("failed to list scheduled transactions: %w", err)
	}
	defer rows.Close()

	var result []*scheduled.ScheduledTransaction
	for rows.Next() {
		st, err := scanScheduled(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled transaction row: %w", err)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scheduled transaction rows: %w", err)
	}

	return result, nil
}

func (r *ScheduledRepository) Update(ctx context.Context, st *scheduled.ScheduledTransaction) error {
	query := `
		UPDATE scheduled_transactions
		SET description = $1, value = $2, type = $3, category = $4, interval_unit = $5, interval_count = $6, next_run = $7, enabled = $8, updated_at = NOW()
		WHERE id = $9
	`

	result, err := r.querier.Exec(ctx, query,
		st.Description,
		st.Value,
		st.Type,
		st.Category,
		st.IntervalUnit,
		st.IntervalCount,
		st.NextRun,
		st.Enabled,
		st.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update scheduled transaction", "id", st.ID.String(), "error", err)
		return fmt.Errorf("failed to update scheduled transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return scheduled.ErrNotFound{ID: st.ID}
	}

	return nil
}

func (r *ScheduledRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM scheduled_transactions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete scheduled transaction", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete scheduled transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return scheduled.ErrNotFound{ID: id}
	}

	return nil
}
