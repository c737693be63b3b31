package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/outbox"
	"github.com/expense-ledger/internal/domain/shared"
)

var outboxColumnNames = []string{"id", "import_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}

func newTestOutboxMessage(t *testing.T) *outbox.Message {
	t.Helper()
	batch := &outbox.Batch{
		ImportID: uuid.New(),
		Transactions: []*imports.ImportedTransaction{
			{
				ID:       uuid.New(),
				Value:    1250,
				Type:     shared.EntryTypeExpense,
				Status:   imports.ImportedTransactionStatusPending,
				ImportID: uuid.Nil,
			},
		},
	}
	msg, err := outbox.NewMessage(batch)
	require.NoError(t, err)
	return msg
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}
	msg := newTestOutboxMessage(t)

	query := `
		INSERT INTO statement_outbox \(import_id, payload, status, attempts, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5\)
		RETURNING id
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(msg.ImportID, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		err := repo.Create(ctx, msg)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), msg.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(msg.ImportID, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, msg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create outbox message")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}
	msg := newTestOutboxMessage(t)
	msg.ID = 7

	query := `
		SELECT id, import_id, payload, status, attempts, created_at, last_attempt_at
		FROM statement_outbox
		WHERE status = \$1
		ORDER BY created_at ASC
		LIMIT \$2
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(outboxColumnNames).
			AddRow(msg.ID, msg.ImportID, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt, msg.LastAttemptAt)
		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, 10).WillReturnRows(rows)

		messages, err := repo.GetPending(ctx, 10)
		assert.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, msg.ID, messages[0].ID)
		assert.Equal(t, msg.ImportID, messages[0].ImportID)

		batch, err := messages[0].GetBatch()
		require.NoError(t, err)
		assert.Len(t, batch.Transactions, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, 10).
			WillReturnRows(pgxmock.NewRows(outboxColumnNames))

		messages, err := repo.GetPending(ctx, 10)
		assert.NoError(t, err)
		assert.Empty(t, messages)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	query := `
		UPDATE statement_outbox
		SET status = \$1, last_attempt_at = \$2
		WHERE id = \$3
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateStatus(ctx, 1, shared.OutboxStatusProcessed)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(999)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, 999, shared.OutboxStatusProcessed)
		assert.Error(t, err)
		var notFoundErr outbox.ErrMessageNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_IncrementAttempts(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	query := `
		UPDATE statement_outbox
		SET attempts = attempts \+ 1, last_attempt_at = \$1
		WHERE id = \$2
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(pgxmock.AnyArg(), int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.IncrementAttempts(ctx, 1)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_Delete(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	query := `
		DELETE FROM statement_outbox
		WHERE id = \$1
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(ctx, 1)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(999)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, 999)
		assert.Error(t, err)
		var notFoundErr outbox.ErrMessageNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetByImportID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}
	msg := newTestOutboxMessage(t)
	msg.ID = 3
	now := time.Now()
	msg.LastAttemptAt = &now

	query := `
		SELECT id, import_id, payload, status, attempts, created_at, last_attempt_at
		FROM statement_outbox
		WHERE import_id = \$1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(outboxColumnNames).
			AddRow(msg.ID, msg.ImportID, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt, msg.LastAttemptAt)
		mock.ExpectQuery(query).WithArgs(msg.ImportID).WillReturnRows(rows)

		found, err := repo.GetByImportID(ctx, msg.ImportID)
		assert.NoError(t, err)
		assert.Equal(t, msg.ID, found.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(msg.ImportID).WillReturnError(pgx.ErrNoRows)

		found, err := repo.GetByImportID(ctx, msg.ImportID)
		assert.Error(t, err)
		assert.Nil(t, found)
		var notFoundErr outbox.ErrMessageNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
