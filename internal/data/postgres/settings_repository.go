package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/expense-ledger/internal/domain/settings"
	"github.com/expense-ledger/internal/platform/persistence"
)

// settingsRowID pins the single settings row. Single-user system.
const settingsRowID = 1

// SettingsRepository implements the settings.Repository interface for PostgreSQL
type SettingsRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewSettingsRepository(logger *slog.Logger, db *persistence.PostgresDB) settings.Repository {
	return &SettingsRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Get returns the stored settings, or the defaults when nothing was saved yet
func (r *SettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	query := `
		SELECT notify_on_import_completed, notify_on_scheduled_run, telegram_enabled, telegram_chat_id
		FROM settings
		WHERE id = $1
	`

	var s settings.Settings
	err := r.querier.QueryRow(ctx, query, settingsRowID).Scan(
		&s.NotifyOnImportCompleted,
		&s.NotifyOnScheduledRun,
		&s.TelegramEnabled,
		&s.TelegramChatID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Defaults(), nil
		}
		r.logger.Error("Failed to get settings", "error", err)
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &s, nil
}

// Save upserts the single settings row
func (r *SettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	query := `
		INSERT INTO settings (id, notify_on_import_completed, notify_on_scheduled_run, telegram_enabled, telegram_chat_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET notify_on_import_completed = EXCLUDED.notify_on_import_completed,
			notify_on_scheduled_run = EXCLUDED.notify_on_scheduled_run,
			telegram_enabled = EXCLUDED.telegram_enabled,
			telegram_chat_id = EXCLUDED.telegram_chat_id,
			updated_at = NOW()
	`

	_, err := r.querier.Exec(ctx, query,
		settingsRowID,
		s.NotifyOnImportCompleted,
		s.NotifyOnScheduledRun,
		s.TelegramEnabled,
		s.TelegramChatID,
	)
	if err != nil {
		r.logger.Error("Failed to save settings", "error", err)
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
