package settings

import "context"

// Settings holds the user's notification preferences and Telegram linkage.
// Delivery of notifications is a separate concern; this record only stores
// what the user chose.
type Settings struct {
	NotifyOnImportCompleted bool   `json:"notify_on_import_completed"`
	NotifyOnScheduledRun    bool   `json:"notify_on_scheduled_run"`
	TelegramEnabled         bool   `json:"telegram_enabled"`
	TelegramChatID          string `json:"telegram_chat_id,omitempty"`
}

// Defaults returns the settings applied before the user saves anything
func Defaults() *Settings {
	return &Settings{
		NotifyOnImportCompleted: true,
		NotifyOnScheduledRun:    false,
		TelegramEnabled:         false,
	}
}

// Repository manages settings persistence. There is a single settings row;
// Get returns Defaults() until the first Save.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
