package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/expense-ledger/internal/api/service"
	"github.com/expense-ledger/internal/domain/settings"
)

// SettingsHandler handles HTTP requests for notification settings
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(logger *slog.Logger, settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// Get returns the stored settings or the defaults
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get settings", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, s)
}

// Update saves the notification settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if req.TelegramEnabled && req.TelegramChatID == "" {
		RespondBadRequest(c, "telegram_chat_id is required when telegram is enabled")
		return
	}

	saved, err := h.settingsService.Save(c.Request.Context(), &settings.Settings{
		NotifyOnImportCompleted: req.NotifyOnImportCompleted,
		NotifyOnScheduledRun:    req.NotifyOnScheduledRun,
		TelegramEnabled:         req.TelegramEnabled,
		TelegramChatID:          req.TelegramChatID,
	})
	if err != nil {
		h.logger.Error("Failed to save settings", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, saved)
}
