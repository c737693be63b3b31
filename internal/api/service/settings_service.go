package service

import (
	"context"

	"github.com/expense-ledger/internal/domain/settings"
)

// SettingsServiceImpl implements the SettingsService interface
type SettingsServiceImpl struct {
	settingsRepo settings.Repository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo settings.Repository) SettingsService {
	return &SettingsServiceImpl{
		settingsRepo: settingsRepo,
	}
}

func (s *SettingsServiceImpl) Get(ctx context.Context) (*settings.Settings, error) {
	return s.settingsRepo.Get(ctx)
}

func (s *SettingsServiceImpl) Save(ctx context.Context, cfg *settings.Settings) (*settings.Settings, error) {
	if err := s.settingsRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return s.settingsRepo.Get(ctx)
}
