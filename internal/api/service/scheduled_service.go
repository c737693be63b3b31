package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-ledger/internal/domain/scheduled"
	"github.com/expense-ledger/internal/domain/shared"
)

// ScheduledServiceImpl implements the ScheduledService interface
type ScheduledServiceImpl struct {
	scheduledRepo scheduled.Repository
}

// NewScheduledService creates a new scheduled transaction service
func NewScheduledService(scheduledRepo scheduled.Repository) ScheduledService {
	return &ScheduledServiceImpl{
		scheduledRepo: scheduledRepo,
	}
}

func (s *ScheduledServiceImpl) Create(ctx context.Context, description string, value int64, entryType shared.EntryType, category string, unit scheduled.IntervalUnit, count int, nextRun time.Time) (*scheduled.ScheduledTransaction, error) {
	st, err := scheduled.New(description, value, entryType, category, unit, count, nextRun)
	if err != nil {
		return nil, err
	}

	if err := s.scheduledRepo.Create(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *ScheduledServiceImpl) List(ctx context.Context) ([]*scheduled.ScheduledTransaction, error) {
	return s.scheduledRepo.List(ctx)
}

func (s *ScheduledServiceImpl) Update(ctx context.Context, st *scheduled.ScheduledTransaction) (*scheduled.ScheduledTransaction, error) {
	if err := s.scheduledRepo.Update(ctx, st); err != nil {
		return nil, err
	}
	return s.scheduledRepo.GetByID(ctx, st.ID)
}

func (s *ScheduledServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scheduledRepo.Delete(ctx, id)
}
