package service

import (
	"context"
	"time"

	"github.com/expense-ledger/internal/domain/transaction"
)

// AnalyticsServiceImpl implements the AnalyticsService interface on top of
// the ledger repository's aggregate queries
type AnalyticsServiceImpl struct {
	transactionRepo transaction.Repository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(transactionRepo transaction.Repository) AnalyticsService {
	return &AnalyticsServiceImpl{
		transactionRepo: transactionRepo,
	}
}

func (s *AnalyticsServiceImpl) Summary(ctx context.Context, start, end time.Time) (*transaction.Summary, error) {
	return s.transactionRepo.Summarize(ctx, start, end)
}

func (s *AnalyticsServiceImpl) MonthlyTrends(ctx context.Context, months int) ([]*transaction.TrendPoint, error) {
	return s.transactionRepo.MonthlyTrends(ctx, months)
}

func (s *AnalyticsServiceImpl) CategoryTotals(ctx context.Context, start, end time.Time) ([]*transaction.CategoryTotal, error) {
	return s.transactionRepo.CategoryTotals(ctx, start, end)
}
