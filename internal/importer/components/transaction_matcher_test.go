package components

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/domain/transaction"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, limit, offset int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) GetByTypeAndValueInWindow(ctx context.Context, entryType shared.EntryType, value int64, start, end time.Time) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, entryType, value, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Summarize(ctx context.Context, start, end time.Time) (*transaction.Summary, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Summary), args.Error(1)
}

func (m *MockTransactionRepository) MonthlyTrends(ctx context.Context, months int) ([]*transaction.TrendPoint, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.TrendPoint), args.Error(1)
}

func (m *MockTransactionRepository) CategoryTotals(ctx context.Context, start, end time.Time) ([]*transaction.CategoryTotal, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.CategoryTotal), args.Error(1)
}

func (m *MockTransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	args := m.Called(tx)
	return args.Get(0).(transaction.Repository)
}

func statementLine(value int64, date time.Time) *imports.ImportedTransaction {
	return &imports.ImportedTransaction{
		ID:          uuid.New(),
		Description: "STATEMENT LINE",
		Value:       value,
		Date:        date,
		Type:        shared.EntryTypeExpense,
		Status:      imports.ImportedTransactionStatusPending,
	}
}

func pendingLedgerEntry(value int64, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:          uuid.New(),
		Description: "Estimated entry",
		Value:       value,
		Date:        date,
		Type:        shared.EntryTypeExpense,
		Pending:     true,
	}
}

func TestTransactionMatcher_Match(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

	t.Run("PairsNearestInWindow", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		matcher := NewTransactionMatcher(repo, 3, logger)

		candidate := pendingLedgerEntry(5499, day(4))
		repo.On("GetByTypeAndValueInWindow", mock.Anything, shared.EntryTypeExpense, int64(5499), mock.Anything, mock.Anything).
			Return([]*transaction.Transaction{candidate}, nil)

		line := statementLine(5499, day(5))
		err := matcher.Match(context.Background(), []*imports.ImportedTransaction{line})

		require.NoError(t, err)
		require.NotNil(t, line.MatchingTransactionID)
		assert.Equal(t, candidate.ID, *line.MatchingTransactionID)
		assert.Equal(t, candidate, line.MatchingTransaction)
	})

	t.Run("OutsideWindowStaysUnmatched", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		matcher := NewTransactionMatcher(repo, 3, logger)

		candidate := pendingLedgerEntry(5499, day(1))
		repo.On("GetByTypeAndValueInWindow", mock.Anything, shared.EntryTypeExpense, int64(5499), mock.Anything, mock.Anything).
			Return([]*transaction.Transaction{candidate}, nil)

		line := statementLine(5499, day(10))
		err := matcher.Match(context.Background(), []*imports.ImportedTransaction{line})

		require.NoError(t, err)
		assert.Nil(t, line.MatchingTransactionID)
		assert.False(t, line.HasMatch())
	})

	t.Run("CandidateUsedAtMostOnce", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		matcher := NewTransactionMatcher(repo, 3, logger)

		candidate := pendingLedgerEntry(5499, day(4))
		repo.On("GetByTypeAndValueInWindow", mock.Anything, shared.EntryTypeExpense, int64(5499), mock.Anything, mock.Anything).
			Return([]*transaction.Transaction{candidate}, nil)

		first := statementLine(5499, day(4))
		second := statementLine(5499, day(5))
		err := matcher.Match(context.Background(), []*imports.ImportedTransaction{first, second})

		require.NoError(t, err)
		matchedCount := 0
		for _, line := range []*imports.ImportedTransaction{first, second} {
			if line.HasMatch() {
				matchedCount++
			}
		}
		assert.Equal(t, 1, matchedCount)
	})

	t.Run("TwoLinesTwoCandidatesBothPair", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		matcher := NewTransactionMatcher(repo, 3, logger)

		early := pendingLedgerEntry(5499, day(3))
		late := pendingLedgerEntry(5499, day(6))
		repo.On("GetByTypeAndValueInWindow", mock.Anything, shared.EntryTypeExpense, int64(5499), mock.Anything, mock.Anything).
			Return([]*transaction.Transaction{early, late}, nil)

		first := statementLine(5499, day(4))
		second := statementLine(5499, day(6))
		err := matcher.Match(context.Background(), []*imports.ImportedTransaction{first, second})

		require.NoError(t, err)
		require.True(t, first.HasMatch())
		require.True(t, second.HasMatch())
		assert.Equal(t, early.ID, *first.MatchingTransactionID)
		assert.Equal(t, late.ID, *second.MatchingTransactionID)
	})

	t.Run("ConfirmedEntriesIgnored", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		matcher := NewTransactionMatcher(repo, 3, logger)

		confirmed := pendingLedgerEntry(5499, day(5))
		confirmed.Pending = false
		repo.On("GetByTypeAndValueInWindow", mock.Anything, shared.EntryTypeExpense, int64(5499), mock.Anything, mock.Anything).
			Return([]*transaction.Transaction{confirmed}, nil)

		line := statementLine(5499, day(5))
		err := matcher.Match(context.Background(), []*imports.ImportedTransaction{line})

		require.NoError(t, err)
		assert.False(t, line.HasMatch())
	})

	t.Run("GroupsQueriedSeparately", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		matcher := NewTransactionMatcher(repo, 3, logger)

		repo.On("GetByTypeAndValueInWindow", mock.Anything, shared.EntryTypeExpense, int64(5499), mock.Anything, mock.Anything).
			Return([]*transaction.Transaction{}, nil).Once()
		repo.On("GetByTypeAndValueInWindow", mock.Anything, shared.EntryTypeExpense, int64(1200), mock.Anything, mock.Anything).
			Return([]*transaction.Transaction{}, nil).Once()

		lines := []*imports.ImportedTransaction{
			statementLine(5499, day(4)),
			statementLine(1200, day(4)),
		}
		err := matcher.Match(context.Background(), lines)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		matcher := NewTransactionMatcher(repo, 3, logger)

		repo.On("GetByTypeAndValueInWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		err := matcher.Match(context.Background(), []*imports.ImportedTransaction{statementLine(5499, day(4))})
		assert.Error(t, err)
	})
}
