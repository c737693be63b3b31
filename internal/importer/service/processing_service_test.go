package service

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/outbox"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/platform/objectstore"
)

type MockImportRepository struct {
	mock.Mock
}

func (m *MockImportRepository) Create(ctx context.Context, imp *imports.Import) error {
	args := m.Called(ctx, imp)
	return args.Error(0)
}

func (m *MockImportRepository) GetByID(ctx context.Context, id uuid.UUID) (*imports.Import, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imports.Import), args.Error(1)
}

func (m *MockImportRepository) List(ctx context.Context) ([]*imports.Import, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*imports.Import), args.Error(1)
}

func (m *MockImportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status imports.ImportStatus, errMessage string) error {
	args := m.Called(ctx, id, status, errMessage)
	return args.Error(0)
}

func (m *MockImportRepository) WithTx(tx pgx.Tx) imports.Repository {
	args := m.Called(tx)
	return args.Get(0).(imports.Repository)
}

type MockStatementParser struct {
	mock.Mock
}

func (m *MockStatementParser) Parse(importType imports.ImportType, data []byte) ([]*imports.ImportedTransaction, error) {
	args := m.Called(importType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*imports.ImportedTransaction), args.Error(1)
}

type MockTransactionMatcher struct {
	mock.Mock
}

func (m *MockTransactionMatcher) Match(ctx context.Context, items []*imports.ImportedTransaction) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

type MockBatchRecorder struct {
	mock.Mock
}

func (m *MockBatchRecorder) RecordBatch(ctx context.Context, batch *outbox.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

type processingFixture struct {
	importRepo *MockImportRepository
	store      *objectstore.MemoryStore
	parser     *MockStatementParser
	matcher    *MockTransactionMatcher
	recorder   *MockBatchRecorder
	service    ProcessingService
}

func newProcessingFixture() *processingFixture {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	f := &processingFixture{
		importRepo: new(MockImportRepository),
		store:      objectstore.NewMemoryStore("expense-ledger"),
		parser:     new(MockStatementParser),
		matcher:    new(MockTransactionMatcher),
		recorder:   new(MockBatchRecorder),
	}
	f.service = NewProcessingService(f.importRepo, f.store, f.parser, f.matcher, f.recorder, logger)
	return f
}

func newStatementJob(t *testing.T, store *objectstore.MemoryStore, content string) *shared.StatementJob {
	t.Helper()
	key := "statements/" + uuid.New().String() + ".csv"
	fileURL, err := store.Put(context.Background(), key, "text/csv", strings.NewReader(content))
	require.NoError(t, err)

	return &shared.StatementJob{
		ImportID:      uuid.New(),
		FileURL:       fileURL,
		ImportType:    string(imports.ImportTypeVisa),
		CorrelationID: "corr-1",
		Timestamp:     time.Now().UTC(),
	}
}

func parsedLines(n int) []*imports.ImportedTransaction {
	items := make([]*imports.ImportedTransaction, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, &imports.ImportedTransaction{
			ID:          uuid.New(),
			Description: "LINE",
			Value:       int64(1000 + i),
			Date:        time.Now().UTC(),
			Type:        shared.EntryTypeExpense,
			Status:      imports.ImportedTransactionStatusPending,
		})
	}
	return items
}

func TestProcessingService_ProcessStatement(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newProcessingFixture()
		job := newStatementJob(t, f.store, "2026-03-02,COFFEE,4.50\n")

		items := parsedLines(2)
		f.importRepo.On("UpdateStatus", mock.Anything, job.ImportID, imports.ImportStatusProcessing, "").Return(nil)
		f.parser.On("Parse", imports.ImportTypeVisa, []byte("2026-03-02,COFFEE,4.50\n")).Return(items, nil)
		f.matcher.On("Match", mock.Anything, items).Return(nil)
		f.recorder.On("RecordBatch", mock.Anything, mock.MatchedBy(func(batch *outbox.Batch) bool {
			if batch.ImportID != job.ImportID || batch.CorrelationID != "corr-1" || len(batch.Transactions) != 2 {
				return false
			}
			// Every parsed line gets stamped with the import id
			for _, item := range batch.Transactions {
				if item.ImportID != job.ImportID {
					return false
				}
			}
			return true
		})).Return(nil)

		err := f.service.ProcessStatement(context.Background(), job)

		require.NoError(t, err)
		f.importRepo.AssertExpectations(t)
		f.parser.AssertExpectations(t)
		f.matcher.AssertExpectations(t)
		f.recorder.AssertExpectations(t)
	})

	t.Run("MissingFileMarksFailed", func(t *testing.T) {
		f := newProcessingFixture()
		job := &shared.StatementJob{
			ImportID:   uuid.New(),
			FileURL:    f.store.URL("statements/missing.csv"),
			ImportType: string(imports.ImportTypeVisa),
		}

		f.importRepo.On("UpdateStatus", mock.Anything, job.ImportID, imports.ImportStatusProcessing, "").Return(nil)
		f.importRepo.On("UpdateStatus", mock.Anything, job.ImportID, imports.ImportStatusFailed, mock.Anything).Return(nil)

		err := f.service.ProcessStatement(context.Background(), job)

		// Permanent failure: message acked, import FAILED
		assert.NoError(t, err)
		f.importRepo.AssertExpectations(t)
		f.parser.AssertNotCalled(t, "Parse")
	})

	t.Run("ParseFailureMarksFailed", func(t *testing.T) {
		f := newProcessingFixture()
		job := newStatementJob(t, f.store, "garbage")

		f.importRepo.On("UpdateStatus", mock.Anything, job.ImportID, imports.ImportStatusProcessing, "").Return(nil)
		f.parser.On("Parse", imports.ImportTypeVisa, mock.Anything).Return(nil, assert.AnError)
		f.importRepo.On("UpdateStatus", mock.Anything, job.ImportID, imports.ImportStatusFailed, mock.Anything).Return(nil)

		err := f.service.ProcessStatement(context.Background(), job)

		assert.NoError(t, err)
		f.matcher.AssertNotCalled(t, "Match")
		f.importRepo.AssertExpectations(t)
	})

	t.Run("EmptyStatementMarksFailed", func(t *testing.T) {
		f := newProcessingFixture()
		job := newStatementJob(t, f.store, "date,description,amount\n")

		f.importRepo.On("UpdateStatus", mock.Anything, job.ImportID, imports.ImportStatusProcessing, "").Return(nil)
		f.parser.On("Parse", imports.ImportTypeVisa, mock.Anything).Return([]*imports.ImportedTransaction{}, nil)
		f.importRepo.On("UpdateStatus", mock.Anything, job.ImportID, imports.ImportStatusFailed, mock.Anything).Return(nil)

		err := f.service.ProcessStatement(context.Background(), job)

		assert.NoError(t, err)
		f.matcher.AssertNotCalled(t, "Match")
	})

	t.Run("MatcherErrorRetried", func(t *testing.T) {
		f := newProcessingFixture()
		job := newStatementJob(t, f.store, "2026-03-02,COFFEE,4.50\n")

		items := parsedLines(1)
		f.importRepo.On("UpdateStatus", mock.Anything, job.ImportID, imports.ImportStatusProcessing, "").Return(nil)
		f.parser.On("Parse", imports.ImportTypeVisa, mock.Anything).Return(items, nil)
		f.matcher.On("Match", mock.Anything, items).Return(assert.AnError)

		err := f.service.ProcessStatement(context.Background(), job)

		// Transient failure: error propagates so the job is redelivered
		assert.Error(t, err)
		f.recorder.AssertNotCalled(t, "RecordBatch")
	})

	t.Run("UnknownImportAcked", func(t *testing.T) {
		f := newProcessingFixture()
		job := newStatementJob(t, f.store, "2026-03-02,COFFEE,4.50\n")

		f.importRepo.On("UpdateStatus", mock.Anything, job.ImportID, imports.ImportStatusProcessing, "").
			Return(imports.ErrImportNotFound{ImportID: job.ImportID})

		err := f.service.ProcessStatement(context.Background(), job)

		assert.NoError(t, err)
		f.parser.AssertNotCalled(t, "Parse")
	})
}
