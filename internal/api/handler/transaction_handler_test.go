package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/domain/transaction"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Create(ctx context.Context, description string, value int64, date time.Time, entryType shared.EntryType, category string, pending bool) (*transaction.Transaction, error) {
	args := m.Called(ctx, description, value, date, entryType, category, pending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) List(ctx context.Context, page, perPage int) ([]*transaction.Transaction, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*transaction.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionService) Update(ctx context.Context, txn *transaction.Transaction) (*transaction.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionService) PendingCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newLedgerTransaction() *transaction.Transaction {
	now := time.Now().UTC()
	return &transaction.Transaction{
		ID:          uuid.New(),
		Description: "Groceries",
		Value:       5499,
		Date:        now.AddDate(0, 0, -1),
		Type:        shared.EntryTypeExpense,
		Category:    "Food",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestTransactionHandler_Create(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		txn := newLedgerTransaction()
		mockService.On("Create", mock.Anything, "Groceries", int64(5499), mock.Anything, shared.EntryTypeExpense, "Food", false).Return(txn, nil)

		router := setupTestRouter()
		router.POST("/transactions", handler.Create)

		jsonBody, _ := json.Marshal(CreateTransactionRequest{
			Description: "Groceries",
			Value:       5499,
			Date:        "2026-03-14",
			Type:        "EXPENSE",
			Category:    "Food",
		})
		req, _ := http.NewRequest(http.MethodPost, "/transactions", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		require.NotNil(t, topLevelResponse.Data)

		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		var txnResponse TransactionResponse
		require.NoError(t, json.Unmarshal(dataBytes, &txnResponse))
		assert.Equal(t, txn.ID.String(), txnResponse.ID)
		assert.Equal(t, txn.Value, txnResponse.Value)

		mockService.AssertExpectations(t)
	})

	t.Run("NegativeValue", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/transactions", handler.Create)

		jsonBody, _ := json.Marshal(map[string]interface{}{
			"description": "Refund",
			"value":       -100,
			"date":        "2026-03-14",
			"type":        "EXPENSE",
		})
		req, _ := http.NewRequest(http.MethodPost, "/transactions", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Create")
	})

	t.Run("MalformedDate", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/transactions", handler.Create)

		jsonBody, _ := json.Marshal(CreateTransactionRequest{
			Description: "Groceries",
			Value:       5499,
			Date:        "14/03/2026",
			Type:        "EXPENSE",
		})
		req, _ := http.NewRequest(http.MethodPost, "/transactions", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestTransactionHandler_List(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("PaginatedResponse", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		txns := []*transaction.Transaction{newLedgerTransaction(), newLedgerTransaction()}
		mockService.On("List", mock.Anything, 2, 10).Return(txns, int64(25), nil)

		router := setupTestRouter()
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions?page=2&per_page=10", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		require.NotNil(t, topLevelResponse.Meta)
		assert.Equal(t, 2, topLevelResponse.Meta.Page)
		assert.Equal(t, 10, topLevelResponse.Meta.PerPage)
		assert.Equal(t, 25, topLevelResponse.Meta.TotalItems)
		assert.Equal(t, 3, topLevelResponse.Meta.TotalPages)

		mockService.AssertExpectations(t)
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		mockService.On("List", mock.Anything, 1, 10).Return([]*transaction.Transaction{}, int64(0), nil)

		router := setupTestRouter()
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestTransactionHandler_Update(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(logger, mockService)

		txnID := uuid.New()
		mockService.On("Update", mock.Anything, mock.Anything).Return(nil, transaction.ErrTransactionNotFound{ID: txnID})

		router := setupTestRouter()
		router.PUT("/transactions/:id", handler.Update)

		jsonBody, _ := json.Marshal(UpdateTransactionRequest{
			Description: "Groceries",
			Value:       5499,
			Date:        "2026-03-14",
			Type:        "EXPENSE",
		})
		req, _ := http.NewRequest(http.MethodPut, "/transactions/"+txnID.String(), bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestTransactionHandler_PendingCount(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(logger, mockService)

	mockService.On("PendingCount", mock.Anything).Return(int64(4), nil)

	router := setupTestRouter()
	router.GET("/transactions/pending-count", handler.PendingCount)

	req, _ := http.NewRequest(http.MethodGet, "/transactions/pending-count", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var topLevelResponse Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
	require.NotNil(t, topLevelResponse.Data)

	dataBytes, _ := json.Marshal(topLevelResponse.Data)
	var countResponse PendingCountResponse
	require.NoError(t, json.Unmarshal(dataBytes, &countResponse))
	assert.Equal(t, int64(4), countResponse.Count)

	mockService.AssertExpectations(t)
}
