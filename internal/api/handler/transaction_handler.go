package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expense-ledger/internal/api/service"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/domain/transaction"
)

// TransactionHandler handles HTTP requests for ledger transactions
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Create handles creation of a new ledger transaction
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date format")
		return
	}

	txn, err := h.transactionService.Create(c.Request.Context(), req.Description, req.Value, date, shared.EntryType(req.Type), req.Category, req.Pending)
	if err != nil {
		if errors.Is(err, transaction.ErrEmptyDescription) || errors.Is(err, transaction.ErrInvalidValue) || errors.Is(err, transaction.ErrInvalidType) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create transaction", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// GetByID retrieves a ledger transaction by its ID
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondTransactionError(c, id, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// List returns a page of ledger transactions with pagination metadata
func (h *TransactionHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	txns, total, err := h.transactionService.List(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		responses = append(responses, mapTransactionToResponse(txn))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// Update replaces the mutable fields of an existing transaction
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date format")
		return
	}

	txn := &transaction.Transaction{
		ID:          id,
		Description: req.Description,
		Value:       req.Value,
		Date:        date,
		Type:        shared.EntryType(req.Type),
		Category:    req.Category,
		Pending:     req.Pending,
	}

	updated, err := h.transactionService.Update(c.Request.Context(), txn)
	if err != nil {
		h.respondTransactionError(c, id, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(updated))
}

// Delete removes a ledger transaction
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), id); err != nil {
		h.respondTransactionError(c, id, err)
		return
	}

	RespondNoContent(c)
}

// PendingCount returns the number of transactions awaiting review
func (h *TransactionHandler) PendingCount(c *gin.Context) {
	count, err := h.transactionService.PendingCount(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count pending transactions", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, PendingCountResponse{Count: count})
}

func (h *TransactionHandler) respondTransactionError(c *gin.Context, id uuid.UUID, err error) {
	var notFound transaction.ErrTransactionNotFound
	if errors.As(err, &notFound) {
		RespondNotFound(c, "Transaction not found")
		return
	}
	h.logger.Error("Transaction operation failed", "id", id.String(), "error", err)
	RespondInternalError(c)
}

func parseTransactionID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// mapTransactionToResponse maps a ledger transaction to a response DTO
func mapTransactionToResponse(txn *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          txn.ID.String(),
		Description: txn.Description,
		Value:       txn.Value,
		Date:        txn.Date.Format(time.RFC3339),
		Type:        string(txn.Type),
		Category:    txn.Category,
		Pending:     txn.Pending,
		CreatedAt:   txn.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   txn.UpdatedAt.Format(time.RFC3339),
	}
}
