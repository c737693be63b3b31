package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expense-ledger/internal/api/service"
	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/shared"
)

// ReconciliationHandler handles the reconciliation decisions for imported
// transactions: approve, merge, ignore, delete
type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, reconciliationService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// Approve accepts a pending unmatched item as a new ledger transaction.
// The optional body carries user edits applied over the parsed values.
func (h *ReconciliationHandler) Approve(c *gin.Context) {
	h.decide(c, "approve", h.reconciliationService.Approve)
}

// Merge folds a pending matched item into its matching ledger transaction.
// The optional body carries user edits applied to the merged result.
func (h *ReconciliationHandler) Merge(c *gin.Context) {
	h.decide(c, "merge", h.reconciliationService.Merge)
}

// Ignore rejects a pending item with no ledger effect
func (h *ReconciliationHandler) Ignore(c *gin.Context) {
	h.decide(c, "ignore", func(ctx context.Context, id uuid.UUID, _ *service.TransactionEdits) (*imports.ImportedTransaction, error) {
		return h.reconciliationService.Ignore(ctx, id)
	})
}

// Delete soft-deletes a resolved item from the reconciliation queue
func (h *ReconciliationHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.reconciliationService.Delete(c.Request.Context(), id); err != nil {
		h.respondDecisionError(c, "delete", id, err)
		return
	}

	RespondNoContent(c)
}

// decide runs one status-changing decision and maps the outcome to HTTP
func (h *ReconciliationHandler) decide(c *gin.Context, action string, fn func(ctx context.Context, id uuid.UUID, edits *service.TransactionEdits) (*imports.ImportedTransaction, error)) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	edits, ok := h.parseEdits(c)
	if !ok {
		return
	}

	item, err := fn(c.Request.Context(), id, edits)
	if err != nil {
		h.respondDecisionError(c, action, id, err)
		return
	}

	RespondOK(c, mapImportedTransactionToResponse(item))
}

// parseEdits reads the optional edited-fields body of a decision. A missing
// or empty body means the parsed statement values are used unchanged.
func (h *ReconciliationHandler) parseEdits(c *gin.Context) (*service.TransactionEdits, bool) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil, true
	}

	var req ReconcileDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid decision payload: "+err.Error())
		return nil, false
	}

	edits := &service.TransactionEdits{
		Description: req.Description,
		Value:       req.Value,
		Type:        shared.EntryType(req.Type),
		Category:    req.Category,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			RespondBadRequest(c, "Invalid date format")
			return nil, false
		}
		edits.Date = &date
	}
	return edits, true
}

func (h *ReconciliationHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid imported transaction ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ReconciliationHandler) respondDecisionError(c *gin.Context, action string, id uuid.UUID, err error) {
	var notFound imports.ErrImportedTransactionNotFound
	if errors.As(err, &notFound) {
		RespondNotFound(c, "Imported transaction not found")
		return
	}

	var invalidTransition imports.ErrInvalidTransition
	if errors.As(err, &invalidTransition) {
		h.logger.Warn("Rejected reconciliation decision",
			"action", action,
			"imported_transaction_id", id.String(),
			"status", string(invalidTransition.Status),
		)
		RespondConflict(c, err.Error())
		return
	}

	h.logger.Error("Reconciliation decision failed",
		"action", action,
		"imported_transaction_id", id.String(),
		"error", err,
	)
	RespondInternalError(c)
}
