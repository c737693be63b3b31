package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expense-ledger/internal/api/service"
	"github.com/expense-ledger/internal/domain/scheduled"
	"github.com/expense-ledger/internal/domain/shared"
)

// ScheduledHandler handles HTTP requests for scheduled transactions
type ScheduledHandler struct {
	scheduledService service.ScheduledService
	logger           *slog.Logger
}

// NewScheduledHandler creates a new scheduled transaction handler
func NewScheduledHandler(logger *slog.Logger, scheduledService service.ScheduledService) *ScheduledHandler {
	return &ScheduledHandler{
		scheduledService: scheduledService,
		logger:           logger,
	}
}

// Create registers a new recurring transaction
func (h *ScheduledHandler) Create(c *gin.Context) {
	var req CreateScheduledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	nextRun, err := parseDate(req.NextRun)
	if err != nil {
		RespondBadRequest(c, "Invalid next_run format")
		return
	}

	st, err := h.scheduledService.Create(
		c.Request.Context(),
		req.Description,
		req.Value,
		shared.EntryType(req.Type),
		req.Category,
		scheduled.IntervalUnit(req.IntervalUnit),
		req.IntervalCount,
		nextRun,
	)
	if err != nil {
		if errors.Is(err, scheduled.ErrInvalidInterval) || errors.Is(err, scheduled.ErrInvalidUnit) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create scheduled transaction", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, st)
}

// List returns all scheduled transactions ordered by next run
func (h *ScheduledHandler) List(c *gin.Context) {
	result, err := h.scheduledService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list scheduled transactions", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, result)
}

// Update replaces a scheduled transaction's fields
func (h *ScheduledHandler) Update(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid scheduled transaction ID")
		return
	}

	var req UpdateScheduledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	nextRun, err := parseDate(req.NextRun)
	if err != nil {
		RespondBadRequest(c, "Invalid next_run format")
		return
	}

	st := &scheduled.ScheduledTransaction{
		ID:            id,
		Description:   req.Description,
		Value:         req.Value,
		Type:          shared.EntryType(req.Type),
		Category:      req.Category,
		IntervalUnit:  scheduled.IntervalUnit(req.IntervalUnit),
		IntervalCount: req.IntervalCount,
		NextRun:       nextRun,
		Enabled:       req.Enabled,
		UpdatedAt:     time.Now().UTC(),
	}

	updated, err := h.scheduledService.Update(c.Request.Context(), st)
	if err != nil {
		var notFound scheduled.ErrNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Scheduled transaction not found")
			return
		}
		h.logger.Error("Failed to update scheduled transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, updated)
}

// Delete removes a scheduled transaction
func (h *ScheduledHandler) Delete(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid scheduled transaction ID")
		return
	}

	if err := h.scheduledService.Delete(c.Request.Context(), id); err != nil {
		var notFound scheduled.ErrNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Scheduled transaction not found")
			return
		}
		h.logger.Error("Failed to delete scheduled transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}
