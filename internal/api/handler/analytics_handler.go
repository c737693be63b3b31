package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expense-ledger/internal/api/service"
)

// defaultTrendMonths is how many months of history trends cover by default
const defaultTrendMonths = 6

// AnalyticsHandler handles HTTP requests for ledger aggregates
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(logger *slog.Logger, analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// Summary returns income, expense and balance totals for a period.
// Without query parameters the period is the current calendar month.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("Failed to summarize transactions", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, summary)
}

// Trends returns per-month income and expense totals
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	months := defaultTrendMonths
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			RespondBadRequest(c, "Invalid months parameter")
			return
		}
		months = parsed
	}

	trends, err := h.analyticsService.MonthlyTrends(c.Request.Context(), months)
	if err != nil {
		h.logger.Error("Failed to compute monthly trends", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, trends)
}

// CategoryTrends returns per-category expense totals for a period
func (h *AnalyticsHandler) CategoryTrends(c *gin.Context) {
	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	totals, err := h.analyticsService.CategoryTotals(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("Failed to compute category totals", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, totals)
}

// parsePeriod reads the optional start/end query parameters, defaulting to
// the current calendar month. Responds 400 itself on malformed input.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if raw := c.Query("start"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid start parameter")
			return time.Time{}, time.Time{}, false
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid end parameter")
			return time.Time{}, time.Time{}, false
		}
		end = parsed
	}

	return start, end, true
}
