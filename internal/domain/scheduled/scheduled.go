package scheduled

import (
	"errors"
	"time"

	"github.com/expense-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	ErrInvalidInterval = errors.New("interval count must be positive")
	ErrInvalidUnit     = errors.New("invalid interval unit")
)

// IntervalUnit is the recurrence granularity of a scheduled transaction
type IntervalUnit string

const (
	IntervalDaily   IntervalUnit = "DAILY"
	IntervalWeekly  IntervalUnit = "WEEKLY"
	IntervalMonthly IntervalUnit = "MONTHLY"
	IntervalYearly  IntervalUnit = "YEARLY"
)

// ValidIntervalUnit reports whether u is a known interval unit
func ValidIntervalUnit(u IntervalUnit) bool {
	switch u {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

// ScheduledTransaction describes a recurring ledger entry. The recurrence
// is data only: evaluation into concrete transactions happens in a separate
// scheduling process, not here.
type ScheduledTransaction struct {
	ID            uuid.UUID        `json:"id"`
	Description   string           `json:"description"`
	Value         int64            `json:"value"` // Minor units
	Type          shared.EntryType `json:"type"`
	Category      string           `json:"category,omitempty"`
	IntervalUnit  IntervalUnit     `json:"interval_unit"`
	IntervalCount int              `json:"interval_count"`
	NextRun       time.Time        `json:"next_run"`
	Enabled       bool             `json:"enabled"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// New validates the recurrence fields and creates a scheduled transaction
func New(description string, value int64, entryType shared.EntryType, category string, unit IntervalUnit, count int, nextRun time.Time) (*ScheduledTransaction, error) {
	if description == "" {
		return nil, errors.New("description cannot be empty")
	}
	if value <= 0 {
		return nil, errors.New("value must be positive")
	}
	if !shared.ValidEntryType(entryType) {
		return nil, errors.New("invalid entry type")
	}
	if !ValidIntervalUnit(unit) {
		return nil, ErrInvalidUnit
	}
	if count <= 0 {
		return nil, ErrInvalidInterval
	}

	now := time.Now().UTC()
	return &ScheduledTransaction{
		ID:            uuid.New(),
		Description:   description,
		Value:         value,
		Type:          entryType,
		Category:      category,
		IntervalUnit:  unit,
		IntervalCount: count,
		NextRun:       nextRun,
		Enabled:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
