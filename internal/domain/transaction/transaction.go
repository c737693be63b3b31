package transaction

import (
	"errors"
	"time"

	"github.com/expense-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidValue     = errors.New("value must be positive")
	ErrInvalidType      = errors.New("invalid entry type")
)

// Transaction is the system-of-record income/expense entry. Created
// directly, via approval of an imported transaction, or amended via merge.
type Transaction struct {
	ID          uuid.UUID        `json:"id" bson:"id"`
	Description string           `json:"description" bson:"description"`
	Value       int64            `json:"value" bson:"value"` // Minor units
	Date        time.Time        `json:"date" bson:"date"`
	Type        shared.EntryType `json:"type" bson:"type"`
	Category    string           `json:"category,omitempty" bson:"category,omitempty"`
	Pending     bool             `json:"pending" bson:"pending"` // Awaiting user review
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" bson:"updated_at"`
}

// New validates the fields and creates a ledger transaction
func New(description string, value int64, date time.Time, entryType shared.EntryType, category string) (*Transaction, error) {
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if value <= 0 {
		return nil, ErrInvalidValue
	}
	if !shared.ValidEntryType(entryType) {
		return nil, ErrInvalidType
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:          uuid.New(),
		Description: description,
		Value:       value,
		Date:        date,
		Type:        entryType,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Summary aggregates ledger totals for a period
type Summary struct {
	TotalIncome  int64 `json:"total_income"`
	TotalExpense int64 `json:"total_expense"`
	Balance      int64 `json:"balance"`
	Count        int64 `json:"count"`
}

// TrendPoint is one month of aggregated spending
type TrendPoint struct {
	Month   string `json:"month"` // YYYY-MM
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// CategoryTotal is the aggregate spend for one category over a period
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
	Count    int64  `json:"count"`
}
