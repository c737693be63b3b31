package imports

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/domain/transaction"
	"github.com/google/uuid"
)

var (
	ErrEmptyFileURL      = errors.New("file URL cannot be empty")
	ErrInvalidImportType = errors.New("invalid import type")
)

// ImportedTransactionStatus defines reconciliation states for a parsed
// statement line. PENDING items await a human decision; APPROVED, MERGED
// and IGNORED are terminal.
type ImportedTransactionStatus string

const (
	ImportedTransactionStatusPending  ImportedTransactionStatus = "PENDING"
	ImportedTransactionStatusApproved ImportedTransactionStatus = "APPROVED"
	ImportedTransactionStatusMerged   ImportedTransactionStatus = "MERGED"
	ImportedTransactionStatusIgnored  ImportedTransactionStatus = "IGNORED"
)

// ImportedTransaction is one parsed line item from an Import awaiting a
// human reconciliation decision. MatchingTransaction is set only when the
// processor found a corresponding ledger transaction; its presence, not any
// later computation, decides whether the item can be merged or approved.
type ImportedTransaction struct {
	ID                    uuid.UUID                 `json:"id" bson:"_id"`
	ImportID              uuid.UUID                 `json:"import_id" bson:"import_id"`
	Description           string                    `json:"description" bson:"description"`
	Value                 int64                     `json:"value" bson:"value"` // Minor units
	Date                  time.Time                 `json:"date" bson:"date"`
	Type                  shared.EntryType          `json:"type" bson:"type"`
	Status                ImportedTransactionStatus `json:"status" bson:"status"`
	MatchingTransactionID *uuid.UUID                `json:"matching_transaction_id,omitempty" bson:"matching_transaction_id,omitempty"`
	MatchingTransaction   *transaction.Transaction  `json:"matching_transaction,omitempty" bson:"matching_transaction,omitempty"`
	RawData               json.RawMessage           `json:"raw_data,omitempty" bson:"raw_data,omitempty"`
	Deleted               bool                      `json:"deleted" bson:"deleted"`
	CreatedAt             time.Time                 `json:"created_at" bson:"created_at"`
	ResolvedAt            *time.Time                `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
}

// HasMatch reports whether the processor found a matching ledger transaction
func (t *ImportedTransaction) HasMatch() bool {
	return t.MatchingTransaction != nil
}

// CanApprove reports whether the item may be accepted as a new ledger
// transaction: it must still be pending and have no candidate match.
func (t *ImportedTransaction) CanApprove() bool {
	return t.Status == ImportedTransactionStatusPending && !t.HasMatch()
}

// CanMerge reports whether the item may be merged into its matched ledger
// transaction: it must still be pending and carry a candidate match.
func (t *ImportedTransaction) CanMerge() bool {
	return t.Status == ImportedTransactionStatusPending && t.HasMatch()
}

// CanIgnore reports whether the item may be rejected without ledger effect
func (t *ImportedTransaction) CanIgnore() bool {
	return t.Status == ImportedTransactionStatusPending
}

// CanDelete reports whether the item may be removed from the reconciliation
// queue. Only resolved items qualify; pending ones must be decided first.
func (t *ImportedTransaction) CanDelete() bool {
	return t.Status != ImportedTransactionStatusPending
}

// ErrInvalidTransition indicates a reconciliation action was requested for
// an item whose status or match presence does not allow it
type ErrInvalidTransition struct {
	ID     uuid.UUID
	Status ImportedTransactionStatus
	Action string
}

func (e ErrInvalidTransition) Error() string {
	return "imported transaction " + e.ID.String() + " in status " + string(e.Status) + " does not allow " + e.Action
}

// Is implements the errors.Is interface for ErrInvalidTransition
func (e ErrInvalidTransition) Is(target error) bool {
	t, ok := target.(ErrInvalidTransition)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
