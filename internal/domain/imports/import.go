package imports

import (
	"time"

	"github.com/google/uuid"
)

// ImportType identifies the card network a statement file came from
type ImportType string

const (
	ImportTypeVisa       ImportType = "VISA"
	ImportTypeMastercard ImportType = "MASTERCARD"
	ImportTypeAmex       ImportType = "AMEX"
	ImportTypeOther      ImportType = "OTHER"
)

// ValidImportType reports whether t is a known import type
func ValidImportType(t ImportType) bool {
	switch t {
	case ImportTypeVisa, ImportTypeMastercard, ImportTypeAmex, ImportTypeOther:
		return true
	}
	return false
}

// ImportStatus defines statement processing states. Transitions are
// monotonic and server-driven: PENDING -> PROCESSING -> COMPLETED | FAILED.
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "PENDING"
	ImportStatusProcessing ImportStatus = "PROCESSING"
	ImportStatusCompleted  ImportStatus = "COMPLETED"
	ImportStatusFailed     ImportStatus = "FAILED"
)

// Import represents one uploaded statement file and its processing record.
// Imports are never deleted; they remain as the audit trail of what was
// uploaded and when, even after every line item has been resolved.
type Import struct {
	ID                       uuid.UUID    `json:"id"`
	FileURL                  string       `json:"file_url"`
	OriginalFileName         string       `json:"original_file_name"`
	ImportType               ImportType   `json:"import_type"`
	Status                   ImportStatus `json:"status"`
	Error                    string       `json:"error,omitempty"`
	CreditCardLastFourDigits string       `json:"credit_card_last_four_digits,omitempty"`
	PaymentMonth             string       `json:"payment_month,omitempty"`
	CreatedAt                time.Time    `json:"created_at"`
	UpdatedAt                time.Time    `json:"updated_at"`
}

// NewImport creates a pending import for an uploaded statement object
func NewImport(fileURL, originalFileName string, importType ImportType, paymentMonth, lastFour string) (*Import, error) {
	if fileURL == "" {
		return nil, ErrEmptyFileURL
	}
	if !ValidImportType(importType) {
		return nil, ErrInvalidImportType
	}

	now := time.Now().UTC()
	return &Import{
		ID:                       uuid.New(),
		FileURL:                  fileURL,
		OriginalFileName:         originalFileName,
		ImportType:               importType,
		Status:                   ImportStatusPending,
		PaymentMonth:             paymentMonth,
		CreditCardLastFourDigits: lastFour,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}
