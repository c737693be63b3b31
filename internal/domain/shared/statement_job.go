package shared

import (
	"time"

	"github.com/google/uuid"
)

// StatementJob defines a Kafka message requesting statement processing
// for a registered import. The processor downloads the referenced object,
// parses it, and reconciles the parsed lines against the ledger.
type StatementJob struct {
	ImportID      uuid.UUID `json:"import_id"`
	FileURL       string    `json:"file_url"`
	ImportType    string    `json:"import_type"`
	PaymentMonth  string    `json:"payment_month,omitempty"`
	CorrelationID string    `json:"correlation_id"`
	Timestamp     time.Time `json:"timestamp"`
}
