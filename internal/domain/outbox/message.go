package outbox

import (
	"encoding/json"
	"time"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Batch is the payload of an outbox message: the full set of parsed and
// matched lines for one import. The processor stores it atomically with the
// import row; the poller later publishes it to the reconciliation queue and
// flips the import to COMPLETED, so an import is never observed COMPLETED
// before its transactions exist.
type Batch struct {
	ImportID      uuid.UUID                      `json:"import_id"`
	CorrelationID string                         `json:"correlation_id,omitempty"`
	Transactions  []*imports.ImportedTransaction `json:"transactions"`
}

// Message stores a parsed statement batch for reliable publishing
type Message struct {
	ID            int64               `json:"id"`
	ImportID      uuid.UUID           `json:"import_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(batch *Batch) (*Message, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}

	return &Message{
		ImportID:  batch.ImportID,
		Payload:   payload,
		Status:    shared.OutboxStatusPending,
		Attempts:  0,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// GetBatch extracts the statement batch from the payload
func (m *Message) GetBatch() (*Batch, error) {
	var batch Batch
	if err := json.Unmarshal(m.Payload, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}
