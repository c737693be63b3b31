package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/importer/service"
	"github.com/expense-ledger/internal/platform/messaging/producers"
)

// StatementEventHandler handles incoming statement job messages from Kafka
type StatementEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewStatementEventHandler creates a new handler
func NewStatementEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *StatementEventHandler {
	return &StatementEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes one Kafka message. Undecodable messages go to the
// DLQ and are acked; processing errors propagate so the offset stays
// uncommitted and the job is redelivered.
func (h *StatementEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var job shared.StatementJob
	if err := json.Unmarshal(value, &job); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal statement job from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if job.CorrelationID != "" {
		logger = h.logger.With("correlation_id", job.CorrelationID)
	}

	logger.Info("Received statement job",
		"import_id", job.ImportID.String(),
		"import_type", job.ImportType,
		"file_url", job.FileURL,
	)

	if err := h.processingService.ProcessStatement(ctx, &job); err != nil {
		logger.Error("Failed to process statement job",
			"import_id", job.ImportID.String(),
			"error", err,
		)
		return fmt.Errorf("processing statement for import %s failed: %w", job.ImportID.String(), err)
	}

	logger.Info("Statement job processed", "import_id", job.ImportID.String())
	return nil
}
