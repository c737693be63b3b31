package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/expense-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// StatementJobProducer publishes statement parsing jobs from the API to the
// import processor. Writes are async; a failed upload only delays the import,
// it never loses the statement file itself.
type StatementJobProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates a new statement job producer and ensures the topic exists
func NewStatementJobProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*StatementJobProducer, error) {
	if cfg.StatementTopic == "" {
		return nil, fmt.Errorf("kafka statement topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for statement job producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.StatementTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure statement topic %s exists: %w", cfg.StatementTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.StatementTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.StatementTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.StatementTopic, "count", len(messages))
			}
		},
	}

	return &StatementJobProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.StatementTopic,
	}, nil
}

func (p *StatementJobProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal statement job message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish statement job",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish statement job to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published statement job",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *StatementJobProducer) Close() error {
	p.logger.Info("Closing statement job Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
