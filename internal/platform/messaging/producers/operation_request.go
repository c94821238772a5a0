package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/tx-dispute-ledger/internal/config"
)

// OperationMessageProducer publishes ledger operation messages to the
// operation topic. Messages are keyed by client so each client's operations
// stay on one partition in submission order.
type OperationMessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewOperationMessageProducer creates the producer and ensures the topic
// exists.
func NewOperationMessageProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*OperationMessageProducer, error) {
	if cfg.OperationTopic == "" {
		return nil, fmt.Errorf("kafka operation topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for operation producer: %w", err)
	}
	defer conn.Close()

	if err := createKafkaTopicIfNotExists(conn, cfg.OperationTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure operation topic %s exists: %w", cfg.OperationTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.OperationTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		// Synchronous writes: the gateway must not reorder operations.
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &OperationMessageProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.OperationTopic,
	}, nil
}

// Publish marshals value as JSON and writes it under key.
func (p *OperationMessageProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal operation message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish operation message to %s: %w", p.topic, err)
	}

	p.logger.Debug("published operation message", "topic", p.topic, "key", key)
	return nil
}

func (p *OperationMessageProducer) Close() error {
	p.logger.Info("closing operation kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close operation kafka writer: %w", err)
	}
	return nil
}
