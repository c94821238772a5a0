package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tx-dispute-ledger/internal/command"
	"github.com/tx-dispute-ledger/internal/platform/messaging/producers"
)

// Submitter applies one well-typed operation to the ledger.
type Submitter interface {
	Submit(op command.Operation) (bool, error)
}

// OperationHandler handles incoming operation messages from Kafka.
// Undecodable or syntactically invalid messages go to the DLQ (when
// configured) and are committed; guard-rejected operations commit normally
// as benign no-ops.
type OperationHandler struct {
	service  Submitter
	producer producers.DeadLetterPublisher
	logger   *slog.Logger
}

// NewOperationHandler creates a new handler. producer may be nil (DLQ
// disabled).
func NewOperationHandler(logger *slog.Logger, service Submitter, producer producers.DeadLetterPublisher) *OperationHandler {
	return &OperationHandler{
		service:  service,
		producer: producer,
		logger:   logger,
	}
}

// HandleMessage processes one Kafka message. A nil return commits the
// offset.
func (h *OperationHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var msg OperationMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return h.reject(ctx, key, value, fmt.Errorf("unmarshal operation message: %w", err))
	}

	op, err := msg.ToOperation()
	if err != nil {
		return h.reject(ctx, key, value, fmt.Errorf("invalid operation message: %w", err))
	}

	logger := h.logger
	if msg.CorrelationID != "" {
		logger = h.logger.With("correlation_id", msg.CorrelationID)
	}

	applied, err := h.service.Submit(op)
	if err != nil {
		// Overflow: the single operation is abandoned with no state
		// change. Committing keeps the run moving, matching the
		// record-scoped error policy.
		logger.Error("operation failed",
			"kind", op.Kind,
			"client", op.Client,
			"tx", op.Tx,
			"error", err,
		)
		return nil
	}

	logger.Info("operation processed",
		"kind", op.Kind,
		"client", op.Client,
		"tx", op.Tx,
		"applied", applied,
	)
	return nil
}

// reject routes a malformed message to the DLQ. When the DLQ is disabled the
// error is returned so the message stays uncommitted.
func (h *OperationHandler) reject(ctx context.Context, key []byte, value []byte, cause error) error {
	h.logger.Error("rejecting malformed operation message", "key", string(key), "error", cause)

	if h.producer == nil {
		return cause
	}
	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, cause.Error()); dlqErr != nil {
		h.logger.Error("failed to publish message to dlq",
			"dlq_error", dlqErr,
			"original_error", cause,
			"key", string(key),
		)
		return cause
	}
	// Message handled, commit offset.
	return nil
}
