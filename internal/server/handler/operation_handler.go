package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tx-dispute-ledger/internal/platform/messaging/producers"
	"github.com/tx-dispute-ledger/internal/server/middleware"
	"github.com/tx-dispute-ledger/internal/stream"
)

// OperationHandler accepts ledger operations over HTTP and publishes them to
// the operation topic. The stream processor applies them in publish order.
type OperationHandler struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewOperationHandler creates a new operation handler
func NewOperationHandler(logger *slog.Logger, producer producers.MessagePublisher) *OperationHandler {
	return &OperationHandler{
		producer: producer,
		logger:   logger,
	}
}

// Submit validates the operation syntactically and publishes it, responding
// 202: the ledger outcome (applied or guard-rejected) is decided by the
// processor, not the gateway.
func (h *OperationHandler) Submit(c *gin.Context) {
	var req SubmitOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	msg := stream.OperationMessage{
		Type:          req.Type,
		Client:        req.Client,
		Tx:            req.Tx,
		Amount:        req.Amount,
		CorrelationID: middleware.GetCorrelationID(c),
	}

	// Full syntactic validation before publishing, so the topic only ever
	// carries well-typed operations.
	if _, err := msg.ToOperation(); err != nil {
		h.logger.Warn("rejecting invalid operation", "error", err)
		RespondBadRequest(c, err.Error())
		return
	}

	// One key per client keeps a client's operations on one partition in
	// submission order.
	key := strconv.FormatUint(uint64(req.Client), 10)
	if err := h.producer.Publish(c.Request.Context(), key, msg); err != nil {
		h.logger.Error("failed to publish operation", "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, SubmitOperationResponse{
		Type:          req.Type,
		Client:        req.Client,
		Tx:            req.Tx,
		CorrelationID: msg.CorrelationID,
	})
}
