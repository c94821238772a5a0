// Package service coordinates feeding operation streams into ledger engines.
package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tx-dispute-ledger/internal/command"
	"github.com/tx-dispute-ledger/internal/domain/ledger"
)

// OperationSource supplies normalized operations one at a time, in the exact
// order they must be applied. It returns io.EOF when the sequence is
// exhausted; any other error is unrecoverable for the run.
type OperationSource interface {
	Next() (command.Operation, error)
}

// Stats counts the outcome of each operation in a run.
type Stats struct {
	Applied int
	Skipped int
	Failed  int
}

// Processor drains an operation source into a single engine sequentially.
// A guard-rejected operation is skipped, an operation that errors (overflow)
// is abandoned with no state change, and in both cases the run continues;
// only a source read failure terminates the run.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a processor.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{logger: logger}
}

// Run applies every operation from src to engine in order and returns the
// run statistics.
func (p *Processor) Run(engine *ledger.Engine, src OperationSource) (Stats, error) {
	var stats Stats
	for {
		op, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return stats, nil
			}
			return stats, fmt.Errorf("read operation: %w", err)
		}

		applied, err := command.Apply(engine, op)
		switch {
		case err != nil:
			stats.Failed++
			p.logger.Error("operation abandoned",
				"kind", op.Kind,
				"client", op.Client,
				"tx", op.Tx,
				"error", err,
			)
		case applied:
			stats.Applied++
		default:
			stats.Skipped++
			p.logger.Debug("operation ignored",
				"kind", op.Kind,
				"client", op.Client,
				"tx", op.Tx,
			)
		}
	}
}
