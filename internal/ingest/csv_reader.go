// Package ingest turns external line-oriented transaction records into
// normalized operations, rejecting malformed input before it reaches the
// ledger core.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tx-dispute-ledger/internal/command"
	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/domain/money"
)

// ErrMissingHeader indicates input without the expected header row.
var ErrMissingHeader = errors.New("missing csv header")

// CSVReader reads `type,client,tx,amount` rows and yields one
// command.Operation per well-formed row, in input order. Malformed rows are
// logged and skipped; only a failure to read the underlying source at all is
// surfaced as an error.
type CSVReader struct {
	logger *slog.Logger
	reader *csv.Reader
	cols   map[string]int
	line   int
}

// NewCSVReader wraps r and consumes its header row.
func NewCSVReader(logger *slog.Logger, r io.Reader) (*CSVReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may omit the trailing amount column
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: no %q column", ErrMissingHeader, required)
		}
	}

	return &CSVReader{logger: logger, reader: cr, cols: cols, line: 1}, nil
}

// Next returns the next well-formed operation, io.EOF at end of input, or a
// read error. Malformed rows never surface: they are logged and skipped.
func (r *CSVReader) Next() (command.Operation, error) {
	for {
		row, err := r.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return command.Operation{}, io.EOF
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.line++
				r.logger.Warn("skipping malformed csv row", "line", r.line, "error", err)
				continue
			}
			return command.Operation{}, fmt.Errorf("read csv row: %w", err)
		}
		r.line++

		op, err := r.rowToOperation(row)
		if err != nil {
			r.logger.Warn("skipping invalid record", "line", r.line, "error", err)
			continue
		}
		return op, nil
	}
}

func (r *CSVReader) field(row []string, name string) (string, bool) {
	i, ok := r.cols[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

func (r *CSVReader) rowToOperation(row []string) (command.Operation, error) {
	rawKind, _ := r.field(row, "type")
	kind, err := command.ParseKind(strings.ToLower(rawKind))
	if err != nil {
		return command.Operation{}, err
	}

	rawClient, ok := r.field(row, "client")
	if !ok {
		return command.Operation{}, errors.New("missing client column")
	}
	clientID, err := strconv.ParseUint(rawClient, 10, 16)
	if err != nil {
		return command.Operation{}, fmt.Errorf("invalid client id %q: %w", rawClient, err)
	}

	rawTx, ok := r.field(row, "tx")
	if !ok {
		return command.Operation{}, errors.New("missing tx column")
	}
	txID, err := strconv.ParseUint(rawTx, 10, 32)
	if err != nil {
		return command.Operation{}, fmt.Errorf("invalid tx id %q: %w", rawTx, err)
	}

	op := command.Operation{
		Kind:   kind,
		Client: ledger.ClientID(clientID),
		Tx:     ledger.TxID(txID),
	}

	if kind.RequiresAmount() {
		rawAmount, ok := r.field(row, "amount")
		if !ok || rawAmount == "" {
			return command.Operation{}, fmt.Errorf("%s requires an amount", kind)
		}
		amount, err := money.ParseAmount(rawAmount)
		if err != nil {
			return command.Operation{}, fmt.Errorf("invalid amount: %w", err)
		}
		if amount.IsNegative() {
			return command.Operation{}, fmt.Errorf("negative amount %s", amount)
		}
		op.Amount = &amount
	}

	return op, nil
}
