package service

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tx-dispute-ledger/internal/command"
	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/domain/money"
	"github.com/tx-dispute-ledger/internal/ingest"
	"github.com/tx-dispute-ledger/internal/report"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sliceSource yields a fixed operation sequence, then an optional error.
type sliceSource struct {
	ops []command.Operation
	err error
}

func (s *sliceSource) Next() (command.Operation, error) {
	if len(s.ops) == 0 {
		if s.err != nil {
			return command.Operation{}, s.err
		}
		return command.Operation{}, io.EOF
	}
	op := s.ops[0]
	s.ops = s.ops[1:]
	return op, nil
}

func amountPtr(v money.Amount) *money.Amount {
	return &v
}

func TestProcessor_Run(t *testing.T) {
	t.Run("CountsAppliedSkippedAndFailed", func(t *testing.T) {
		engine := ledger.NewEngine()
		engine.GetOrCreateAccount(9).Available = money.Amount(math.MaxInt64 - 1)

		src := &sliceSource{ops: []command.Operation{
			{Kind: command.KindDeposit, Client: 1, Tx: 1, Amount: amountPtr(100_000)},
			{Kind: command.KindWithdrawal, Client: 1, Tx: 2, Amount: amountPtr(999_000)}, // overdraft, skipped
			{Kind: command.KindDispute, Client: 1, Tx: 77},                               // unknown tx, skipped
			{Kind: command.KindDeposit, Client: 9, Tx: 3, Amount: amountPtr(10)},         // overflow, failed
			{Kind: command.KindWithdrawal, Client: 1, Tx: 4, Amount: amountPtr(40_000)},
		}}

		stats, err := NewProcessor(testLogger()).Run(engine, src)
		require.NoError(t, err)
		assert.Equal(t, Stats{Applied: 2, Skipped: 2, Failed: 1}, stats)

		acc, _ := engine.Account(1)
		assert.Equal(t, "6.0000", acc.Available.String())
	})

	t.Run("SourceFailureTerminatesRun", func(t *testing.T) {
		engine := ledger.NewEngine()
		readErr := errors.New("broken pipe")
		src := &sliceSource{
			ops: []command.Operation{{Kind: command.KindDeposit, Client: 1, Tx: 1, Amount: amountPtr(1)}},
			err: readErr,
		}

		stats, err := NewProcessor(testLogger()).Run(engine, src)
		assert.ErrorIs(t, err, readErr)
		assert.Equal(t, 1, stats.Applied, "operations before the failure still count")
	})
}

func TestProcessor_EndToEndCSV(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,1,1,10.0000\n" +
		"deposit,2,2,5.0000\n" +
		"withdrawal,1,3,4.0000\n" +
		"dispute,2,2\n" +
		"chargeback,2,2\n" +
		"deposit,2,4,100.0000\n" // locked, ignored

	src, err := ingest.NewCSVReader(testLogger(), strings.NewReader(input))
	require.NoError(t, err)

	engine := ledger.NewEngine()
	stats, err := NewProcessor(testLogger()).Run(engine, src)
	require.NoError(t, err)
	assert.Equal(t, Stats{Applied: 5, Skipped: 1}, stats)

	var sb strings.Builder
	require.NoError(t, report.WriteAccountsCSV(&sb, engine))

	want := "client,available,held,total,locked\n" +
		"1,6.0000,0.0000,6.0000,false\n" +
		"2,0.0000,0.0000,0.0000,true\n"
	assert.Equal(t, want, sb.String())
}
