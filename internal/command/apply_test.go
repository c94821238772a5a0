package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/domain/money"
)

func amountPtr(v money.Amount) *money.Amount {
	return &v
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"deposit", "withdrawal", "dispute", "resolve", "chargeback"} {
		kind, err := ParseKind(valid)
		require.NoError(t, err)
		assert.Equal(t, Kind(valid), kind)
	}

	for _, invalid := range []string{"", "Deposit", "transfer", "chargeback "} {
		_, err := ParseKind(invalid)
		assert.ErrorIs(t, err, ErrUnknownKind, "input %q", invalid)
	}
}

func TestKind_RequiresAmount(t *testing.T) {
	assert.True(t, KindDeposit.RequiresAmount())
	assert.True(t, KindWithdrawal.RequiresAmount())
	assert.False(t, KindDispute.RequiresAmount())
	assert.False(t, KindResolve.RequiresAmount())
	assert.False(t, KindChargeback.RequiresAmount())
}

func TestApply(t *testing.T) {
	t.Run("DispatchesFullDisputeLifecycle", func(t *testing.T) {
		e := ledger.NewEngine()

		applied, err := Apply(e, Operation{Kind: KindDeposit, Client: 1, Tx: 1, Amount: amountPtr(100_000)})
		require.NoError(t, err)
		require.True(t, applied)

		applied, err = Apply(e, Operation{Kind: KindWithdrawal, Client: 1, Tx: 2, Amount: amountPtr(30_000)})
		require.NoError(t, err)
		require.True(t, applied)

		applied, err = Apply(e, Operation{Kind: KindDispute, Client: 1, Tx: 1})
		require.NoError(t, err)
		require.True(t, applied)

		applied, err = Apply(e, Operation{Kind: KindResolve, Client: 1, Tx: 1})
		require.NoError(t, err)
		require.True(t, applied)

		applied, err = Apply(e, Operation{Kind: KindDispute, Client: 1, Tx: 1})
		require.NoError(t, err)
		require.True(t, applied)

		applied, err = Apply(e, Operation{Kind: KindChargeback, Client: 1, Tx: 1})
		require.NoError(t, err)
		require.True(t, applied)

		acc, ok := e.Account(1)
		require.True(t, ok)
		assert.Equal(t, "0.0000", acc.Available.String())
		assert.True(t, acc.Locked)
	})

	t.Run("MissingAmountIsNoOp", func(t *testing.T) {
		e := ledger.NewEngine()

		applied, err := Apply(e, Operation{Kind: KindDeposit, Client: 1, Tx: 1})
		require.NoError(t, err)
		assert.False(t, applied)

		_, ok := e.Record(1)
		assert.False(t, ok)
	})

	t.Run("NegativeAmountIsNoOp", func(t *testing.T) {
		e := ledger.NewEngine()

		applied, err := Apply(e, Operation{Kind: KindWithdrawal, Client: 1, Tx: 1, Amount: amountPtr(-5_000)})
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("UnknownKindErrors", func(t *testing.T) {
		e := ledger.NewEngine()

		_, err := Apply(e, Operation{Kind: Kind("transfer"), Client: 1, Tx: 1})
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}
