package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/domain/money"
)

func TestWriteAccountsCSV(t *testing.T) {
	t.Run("EmptyEngine", func(t *testing.T) {
		var sb strings.Builder
		err := WriteAccountsCSV(&sb, ledger.NewEngine())
		require.NoError(t, err)
		assert.Equal(t, "client,available,held,total,locked\n", sb.String())
	})

	t.Run("SortedByClientWithFourDecimalDigits", func(t *testing.T) {
		e := ledger.NewEngine()
		_, err := e.ApplyDeposit(3, 1, money.Amount(15_000))
		require.NoError(t, err)
		_, err = e.ApplyDeposit(1, 2, money.Amount(100_000))
		require.NoError(t, err)
		_, err = e.ApplyDeposit(2, 3, money.Amount(42))
		require.NoError(t, err)

		// dispute + chargeback leaves client 2 locked
		_, err = e.ApplyDispute(2, 3)
		require.NoError(t, err)
		_, err = e.ApplyChargeback(2, 3)
		require.NoError(t, err)

		var sb strings.Builder
		require.NoError(t, WriteAccountsCSV(&sb, e))

		want := "client,available,held,total,locked\n" +
			"1,10.0000,0.0000,10.0000,false\n" +
			"2,0.0000,0.0000,0.0000,true\n" +
			"3,1.5000,0.0000,1.5000,false\n"
		assert.Equal(t, want, sb.String())
	})
}
