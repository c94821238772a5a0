package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tx-dispute-ledger/internal/command"
	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/domain/money"
)

func TestStreamService_Submit(t *testing.T) {
	svc := NewStreamService(testLogger(), ledger.NewEngine())

	applied, err := svc.Submit(command.Operation{Kind: command.KindDeposit, Client: 1, Tx: 1, Amount: amountPtr(100_000)})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = svc.Submit(command.Operation{Kind: command.KindWithdrawal, Client: 1, Tx: 2, Amount: amountPtr(999_000)})
	require.NoError(t, err)
	assert.False(t, applied, "overdraft is a benign no-op")

	assert.Equal(t, Stats{Applied: 1, Skipped: 1}, svc.Stats())
}

func TestStreamService_AccountBalances(t *testing.T) {
	svc := NewStreamService(testLogger(), ledger.NewEngine())

	_, err := svc.Submit(command.Operation{Kind: command.KindDeposit, Client: 2, Tx: 1, Amount: amountPtr(25_000)})
	require.NoError(t, err)
	_, err = svc.Submit(command.Operation{Kind: command.KindDeposit, Client: 1, Tx: 2, Amount: amountPtr(100_000)})
	require.NoError(t, err)

	balances := svc.AccountBalances()
	require.Len(t, balances, 2)
	assert.EqualValues(t, 1, balances[0].Client, "sorted by client id")
	assert.Equal(t, "10.0000", balances[0].Available)
	assert.Equal(t, "2.5000", balances[1].Available)
	assert.Equal(t, "2.5000", balances[1].Total)

	balance, ok := svc.AccountBalance(2)
	require.True(t, ok)
	assert.Equal(t, "2.5000", balance.Available)
	assert.False(t, balance.Locked)

	_, ok = svc.AccountBalance(99)
	assert.False(t, ok)
}

func TestStreamService_ConcurrentReadsAndWrites(t *testing.T) {
	svc := NewStreamService(testLogger(), ledger.NewEngine())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		tx := ledger.TxID(i + 1)
		wg.Add(2)
		go func() {
			defer wg.Done()
			amt := money.Amount(10_000)
			_, _ = svc.Submit(command.Operation{Kind: command.KindDeposit, Client: 1, Tx: tx, Amount: &amt})
		}()
		go func() {
			defer wg.Done()
			_ = svc.AccountBalances()
		}()
	}
	wg.Wait()

	balance, ok := svc.AccountBalance(1)
	require.True(t, ok)
	assert.Equal(t, "50.0000", balance.Available)
	assert.Equal(t, Stats{Applied: 50}, svc.Stats())
}
