package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tx-dispute-ledger/internal/domain/ledger"
)

func TestBatchRunner_RunAll(t *testing.T) {
	runner, err := NewBatchRunner(testLogger(), 2)
	require.NoError(t, err)
	defer runner.Shutdown()

	t.Run("IndependentRunsDoNotShareState", func(t *testing.T) {
		inputA := "type,client,tx,amount\ndeposit,1,1,1.0000\n"
		// same client and tx ids as run A: must not collide across runs
		inputB := "type,client,tx,amount\ndeposit,1,1,2.0000\n"

		var outA, outB strings.Builder
		errs := runner.RunAll([]BatchJob{
			{Name: "a.csv", Input: strings.NewReader(inputA), Output: &outA},
			{Name: "b.csv", Input: strings.NewReader(inputB), Output: &outB},
		})
		require.Empty(t, errs)

		// nothing may precede the header on the report stream
		assert.True(t, strings.HasPrefix(outA.String(), "client,available,held,total,locked\n"))
		assert.Contains(t, outA.String(), "1,1.0000,0.0000,1.0000,false")
		assert.Contains(t, outB.String(), "1,2.0000,0.0000,2.0000,false")
	})

	t.Run("BadInputFailsOnlyItsJob", func(t *testing.T) {
		var out strings.Builder
		errs := runner.RunAll([]BatchJob{
			{Name: "empty.csv", Input: strings.NewReader(""), Output: &strings.Builder{}},
			{Name: "good.csv", Input: strings.NewReader("type,client,tx,amount\ndeposit,2,9,3.0000\n"), Output: &out},
		})
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "empty.csv")
		assert.Contains(t, out.String(), "2,3.0000,0.0000,3.0000,false")
	})
}

func TestBatchRunner_EngineOptions(t *testing.T) {
	runner, err := NewBatchRunner(testLogger(), 1, ledger.WithWithdrawalDisputes(true))
	require.NoError(t, err)
	defer runner.Shutdown()

	input := "type,client,tx,amount\n" +
		"deposit,1,1,10.0000\n" +
		"withdrawal,1,2,4.0000\n" +
		"dispute,1,2\n"

	var out strings.Builder
	errs := runner.RunAll([]BatchJob{{Name: "w.csv", Input: strings.NewReader(input), Output: &out}})
	require.Empty(t, errs)

	// withdrawal dispute applied: 6.0000 available -> 2.0000 available, 4.0000 held
	assert.Contains(t, out.String(), "1,2.0000,4.0000,6.0000,false")
}
