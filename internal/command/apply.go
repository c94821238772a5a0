package command

import (
	"github.com/tx-dispute-ledger/internal/domain/ledger"
)

// Apply dispatches one operation to the matching engine entry point.
//
// It mirrors the engine contract: (false, nil) is a benign no-op, an error
// means the single operation was abandoned with no state change. A deposit
// or withdrawal missing its amount, or carrying a negative one, is treated
// as a no-op here so it never reaches the engine.
func Apply(e *ledger.Engine, op Operation) (bool, error) {
	switch op.Kind {
	case KindDeposit:
		if op.Amount == nil || op.Amount.IsNegative() {
			return false, nil
		}
		return e.ApplyDeposit(op.Client, op.Tx, *op.Amount)
	case KindWithdrawal:
		if op.Amount == nil || op.Amount.IsNegative() {
			return false, nil
		}
		return e.ApplyWithdrawal(op.Client, op.Tx, *op.Amount)
	case KindDispute:
		return e.ApplyDispute(op.Client, op.Tx)
	case KindResolve:
		return e.ApplyResolve(op.Client, op.Tx)
	case KindChargeback:
		return e.ApplyChargeback(op.Client, op.Tx)
	default:
		return false, ErrUnknownKind
	}
}
