package ledger

import "github.com/tx-dispute-ledger/internal/domain/money"

// ClientID identifies an account holder. IDs are externally supplied and
// never generated by the engine.
type ClientID uint16

// TxID uniquely identifies a transaction across a whole run.
type TxID uint32

// Account holds the per-client balances. Total is always derived, never
// stored. Once Locked is true it never reverts.
type Account struct {
	Available money.Amount
	Held      money.Amount
	Locked    bool
}

// Total returns available + held.
func (a *Account) Total() money.Amount {
	return a.Available + a.Held
}
