package ledger

import (
	"iter"
	"sort"

	"github.com/tx-dispute-ledger/internal/domain/money"
)

// Engine owns the account and transaction-record collections for a run.
// It is single-threaded by design: callers must serialize access, because
// command semantics depend on exact application order.
//
// Every Apply* method returns (applied, err). A failed guard is a benign
// no-op: (false, nil), never an error. An overflow during a guard-passed
// mutation returns (false, money.ErrOverflow) and leaves the account exactly
// as it was before the call.
type Engine struct {
	accounts map[ClientID]*Account
	records  map[TxID]*TxRecord

	allowWithdrawalDisputes bool
}

// Option configures engine policy.
type Option func(*Engine)

// WithWithdrawalDisputes controls whether dispute commands may target
// withdrawal-kind transactions. The default is false: only deposits are
// disputable.
func WithWithdrawalDisputes(allow bool) Option {
	return func(e *Engine) {
		e.allowWithdrawalDisputes = allow
	}
}

// NewEngine creates an empty engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		accounts: make(map[ClientID]*Account),
		records:  make(map[TxID]*TxRecord),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetOrCreateAccount returns the account for client, creating a zeroed,
// unlocked one on first reference.
func (e *Engine) GetOrCreateAccount(client ClientID) *Account {
	acc, ok := e.accounts[client]
	if !ok {
		acc = &Account{}
		e.accounts[client] = acc
	}
	return acc
}

// Account returns the account for client without creating one.
func (e *Engine) Account(client ClientID) (*Account, bool) {
	acc, ok := e.accounts[client]
	return acc, ok
}

// Record returns the transaction record for tx, if any.
func (e *Engine) Record(tx TxID) (*TxRecord, bool) {
	rec, ok := e.records[tx]
	return rec, ok
}

// Accounts returns a restartable read-only iteration over all accounts.
// Iteration order is unspecified; use SortedClientIDs for deterministic
// output.
func (e *Engine) Accounts() iter.Seq2[ClientID, *Account] {
	return func(yield func(ClientID, *Account) bool) {
		for id, acc := range e.accounts {
			if !yield(id, acc) {
				return
			}
		}
	}
}

// SortedClientIDs returns all known client IDs in ascending order.
func (e *Engine) SortedClientIDs() []ClientID {
	ids := make([]ClientID, 0, len(e.accounts))
	for id := range e.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// locked reports whether the client has a locked account. The locked check
// is the first guard of every command: a locked account ignores everything.
func (e *Engine) locked(client ClientID) bool {
	acc, ok := e.accounts[client]
	return ok && acc.Locked
}

// ApplyDeposit credits amount to the client's available funds and records
// the transaction. No-ops when the account is locked or the TxID was seen
// before.
func (e *Engine) ApplyDeposit(client ClientID, tx TxID, amount money.Amount) (bool, error) {
	if e.locked(client) {
		return false, nil
	}
	if _, exists := e.records[tx]; exists {
		return false, nil
	}

	acc := e.GetOrCreateAccount(client)
	newAvailable, err := acc.Available.CheckedAdd(amount)
	if err != nil {
		return false, err
	}

	acc.Available = newAvailable
	e.records[tx] = &TxRecord{
		Client: client,
		Kind:   TxKindDeposit,
		Amount: amount,
		State:  DisputeStateNormal,
	}
	return true, nil
}

// ApplyWithdrawal debits amount from the client's available funds and
// records the transaction. No-ops when the account is locked, the TxID was
// seen before, or available funds are insufficient.
func (e *Engine) ApplyWithdrawal(client ClientID, tx TxID, amount money.Amount) (bool, error) {
	if e.locked(client) {
		return false, nil
	}
	if _, exists := e.records[tx]; exists {
		return false, nil
	}

	acc := e.GetOrCreateAccount(client)
	if acc.Available < amount {
		return false, nil
	}
	newAvailable, err := acc.Available.CheckedSub(amount)
	if err != nil {
		return false, err
	}

	acc.Available = newAvailable
	e.records[tx] = &TxRecord{
		Client: client,
		Kind:   TxKindWithdrawal,
		Amount: amount,
		State:  DisputeStateNormal,
	}
	return true, nil
}

// ApplyDispute moves the referenced transaction's amount from available to
// held and marks it Disputed. No-ops when the account is locked, the record
// is missing, owned by another client, not in Normal state, of a
// non-disputable kind, or when available funds cannot cover the amount.
func (e *Engine) ApplyDispute(client ClientID, tx TxID) (bool, error) {
	if e.locked(client) {
		return false, nil
	}
	rec, ok := e.records[tx]
	if !ok || rec.Client != client || rec.State != DisputeStateNormal {
		return false, nil
	}
	if rec.Kind == TxKindWithdrawal && !e.allowWithdrawalDisputes {
		return false, nil
	}

	acc := e.GetOrCreateAccount(client)
	if acc.Available < rec.Amount {
		return false, nil
	}
	newAvailable, err := acc.Available.CheckedSub(rec.Amount)
	if err != nil {
		return false, err
	}
	newHeld, err := acc.Held.CheckedAdd(rec.Amount)
	if err != nil {
		return false, err
	}

	acc.Available = newAvailable
	acc.Held = newHeld
	rec.State = DisputeStateDisputed
	return true, nil
}

// ApplyResolve releases a disputed transaction's amount from held back to
// available and returns the record to Normal. No-ops when the account is
// locked, the record is missing, owned by another client, or not Disputed.
func (e *Engine) ApplyResolve(client ClientID, tx TxID) (bool, error) {
	if e.locked(client) {
		return false, nil
	}
	rec, ok := e.records[tx]
	if !ok || rec.Client != client || rec.State != DisputeStateDisputed {
		return false, nil
	}

	acc := e.GetOrCreateAccount(client)
	if acc.Held < rec.Amount {
		return false, money.ErrOverflow
	}
	newHeld, err := acc.Held.CheckedSub(rec.Amount)
	if err != nil {
		return false, err
	}
	newAvailable, err := acc.Available.CheckedAdd(rec.Amount)
	if err != nil {
		return false, err
	}

	acc.Held = newHeld
	acc.Available = newAvailable
	rec.State = DisputeStateNormal
	return true, nil
}

// ApplyChargeback finalizes a dispute: the amount leaves held entirely, the
// record becomes ChargedBack (terminal), and the account is locked for the
// rest of the run. No-ops under the same guards as resolve.
func (e *Engine) ApplyChargeback(client ClientID, tx TxID) (bool, error) {
	if e.locked(client) {
		return false, nil
	}
	rec, ok := e.records[tx]
	if !ok || rec.Client != client || rec.State != DisputeStateDisputed {
		return false, nil
	}

	acc := e.GetOrCreateAccount(client)
	if acc.Held < rec.Amount {
		return false, money.ErrOverflow
	}
	newHeld, err := acc.Held.CheckedSub(rec.Amount)
	if err != nil {
		return false, err
	}

	acc.Held = newHeld
	acc.Locked = true
	rec.State = DisputeStateChargedBack
	return true, nil
}
