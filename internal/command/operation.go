// Package command defines the normalized operation type handed to the ledger
// core and the single dispatch point that applies it.
package command

import (
	"errors"
	"fmt"

	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/domain/money"
)

// Kind discriminates the five supported operations.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ErrUnknownKind indicates an operation kind outside the closed set.
var ErrUnknownKind = errors.New("unknown operation kind")

// ParseKind maps an external kind discriminator onto the closed set.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// RequiresAmount reports whether the kind carries a monetary amount.
func (k Kind) RequiresAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Operation is a well-typed, normalized inbound record. Amount is present
// for deposit and withdrawal, nil for the dispute-chain kinds. Syntactic
// validation happens before an Operation is constructed; the core only
// performs logical and state validation.
type Operation struct {
	Kind   Kind
	Client ledger.ClientID
	Tx     ledger.TxID
	Amount *money.Amount
}
