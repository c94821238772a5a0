// Package stream adapts the Kafka operation feed to the ledger core.
package stream

import (
	"fmt"

	"github.com/tx-dispute-ledger/internal/command"
	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/domain/money"
)

// OperationMessage is the wire format of one ledger operation. Amount is a
// 4dp decimal string (absent for dispute/resolve/chargeback) so no client
// ever sends floating point.
type OperationMessage struct {
	Type          string `json:"type"`
	Client        uint16 `json:"client"`
	Tx            uint32 `json:"tx"`
	Amount        string `json:"amount,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// ToOperation validates the message syntactically and converts it to a
// normalized operation. Messages that fail here never reach the core; the
// caller routes them to the DLQ.
func (m OperationMessage) ToOperation() (command.Operation, error) {
	kind, err := command.ParseKind(m.Type)
	if err != nil {
		return command.Operation{}, err
	}

	op := command.Operation{
		Kind:   kind,
		Client: ledger.ClientID(m.Client),
		Tx:     ledger.TxID(m.Tx),
	}

	if kind.RequiresAmount() {
		if m.Amount == "" {
			return command.Operation{}, fmt.Errorf("%s requires an amount", kind)
		}
		amount, err := money.ParseAmount(m.Amount)
		if err != nil {
			return command.Operation{}, fmt.Errorf("invalid amount: %w", err)
		}
		if amount.IsNegative() {
			return command.Operation{}, fmt.Errorf("negative amount %s", amount)
		}
		op.Amount = &amount
	} else if m.Amount != "" {
		return command.Operation{}, fmt.Errorf("%s must not carry an amount", kind)
	}

	return op, nil
}
