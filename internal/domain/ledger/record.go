package ledger

import "github.com/tx-dispute-ledger/internal/domain/money"

// TxKind distinguishes the two fund-moving transaction kinds.
type TxKind string

const (
	TxKindDeposit    TxKind = "DEPOSIT"
	TxKindWithdrawal TxKind = "WITHDRAWAL"
)

// DisputeState is the lifecycle of a recorded transaction:
// Normal -> Disputed -> Normal (resolve) or ChargedBack (terminal).
type DisputeState string

const (
	DisputeStateNormal      DisputeState = "NORMAL"
	DisputeStateDisputed    DisputeState = "DISPUTED"
	DisputeStateChargedBack DisputeState = "CHARGED_BACK"
)

// TxRecord is the immutable record of an applied deposit or withdrawal;
// only State transitions after creation. Records are never deleted during a
// run: they reject duplicate TxIDs and anchor later dispute-chain commands.
type TxRecord struct {
	Client ClientID
	Kind   TxKind
	Amount money.Amount
	State  DisputeState
}
