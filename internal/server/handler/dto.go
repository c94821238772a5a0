package handler

import "github.com/tx-dispute-ledger/internal/service"

// SubmitOperationRequest represents a request to submit one ledger operation.
// Amount is a 4dp decimal string; it is required for deposit and withdrawal
// and must be absent otherwise.
type SubmitOperationRequest struct {
	Type   string `json:"type" binding:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount,omitempty"`
}

// SubmitOperationResponse acknowledges an accepted operation
type SubmitOperationResponse struct {
	Type          string `json:"type"`
	Client        uint16 `json:"client"`
	Tx            uint32 `json:"tx"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// AccountListResponse represents all account balances in API responses
type AccountListResponse struct {
	Accounts []service.AccountBalance `json:"accounts"`
}
