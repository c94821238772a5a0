package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/service"
)

// BalanceReader exposes account snapshots for the HTTP layer.
type BalanceReader interface {
	AccountBalances() []service.AccountBalance
	AccountBalance(client ledger.ClientID) (service.AccountBalance, bool)
}

// AccountHandler handles HTTP requests for account balance queries
type AccountHandler struct {
	balances BalanceReader
	logger   *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, balances BalanceReader) *AccountHandler {
	return &AccountHandler{
		balances: balances,
		logger:   logger,
	}
}

// List returns every account's balances, sorted by client ID
func (h *AccountHandler) List(c *gin.Context) {
	RespondOK(c, AccountListResponse{Accounts: h.balances.AccountBalances()})
}

// GetByID returns one account's balances, 404 if the client is unknown
func (h *AccountHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 16)
	if err != nil {
		h.logger.Warn("invalid client id", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid client ID")
		return
	}

	balance, ok := h.balances.AccountBalance(ledger.ClientID(id))
	if !ok {
		RespondNotFound(c, "Account not found")
		return
	}

	RespondOK(c, balance)
}
