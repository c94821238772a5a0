package service

import (
	"log/slog"
	"sync"

	"github.com/tx-dispute-ledger/internal/command"
	"github.com/tx-dispute-ledger/internal/domain/ledger"
)

// AccountBalance is a point-in-time snapshot of one account, amounts
// rendered with four fractional digits.
type AccountBalance struct {
	Client    ledger.ClientID `json:"client"`
	Available string          `json:"available"`
	Held      string          `json:"held"`
	Total     string          `json:"total"`
	Locked    bool            `json:"locked"`
}

// StreamService exposes one engine to concurrent callers in the streaming
// deployment. The engine itself stays single-threaded: all writes funnel
// through Submit under an exclusive lock, so operations are applied in
// submission order; reads take a shared lock and return copies.
type StreamService struct {
	logger *slog.Logger

	mu     sync.RWMutex
	engine *ledger.Engine
	stats  Stats
}

// NewStreamService wraps engine for streaming use.
func NewStreamService(logger *slog.Logger, engine *ledger.Engine) *StreamService {
	return &StreamService{logger: logger, engine: engine}
}

// Submit applies one operation. The (applied, err) contract matches
// command.Apply: guard rejections are (false, nil) and never fail the
// stream.
func (s *StreamService) Submit(op command.Operation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied, err := command.Apply(s.engine, op)
	switch {
	case err != nil:
		s.stats.Failed++
		s.logger.Error("operation abandoned",
			"kind", op.Kind,
			"client", op.Client,
			"tx", op.Tx,
			"error", err,
		)
	case applied:
		s.stats.Applied++
	default:
		s.stats.Skipped++
		s.logger.Debug("operation ignored",
			"kind", op.Kind,
			"client", op.Client,
			"tx", op.Tx,
		)
	}
	return applied, err
}

// Stats returns the running outcome counters.
func (s *StreamService) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// AccountBalances returns every account sorted by client ID.
func (s *StreamService) AccountBalances() []AccountBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.engine.SortedClientIDs()
	balances := make([]AccountBalance, 0, len(ids))
	for _, id := range ids {
		acc, ok := s.engine.Account(id)
		if !ok {
			continue
		}
		balances = append(balances, snapshotAccount(id, acc))
	}
	return balances
}

// AccountBalance returns a single account snapshot, if the client is known.
func (s *StreamService) AccountBalance(client ledger.ClientID) (AccountBalance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.engine.Account(client)
	if !ok {
		return AccountBalance{}, false
	}
	return snapshotAccount(client, acc), true
}

func snapshotAccount(id ledger.ClientID, acc *ledger.Account) AccountBalance {
	return AccountBalance{
		Client:    id,
		Available: acc.Available.String(),
		Held:      acc.Held.String(),
		Total:     acc.Total().String(),
		Locked:    acc.Locked,
	}
}
