// Package report renders final account state for external consumption.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tx-dispute-ledger/internal/domain/ledger"
)

// WriteAccountsCSV writes every account as
// `client,available,held,total,locked`, sorted by client ID for reproducible
// output. Amounts carry exactly four fractional digits.
func WriteAccountsCSV(w io.Writer, engine *ledger.Engine) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for _, id := range engine.SortedClientIDs() {
		acc, ok := engine.Account(id)
		if !ok {
			continue
		}
		row := []string{
			strconv.FormatUint(uint64(id), 10),
			acc.Available.String(),
			acc.Held.String(),
			acc.Total().String(),
			strconv.FormatBool(acc.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write report row for client %d: %w", id, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
