package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerBalance returns the signed sum of the completed entries of one wallet.
// This is the value a wallet's stored balance must always equal.
func LedgerBalance(walletID string, txns []domain.LedgerTransaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		if t.WalletID == walletID && t.Status == domain.StatusCompleted {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// ValidateMovement checks that a set of balance changes and the log entries written
// with them agree: for every wallet touched, the summed deltas equal the summed
// amounts of its completed entries.
func ValidateMovement(changes []domain.BalanceChange, entries []domain.LedgerTransaction) error {
	if len(entries) == 0 {
		return fmt.Errorf("movement must write at least one transaction entry")
	}

	deltas := make(map[string]decimal.Decimal)
	for _, c := range changes {
		deltas[c.WalletID] = deltas[c.WalletID].Add(c.Delta)
	}
	logged := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Status == domain.StatusCompleted {
			logged[e.WalletID] = logged[e.WalletID].Add(e.Amount)
		}
	}

	walletIDs := make([]string, 0, len(deltas)+len(logged))
	for id := range deltas {
		walletIDs = append(walletIDs, id)
	}
	for id := range logged {
		if _, ok := deltas[id]; !ok {
			walletIDs = append(walletIDs, id)
		}
	}
	sort.Strings(walletIDs)

	for _, id := range walletIDs {
		if !deltas[id].Equal(logged[id]) {
			return fmt.Errorf("wallet %s: balance delta %s does not match logged amount %s",
				id, deltas[id].String(), logged[id].String())
		}
	}
	return nil
}
