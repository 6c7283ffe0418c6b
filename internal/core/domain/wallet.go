package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Wallet is a per-owner, per-currency balance. It is the unit of mutation in the ledger.
type Wallet struct {
	WalletID          string          `json:"walletID"`
	OwnerID           string          `json:"ownerID"`
	CurrencyCode      string          `json:"currencyCode"` // Fixed at creation
	Balance           decimal.Decimal `json:"balance"`
	IsActive          bool            `json:"isActive"`
	Totals            WalletTotals    `json:"totals"`
	LastTransactionAt *time.Time      `json:"lastTransactionAt,omitempty"`
	Version           int64           `json:"version"` // Incremented on every balance change
	AuditFields
}

// WalletTotals are the running counters kept next to the balance.
type WalletTotals struct {
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Fees        decimal.Decimal `json:"fees"`
	Transfers   decimal.Decimal `json:"transfers"`
	Donations   decimal.Decimal `json:"donations"`
}

// Add returns the element-wise sum of two totals.
func (t WalletTotals) Add(o WalletTotals) WalletTotals {
	return WalletTotals{
		Deposits:    t.Deposits.Add(o.Deposits),
		Withdrawals: t.Withdrawals.Add(o.Withdrawals),
		Fees:        t.Fees.Add(o.Fees),
		Transfers:   t.Transfers.Add(o.Transfers),
		Donations:   t.Donations.Add(o.Donations),
	}
}

// BalanceChange is one conditional update of a wallet. Delta is signed; Totals holds
// the counter increments that go with it.
type BalanceChange struct {
	WalletID  string
	Delta     decimal.Decimal
	Totals    WalletTotals
	At        time.Time
	UpdatedBy string
}

// Apply mutates the wallet in place if the change keeps the balance non-negative.
// It never clamps: a change that would overdraw is rejected untouched.
func (w *Wallet) Apply(change BalanceChange) error {
	if !w.IsActive {
		return fmt.Errorf("%w: wallet %s", apperrors.ErrInactive, w.WalletID)
	}
	next := w.Balance.Add(change.Delta)
	if next.IsNegative() {
		return fmt.Errorf("%w: wallet %s balance %s cannot absorb %s",
			apperrors.ErrInsufficientFunds, w.WalletID, w.Balance.String(), change.Delta.String())
	}
	w.Balance = next
	w.Totals = w.Totals.Add(change.Totals)
	at := change.At
	w.LastTransactionAt = &at
	w.LastUpdatedAt = change.At
	w.LastUpdatedBy = change.UpdatedBy
	w.Version++
	return nil
}

// CanCover reports whether the wallet balance is at least amount.
func (w Wallet) CanCover(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// BalanceReconciliation compares a wallet's stored balance with the sum of its
// completed transaction log entries.
type BalanceReconciliation struct {
	WalletID      string          `json:"walletID"`
	StoredBalance decimal.Decimal `json:"storedBalance"`
	LedgerBalance decimal.Decimal `json:"ledgerBalance"`
	Difference    decimal.Decimal `json:"difference"`
	Balanced      bool            `json:"balanced"`
}
