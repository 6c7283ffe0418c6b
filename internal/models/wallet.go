package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the persisted form of a wallet row.
type Wallet struct {
	WalletID          string          `db:"wallet_id"`
	OwnerID           string          `db:"owner_id"`
	CurrencyCode      string          `db:"currency_code"`
	Balance           decimal.Decimal `db:"balance"` // CHECK (balance >= 0)
	IsActive          bool            `db:"is_active"`
	TotalDeposits     decimal.Decimal `db:"total_deposits"`
	TotalWithdrawals  decimal.Decimal `db:"total_withdrawals"`
	TotalFees         decimal.Decimal `db:"total_fees"`
	TotalTransfers    decimal.Decimal `db:"total_transfers"`
	TotalDonations    decimal.Decimal `db:"total_donations"`
	LastTransactionAt *time.Time      `db:"last_transaction_at"`
	Version           int64           `db:"version"`
	AuditFields
}
