package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is the persisted form of a donation row.
type Donation struct {
	DonationID          string          `db:"donation_id"`
	DonorWalletID       string          `db:"donor_wallet_id"`
	RecipientOwnerID    string          `db:"recipient_owner_id"`
	Amount              decimal.Decimal `db:"amount"`
	CurrencyCode        string          `db:"currency_code"`
	Message             string          `db:"message"`
	Status              string          `db:"status"`
	FailureReason       *string         `db:"failure_reason"`
	CompletedAt         *time.Time      `db:"completed_at"`
	CancelledAt         *time.Time      `db:"cancelled_at"`
	DebitTransactionID  *string         `db:"debit_transaction_id"`
	CreditTransactionID *string         `db:"credit_transaction_id"`
	AuditFields
}
