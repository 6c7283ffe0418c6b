package models

import "github.com/shopspring/decimal"

// LedgerTransaction is the persisted form of a transaction log row. Optional
// text columns are NULL rather than empty so unique indexes skip them.
type LedgerTransaction struct {
	TransactionID        string            `db:"transaction_id"`
	WalletID             string            `db:"wallet_id"`
	Type                 string            `db:"txn_type"`
	Amount               decimal.Decimal   `db:"amount"` // Signed
	CurrencyCode         string            `db:"currency_code"`
	Fee                  decimal.Decimal   `db:"fee"`
	RelatedWalletID      *string           `db:"related_wallet_id"`
	RelatedTransactionID *string           `db:"related_transaction_id"`
	Status               string            `db:"status"`
	Reference            *string           `db:"reference"`
	PaymentIntentID      *string           `db:"payment_intent_id"`
	PayoutID             *string           `db:"payout_id"`
	Description          string            `db:"description"`
	Metadata             map[string]string `db:"metadata"` // JSONB
	AuditFields
}
