package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of balance-affecting event a log entry records.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTransfer   TransactionType = "transfer"
	TransactionDonation   TransactionType = "donation"
	TransactionFee        TransactionType = "fee"
	TransactionRefund     TransactionType = "refund"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionTransfer,
		TransactionDonation, TransactionFee, TransactionRefund:
		return true
	}
	return false
}

// TransactionStatus is the lifecycle state of a log entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// IsValid reports whether s is a known transaction status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// LedgerTransaction is one append-only entry in the transaction log.
// Amount is signed from the wallet's point of view: credits are positive, debits negative.
type LedgerTransaction struct {
	TransactionID        string            `json:"transactionID"`
	WalletID             string            `json:"walletID"`
	Type                 TransactionType   `json:"type"`
	Amount               decimal.Decimal   `json:"amount"`
	CurrencyCode         string            `json:"currencyCode"`
	Fee                  decimal.Decimal   `json:"fee"`
	RelatedWalletID      string            `json:"relatedWalletID,omitempty"`      // Counterparty for transfers and donations
	RelatedTransactionID string            `json:"relatedTransactionID,omitempty"` // Other leg, or the original entry for refunds
	Status               TransactionStatus `json:"status"`
	Reference            string            `json:"reference,omitempty"` // Idempotency key, unique when set
	PaymentIntentID      string            `json:"paymentIntentID,omitempty"`
	PayoutID             string            `json:"payoutID,omitempty"`
	Description          string            `json:"description"`
	Metadata             map[string]string `json:"metadata,omitempty"`
	AuditFields
}

// IsDebit reports whether the entry takes money out of its wallet.
func (t LedgerTransaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// TransactionFilter narrows a transaction history listing.
type TransactionFilter struct {
	Type   *TransactionType
	Status *TransactionStatus
}

// Matches reports whether txn passes the filter.
func (f TransactionFilter) Matches(txn LedgerTransaction) bool {
	if f.Type != nil && txn.Type != *f.Type {
		return false
	}
	if f.Status != nil && txn.Status != *f.Status {
		return false
	}
	return true
}

// TransactionTypeStats aggregates the entries of one type.
type TransactionTypeStats struct {
	Type        TransactionType `json:"type"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalFees   decimal.Decimal `json:"totalFees"`
}

// TransactionStats aggregates a wallet's completed entries.
type TransactionStats struct {
	WalletID    string                 `json:"walletID"`
	ByType      []TransactionTypeStats `json:"byType"`
	TotalCount  int64                  `json:"totalCount"`
	TotalAmount decimal.Decimal        `json:"totalAmount"`
	TotalFees   decimal.Decimal        `json:"totalFees"`
}

// TransferResult describes a completed two-leg movement.
type TransferResult struct {
	Debit          LedgerTransaction `json:"debit"`
	Credit         LedgerTransaction `json:"credit"`
	Fee            decimal.Decimal   `json:"fee"`
	Rate           decimal.Decimal   `json:"rate"`
	CreditedAmount decimal.Decimal   `json:"creditedAmount"`
}
