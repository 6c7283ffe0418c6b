package dto

import (
	"time"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionResponse defines the data returned for a transaction log entry.
type TransactionResponse struct {
	TransactionID        string                   `json:"transactionID"`
	WalletID             string                   `json:"walletID"`
	Type                 domain.TransactionType   `json:"type"`
	Amount               decimal.Decimal          `json:"amount"`
	CurrencyCode         string                   `json:"currencyCode"`
	Fee                  decimal.Decimal          `json:"fee"`
	RelatedWalletID      string                   `json:"relatedWalletID,omitempty"`
	RelatedTransactionID string                   `json:"relatedTransactionID,omitempty"`
	Status               domain.TransactionStatus `json:"status"`
	Reference            string                   `json:"reference,omitempty"`
	PaymentIntentID      string                   `json:"paymentIntentID,omitempty"`
	PayoutID             string                   `json:"payoutID,omitempty"`
	Description          string                   `json:"description"`
	Metadata             map[string]string        `json:"metadata,omitempty"`
	CreatedAt            time.Time                `json:"createdAt"`
	CreatedBy            string                   `json:"createdBy"`
}

// ToTransactionResponse converts a domain.LedgerTransaction to TransactionResponse DTO
func ToTransactionResponse(t *domain.LedgerTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:        t.TransactionID,
		WalletID:             t.WalletID,
		Type:                 t.Type,
		Amount:               t.Amount,
		CurrencyCode:         t.CurrencyCode,
		Fee:                  t.Fee,
		RelatedWalletID:      t.RelatedWalletID,
		RelatedTransactionID: t.RelatedTransactionID,
		Status:               t.Status,
		Reference:            t.Reference,
		PaymentIntentID:      t.PaymentIntentID,
		PayoutID:             t.PayoutID,
		Description:          t.Description,
		Metadata:             t.Metadata,
		CreatedAt:            t.CreatedAt,
		CreatedBy:            t.CreatedBy,
	}
}

// ToListTransactionResponse converts a slice of domain.LedgerTransaction to DTOs
func ToListTransactionResponse(txns []domain.LedgerTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for a wallet's transaction history.
type ListTransactionsParams struct {
	Type      string  `form:"type" binding:"omitempty,oneof=deposit withdrawal transfer donation fee refund"`
	Status    string  `form:"status" binding:"omitempty,oneof=pending completed failed cancelled"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transaction history.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
