package dto

import (
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest moves money between two wallets.
type TransferRequest struct {
	FromWalletID string          `json:"fromWalletID" binding:"required"`
	ToWalletID   string          `json:"toWalletID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description  string          `json:"description" binding:"max=255"`
	Reference    string          `json:"reference" binding:"omitempty,max=128"`
}

// DonateRequest moves money from a wallet to another owner's wallet in the same currency.
type DonateRequest struct {
	FromWalletID string          `json:"fromWalletID" binding:"required"`
	ToOwnerID    string          `json:"toOwnerID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description  string          `json:"description" binding:"max=255"`
	Reference    string          `json:"reference" binding:"omitempty,max=128"`
}

// ChargeFeeRequest debits a platform fee computed for a category.
type ChargeFeeRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
	Reference   string          `json:"reference" binding:"omitempty,max=128"`
}

// RefundRequest reverses a completed entry. Refund references are derived from the
// refunded entry, so a second refund of the same entry is rejected.
type RefundRequest struct {
	Description string `json:"description" binding:"max=255"`
}

// TransferResponse defines the data returned for a two-leg movement.
type TransferResponse struct {
	Debit          TransactionResponse `json:"debit"`
	Credit         TransactionResponse `json:"credit"`
	Fee            decimal.Decimal     `json:"fee"`
	Rate           decimal.Decimal     `json:"rate"`
	CreditedAmount decimal.Decimal     `json:"creditedAmount"`
}

// ToTransferResponse converts a domain.TransferResult to TransferResponse DTO
func ToTransferResponse(r *domain.TransferResult) TransferResponse {
	return TransferResponse{
		Debit:          ToTransactionResponse(&r.Debit),
		Credit:         ToTransactionResponse(&r.Credit),
		Fee:            r.Fee,
		Rate:           r.Rate,
		CreditedAmount: r.CreditedAmount,
	}
}
