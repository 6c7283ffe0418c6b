package dto

import (
	"time"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// CreateWalletRequest defines the data needed to open a wallet for the authenticated owner.
type CreateWalletRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,alpha"`
}

// MoneyMovementRequest is the body of deposit and withdrawal calls.
type MoneyMovementRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description string          `json:"description" binding:"max=255"`
	Reference   string          `json:"reference" binding:"omitempty,max=128"` // Idempotency key
}

// WalletResponse defines the data returned for a wallet.
type WalletResponse struct {
	WalletID          string              `json:"walletID"`
	OwnerID           string              `json:"ownerID"`
	CurrencyCode      string              `json:"currencyCode"`
	Balance           decimal.Decimal     `json:"balance"`
	FormattedBalance  string              `json:"formattedBalance"`
	IsActive          bool                `json:"isActive"`
	Totals            domain.WalletTotals `json:"totals"`
	LastTransactionAt *time.Time          `json:"lastTransactionAt,omitempty"`
	Version           int64               `json:"version"`
	CreatedAt         time.Time           `json:"createdAt"`
	LastUpdatedAt     time.Time           `json:"lastUpdatedAt"`
}

// ToWalletResponse converts a domain.Wallet to WalletResponse DTO
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID:          w.WalletID,
		OwnerID:           w.OwnerID,
		CurrencyCode:      w.CurrencyCode,
		Balance:           w.Balance,
		FormattedBalance:  utils.FormatWithCurrencyPrecision(w.Balance, w.CurrencyCode),
		IsActive:          w.IsActive,
		Totals:            w.Totals,
		LastTransactionAt: w.LastTransactionAt,
		Version:           w.Version,
		CreatedAt:         w.CreatedAt,
		LastUpdatedAt:     w.LastUpdatedAt,
	}
}

// ToListWalletResponse converts a slice of domain.Wallet to a slice of WalletResponse DTOs
func ToListWalletResponse(wallets []domain.Wallet) []WalletResponse {
	res := make([]WalletResponse, len(wallets))
	for i := range wallets {
		res[i] = ToWalletResponse(&wallets[i])
	}
	return res
}

// WalletBalanceResponse defines the data returned for a balance query.
type WalletBalanceResponse struct {
	WalletID         string          `json:"walletID"`
	Balance          decimal.Decimal `json:"balance"`
	FormattedBalance string          `json:"formattedBalance"`
	CurrencyCode     string          `json:"currencyCode"`
}
