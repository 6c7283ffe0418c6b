package dto

import (
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FeeQuoteRequest asks for the fee a movement would incur without moving money.
type FeeQuoteRequest struct {
	Amount         decimal.Decimal      `json:"amount" binding:"required,gt=0"`
	Category       string               `json:"category" binding:"required"`
	Currency       string               `json:"currency" binding:"omitempty,len=3,alpha"`
	Tier           string               `json:"tier" binding:"omitempty,oneof=basic premium enterprise"`
	TargetCurrency string               `json:"targetCurrency" binding:"omitempty,len=3,alpha"`
	Overrides      *domain.FeeOverrides `json:"overrides"`
}

// FeeQuoteResponse carries the base fee and, when requested, the tiered and international variants.
type FeeQuoteResponse struct {
	Base          domain.FeeBreakdown               `json:"base"`
	Tiered        *domain.TieredFeeBreakdown        `json:"tiered,omitempty"`
	International *domain.InternationalFeeBreakdown `json:"international,omitempty"`
}

// BulkFeeItem is one line of a bulk quote.
type BulkFeeItem struct {
	Amount   decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Category string          `json:"category" binding:"required"`
	Currency string          `json:"currency" binding:"omitempty,len=3,alpha"`
}

// BulkFeeQuoteRequest asks for the discounted fee of several movements.
type BulkFeeQuoteRequest struct {
	Items []BulkFeeItem `json:"items" binding:"required,min=1,dive"`
}
