package services

import (
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FeeCalculatorSvc computes fees. It is pure: no I/O and no mutable state.
type FeeCalculatorSvc interface {
	// CalculateFee computes the clamped fee for one amount.
	CalculateFee(amount decimal.Decimal, category domain.FeeCategory, currency string, overrides *domain.FeeOverrides) (*domain.FeeBreakdown, error)

	// CalculateBulkFee sums the fees of several items and applies the volume discount.
	CalculateBulkFee(items []domain.FeeRequest) (*domain.BulkFeeBreakdown, error)

	// CalculateTieredFee applies a pricing tier discount to the base fee.
	CalculateTieredFee(amount decimal.Decimal, category domain.FeeCategory, currency string, tier domain.PricingTier) (*domain.TieredFeeBreakdown, error)

	// CalculateInternationalFee adds the currency conversion fee to the base fee.
	CalculateInternationalFee(amount decimal.Decimal, category domain.FeeCategory, sourceCurrency, targetCurrency string) (*domain.InternationalFeeBreakdown, error)
}

// FeeValidatorSvc checks fee structures.
type FeeValidatorSvc interface {
	ValidateFeeStructure(structure domain.FeeStructure) bool
}

// FeeSvcFacade combines all fee-related service interfaces
type FeeSvcFacade interface {
	FeeCalculatorSvc
	FeeValidatorSvc
}
