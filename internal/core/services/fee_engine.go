package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/utils/validation"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	bulkDiscountSmall = decimal.RequireFromString("0.05")
	bulkDiscountLarge = decimal.RequireFromString("0.10")
)

// FeeEngine computes bounded fees from an immutable fee schedule.
type FeeEngine struct {
	schedule  domain.FeeSchedule
	validator *validator.Validate
}

// NewFeeEngine creates a fee engine over schedule.
func NewFeeEngine(schedule domain.FeeSchedule) *FeeEngine {
	v := validator.New()
	validation.RegisterDecimalType(v)
	return &FeeEngine{schedule: schedule.Clone(), validator: v}
}

var _ portssvc.FeeSvcFacade = (*FeeEngine)(nil)

// CalculateFee returns clamp(percentage*amount + fixed, min, max) rounded to cents.
func (e *FeeEngine) CalculateFee(amount decimal.Decimal, category domain.FeeCategory, currency string, overrides *domain.FeeOverrides) (*domain.FeeBreakdown, error) {
	if !amount.IsPositive() {
		return nil, errValidationf("fee amount must be positive, got %s", amount.String())
	}

	structure, err := e.schedule.For(category)
	if err != nil {
		return nil, err
	}
	structure = structure.WithOverrides(overrides)
	if currency != "" {
		structure.Currency = strings.ToUpper(currency)
	}
	if !e.ValidateFeeStructure(structure) {
		return nil, errValidationf("invalid fee structure for category %s", category)
	}

	percentageFee := amount.Mul(structure.Percentage)
	fee := percentageFee.Add(structure.FixedAmount)
	if fee.LessThan(structure.MinimumFee) {
		fee = structure.MinimumFee
	}
	if structure.MaximumFee != nil && fee.GreaterThan(*structure.MaximumFee) {
		fee = *structure.MaximumFee
	}

	return &domain.FeeBreakdown{
		Category:      category,
		CategoryName:  category.String(),
		Amount:        amount,
		Currency:      structure.Currency,
		PercentageFee: percentageFee,
		FixedFee:      structure.FixedAmount,
		AdjustedFee:   fee.Round(2),
		Structure:     structure,
	}, nil
}

// CalculateBulkFee sums per-item fees and takes 5% off for 3-4 items, 10% for 5 or more.
func (e *FeeEngine) CalculateBulkFee(items []domain.FeeRequest) (*domain.BulkFeeBreakdown, error) {
	if len(items) == 0 {
		return nil, errValidationf("bulk fee calculation needs at least one item")
	}

	out := &domain.BulkFeeBreakdown{Items: make([]domain.FeeBreakdown, 0, len(items))}
	total := decimal.Zero
	for i, item := range items {
		b, err := e.CalculateFee(item.Amount, item.Category, item.Currency, nil)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out.Items = append(out.Items, *b)
		total = total.Add(b.AdjustedFee)
	}

	rate := decimal.Zero
	switch {
	case len(items) >= 5:
		rate = bulkDiscountLarge
	case len(items) >= 3:
		rate = bulkDiscountSmall
	}

	out.TotalFee = total
	out.DiscountRate = rate
	out.Discount = total.Mul(rate).Round(2)
	out.FinalFee = total.Sub(out.Discount)
	return out, nil
}

// CalculateTieredFee applies the tier discount after the base fee is clamped.
func (e *FeeEngine) CalculateTieredFee(amount decimal.Decimal, category domain.FeeCategory, currency string, tier domain.PricingTier) (*domain.TieredFeeBreakdown, error) {
	rate, err := tier.DiscountRate()
	if err != nil {
		return nil, err
	}
	base, err := e.CalculateFee(amount, category, currency, nil)
	if err != nil {
		return nil, err
	}

	discount := base.AdjustedFee.Mul(rate).Round(2)
	return &domain.TieredFeeBreakdown{
		Base:         *base,
		Tier:         tier,
		DiscountRate: rate,
		Discount:     discount,
		FinalFee:     base.AdjustedFee.Sub(discount),
	}, nil
}

// CalculateInternationalFee adds the currency conversion fee, charged in the source
// currency. Same-currency movements carry no conversion fee.
func (e *FeeEngine) CalculateInternationalFee(amount decimal.Decimal, category domain.FeeCategory, sourceCurrency, targetCurrency string) (*domain.InternationalFeeBreakdown, error) {
	src := strings.ToUpper(strings.TrimSpace(sourceCurrency))
	tgt := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if src == "" || tgt == "" {
		return nil, errValidationf("source and target currencies are required")
	}

	base, err := e.CalculateFee(amount, category, src, nil)
	if err != nil {
		return nil, err
	}

	conversion := domain.FeeBreakdown{
		Category:     domain.FeeCategoryCurrencyConversion,
		CategoryName: domain.FeeCategoryCurrencyConversion.String(),
		Amount:       amount,
		Currency:     src,
	}
	if src != tgt {
		c, err := e.CalculateFee(amount, domain.FeeCategoryCurrencyConversion, src, nil)
		if err != nil {
			return nil, err
		}
		conversion = *c
	}

	return &domain.InternationalFeeBreakdown{
		Base:           *base,
		Conversion:     conversion,
		SourceCurrency: src,
		TargetCurrency: tgt,
		TotalFee:       base.AdjustedFee.Add(conversion.AdjustedFee),
	}, nil
}

// ValidateFeeStructure checks percentage in [0,1], non-negative fixed and minimum
// amounts, and a maximum no lower than the minimum.
func (e *FeeEngine) ValidateFeeStructure(structure domain.FeeStructure) bool {
	if err := e.validator.Struct(structure); err != nil {
		return false
	}
	if structure.MaximumFee != nil && structure.MaximumFee.LessThan(structure.MinimumFee) {
		return false
	}
	return true
}
