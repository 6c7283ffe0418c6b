package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// FeeCategory is the closed set of fee kinds the platform charges.
type FeeCategory int

const (
	FeeCategoryTransaction FeeCategory = iota + 1
	FeeCategoryWithdrawal
	FeeCategoryDeposit
	FeeCategoryTransfer
	FeeCategoryDonation
	FeeCategoryMonthlyMaintenance
	FeeCategoryCurrencyConversion
)

// AllFeeCategories lists every category in declaration order.
func AllFeeCategories() []FeeCategory {
	return []FeeCategory{
		FeeCategoryTransaction,
		FeeCategoryWithdrawal,
		FeeCategoryDeposit,
		FeeCategoryTransfer,
		FeeCategoryDonation,
		FeeCategoryMonthlyMaintenance,
		FeeCategoryCurrencyConversion,
	}
}

func (c FeeCategory) String() string {
	switch c {
	case FeeCategoryTransaction:
		return "transaction"
	case FeeCategoryWithdrawal:
		return "withdrawal"
	case FeeCategoryDeposit:
		return "deposit"
	case FeeCategoryTransfer:
		return "transfer"
	case FeeCategoryDonation:
		return "donation"
	case FeeCategoryMonthlyMaintenance:
		return "monthly_maintenance"
	case FeeCategoryCurrencyConversion:
		return "currency_conversion"
	}
	return fmt.Sprintf("FeeCategory(%d)", int(c))
}

// ParseFeeCategory maps the wire name of a category back to the enum.
func ParseFeeCategory(s string) (FeeCategory, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "_")
	for _, c := range AllFeeCategories() {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown fee category %q", apperrors.ErrValidation, s)
}

// FeeStructure defines how a fee is computed for one category.
type FeeStructure struct {
	Percentage  decimal.Decimal  `json:"percentage" validate:"gte=0,lte=1"`
	FixedAmount decimal.Decimal  `json:"fixedAmount" validate:"gte=0"`
	MinimumFee  decimal.Decimal  `json:"minimumFee" validate:"gte=0"`
	MaximumFee  *decimal.Decimal `json:"maximumFee,omitempty" validate:"omitempty,gte=0"`
	Currency    string           `json:"currency"`
}

// FeeOverrides replaces individual fields of a category's structure for one calculation.
type FeeOverrides struct {
	Percentage  *decimal.Decimal `json:"percentage,omitempty"`
	FixedAmount *decimal.Decimal `json:"fixedAmount,omitempty"`
	MinimumFee  *decimal.Decimal `json:"minimumFee,omitempty"`
	MaximumFee  *decimal.Decimal `json:"maximumFee,omitempty"`
}

// WithOverrides returns a copy of f with any set override applied.
func (f FeeStructure) WithOverrides(o *FeeOverrides) FeeStructure {
	if o == nil {
		return f
	}
	out := f
	if o.Percentage != nil {
		out.Percentage = *o.Percentage
	}
	if o.FixedAmount != nil {
		out.FixedAmount = *o.FixedAmount
	}
	if o.MinimumFee != nil {
		out.MinimumFee = *o.MinimumFee
	}
	if o.MaximumFee != nil {
		m := *o.MaximumFee
		out.MaximumFee = &m
	}
	return out
}

// FeeSchedule holds one structure per category. Values are copied on read, so a
// schedule handed to the fee engine cannot be changed underneath it.
type FeeSchedule struct {
	Transaction        FeeStructure
	Withdrawal         FeeStructure
	Deposit            FeeStructure
	Transfer           FeeStructure
	Donation           FeeStructure
	MonthlyMaintenance FeeStructure
	CurrencyConversion FeeStructure
}

// For returns the structure for category c.
func (s FeeSchedule) For(c FeeCategory) (FeeStructure, error) {
	var fs FeeStructure
	switch c {
	case FeeCategoryTransaction:
		fs = s.Transaction
	case FeeCategoryWithdrawal:
		fs = s.Withdrawal
	case FeeCategoryDeposit:
		fs = s.Deposit
	case FeeCategoryTransfer:
		fs = s.Transfer
	case FeeCategoryDonation:
		fs = s.Donation
	case FeeCategoryMonthlyMaintenance:
		fs = s.MonthlyMaintenance
	case FeeCategoryCurrencyConversion:
		fs = s.CurrencyConversion
	default:
		return FeeStructure{}, fmt.Errorf("%w: unknown fee category %s", apperrors.ErrValidation, c)
	}
	if fs.MaximumFee != nil {
		m := *fs.MaximumFee
		fs.MaximumFee = &m
	}
	return fs, nil
}

// Clone returns a deep copy of the schedule.
func (s FeeSchedule) Clone() FeeSchedule {
	out := s
	for _, fs := range []*FeeStructure{
		&out.Transaction, &out.Withdrawal, &out.Deposit, &out.Transfer,
		&out.Donation, &out.MonthlyMaintenance, &out.CurrencyConversion,
	} {
		if fs.MaximumFee != nil {
			m := *fs.MaximumFee
			fs.MaximumFee = &m
		}
	}
	return out
}

func feeStructure(pct, fixed, min, max string) FeeStructure {
	m := decimal.RequireFromString(max)
	return FeeStructure{
		Percentage:  decimal.RequireFromString(pct),
		FixedAmount: decimal.RequireFromString(fixed),
		MinimumFee:  decimal.RequireFromString(min),
		MaximumFee:  &m,
		Currency:    "USD",
	}
}

// DefaultFeeSchedule is the platform's standard fee table.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		Transaction:        feeStructure("0.029", "0.30", "0.30", "50"),
		Withdrawal:         feeStructure("0.015", "0.50", "0.50", "25"),
		Deposit:            feeStructure("0.01", "0", "0.05", "10"),
		Transfer:           feeStructure("0.02", "0.25", "0.25", "20"),
		Donation:           feeStructure("0.05", "0", "0.10", "100"),
		MonthlyMaintenance: feeStructure("0", "2.00", "2.00", "2.00"),
		CurrencyConversion: feeStructure("0.005", "0", "0.10", "50"),
	}
}

// FeeBreakdown is the result of one fee calculation.
type FeeBreakdown struct {
	Category      FeeCategory     `json:"-"`
	CategoryName  string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PercentageFee decimal.Decimal `json:"percentageFee"`
	FixedFee      decimal.Decimal `json:"fixedFee"`
	AdjustedFee   decimal.Decimal `json:"adjustedFee"` // Clamped into [min, max], rounded to cents
	Structure     FeeStructure    `json:"structure"`
}

// FeeRequest is one item of a bulk fee calculation.
type FeeRequest struct {
	Amount   decimal.Decimal
	Category FeeCategory
	Currency string
}

// BulkFeeBreakdown sums several fees and applies a volume discount.
type BulkFeeBreakdown struct {
	Items        []FeeBreakdown  `json:"items"`
	TotalFee     decimal.Decimal `json:"totalFee"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Discount     decimal.Decimal `json:"discount"`
	FinalFee     decimal.Decimal `json:"finalFee"`
}

// PricingTier is a customer plan that discounts fees.
type PricingTier string

const (
	TierBasic      PricingTier = "basic"
	TierPremium    PricingTier = "premium"
	TierEnterprise PricingTier = "enterprise"
)

// DiscountRate is the fraction taken off the base fee for the tier.
func (t PricingTier) DiscountRate() (decimal.Decimal, error) {
	switch t {
	case TierBasic:
		return decimal.Zero, nil
	case TierPremium:
		return decimal.RequireFromString("0.15"), nil
	case TierEnterprise:
		return decimal.RequireFromString("0.30"), nil
	}
	return decimal.Zero, fmt.Errorf("%w: unknown pricing tier %q", apperrors.ErrValidation, string(t))
}

// TieredFeeBreakdown is a base fee with a tier discount applied.
type TieredFeeBreakdown struct {
	Base         FeeBreakdown    `json:"base"`
	Tier         PricingTier     `json:"tier"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Discount     decimal.Decimal `json:"discount"`
	FinalFee     decimal.Decimal `json:"finalFee"`
}

// InternationalFeeBreakdown is a base fee plus the currency conversion fee.
type InternationalFeeBreakdown struct {
	Base           FeeBreakdown    `json:"base"`
	Conversion     FeeBreakdown    `json:"conversion"`
	SourceCurrency string          `json:"sourceCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	TotalFee       decimal.Decimal `json:"totalFee"`
}
