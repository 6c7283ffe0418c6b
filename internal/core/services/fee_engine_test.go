package services_test

import (
	"testing"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

type FeeEngineTestSuite struct {
	suite.Suite
	engine *services.FeeEngine
}

func (suite *FeeEngineTestSuite) SetupTest() {
	suite.engine = services.NewFeeEngine(domain.DefaultFeeSchedule())
}

func (suite *FeeEngineTestSuite) TestCalculateFee_DefaultScenarios() {
	tests := []struct {
		name     string
		amount   string
		category domain.FeeCategory
		want     string
	}{
		{name: "deposit percentage wins", amount: "100", category: domain.FeeCategoryDeposit, want: "1"},
		{name: "deposit minimum applies", amount: "2", category: domain.FeeCategoryDeposit, want: "0.05"},
		{name: "deposit maximum applies", amount: "5000", category: domain.FeeCategoryDeposit, want: "10"},
		{name: "withdrawal pct plus fixed", amount: "50", category: domain.FeeCategoryWithdrawal, want: "1.25"},
		{name: "withdrawal capped", amount: "10000", category: domain.FeeCategoryWithdrawal, want: "25"},
		{name: "transfer pct plus fixed", amount: "50", category: domain.FeeCategoryTransfer, want: "1.25"},
		{name: "monthly maintenance is flat", amount: "1234", category: domain.FeeCategoryMonthlyMaintenance, want: "2"},
		{name: "rounded to cents", amount: "33.33", category: domain.FeeCategoryDonation, want: "1.67"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			b, err := suite.engine.CalculateFee(d(tt.amount), tt.category, "usd", nil)
			suite.Require().NoError(err)
			suite.True(d(tt.want).Equal(b.AdjustedFee), "got %s", b.AdjustedFee)
			suite.Equal("USD", b.Currency)
			suite.Equal(tt.category.String(), b.CategoryName)
		})
	}
}

func (suite *FeeEngineTestSuite) TestCalculateFee_RejectsNonPositiveAmount() {
	for _, amount := range []string{"0", "-10"} {
		_, err := suite.engine.CalculateFee(d(amount), domain.FeeCategoryDeposit, "USD", nil)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
}

func (suite *FeeEngineTestSuite) TestCalculateFee_Overrides() {
	b, err := suite.engine.CalculateFee(d("100"), domain.FeeCategoryTransfer, "USD", &domain.FeeOverrides{
		Percentage:  dp("0"),
		FixedAmount: dp("0"),
		MinimumFee:  dp("0"),
	})
	suite.Require().NoError(err)
	suite.True(b.AdjustedFee.IsZero())

	_, err = suite.engine.CalculateFee(d("100"), domain.FeeCategoryTransfer, "USD", &domain.FeeOverrides{Percentage: dp("1.5")})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FeeEngineTestSuite) TestCalculateFee_BoundsHoldAcrossAmounts() {
	schedule := domain.DefaultFeeSchedule()
	amounts := []string{"0.01", "0.5", "1", "9.99", "25", "100", "999.99", "12345.67", "1000000"}

	for _, c := range domain.AllFeeCategories() {
		fs, err := schedule.For(c)
		suite.Require().NoError(err)
		for _, a := range amounts {
			b, err := suite.engine.CalculateFee(d(a), c, "USD", nil)
			suite.Require().NoError(err)
			suite.True(b.AdjustedFee.GreaterThanOrEqual(fs.MinimumFee), "%s %s below minimum", c, a)
			suite.True(b.AdjustedFee.LessThanOrEqual(*fs.MaximumFee), "%s %s above maximum", c, a)

			raw := d(a).Mul(fs.Percentage).Add(fs.FixedAmount)
			if raw.LessThan(fs.MinimumFee) {
				suite.True(b.AdjustedFee.Equal(fs.MinimumFee), "%s %s should sit at the minimum", c, a)
			}
		}
	}
}

func (suite *FeeEngineTestSuite) TestCalculateBulkFee() {
	item := domain.FeeRequest{Amount: d("50"), Category: domain.FeeCategoryTransfer, Currency: "USD"}

	tests := []struct {
		count    int
		rate     string
		finalFee string
	}{
		{count: 1, rate: "0", finalFee: "1.25"},
		{count: 2, rate: "0", finalFee: "2.5"},
		{count: 3, rate: "0.05", finalFee: "3.56"}, // 3.75 - 0.19
		{count: 4, rate: "0.05", finalFee: "4.75"},
		{count: 5, rate: "0.1", finalFee: "5.62"}, // 6.25 - 0.63
	}
	for _, tt := range tests {
		items := make([]domain.FeeRequest, tt.count)
		for i := range items {
			items[i] = item
		}
		b, err := suite.engine.CalculateBulkFee(items)
		suite.Require().NoError(err)
		suite.True(d(tt.rate).Equal(b.DiscountRate), "count %d rate %s", tt.count, b.DiscountRate)
		suite.True(d(tt.finalFee).Equal(b.FinalFee), "count %d final %s", tt.count, b.FinalFee)
		suite.Len(b.Items, tt.count)
	}

	_, err := suite.engine.CalculateBulkFee(nil)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.engine.CalculateBulkFee([]domain.FeeRequest{item, {Amount: d("0"), Category: domain.FeeCategoryDeposit}})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FeeEngineTestSuite) TestCalculateTieredFee() {
	tests := []struct {
		tier     domain.PricingTier
		discount string
		final    string
	}{
		{tier: domain.TierBasic, discount: "0", final: "2.25"},
		{tier: domain.TierPremium, discount: "0.34", final: "1.91"},
		{tier: domain.TierEnterprise, discount: "0.68", final: "1.57"},
	}
	for _, tt := range tests {
		b, err := suite.engine.CalculateTieredFee(d("100"), domain.FeeCategoryTransfer, "USD", tt.tier)
		suite.Require().NoError(err)
		suite.True(b.Base.AdjustedFee.Equal(d("2.25")))
		suite.True(d(tt.discount).Equal(b.Discount), "tier %s discount %s", tt.tier, b.Discount)
		suite.True(d(tt.final).Equal(b.FinalFee), "tier %s final %s", tt.tier, b.FinalFee)
	}

	_, err := suite.engine.CalculateTieredFee(d("100"), domain.FeeCategoryTransfer, "USD", domain.PricingTier("gold"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FeeEngineTestSuite) TestCalculateInternationalFee() {
	b, err := suite.engine.CalculateInternationalFee(d("100"), domain.FeeCategoryTransfer, "usd", "eur")
	suite.Require().NoError(err)
	suite.Equal("USD", b.SourceCurrency)
	suite.Equal("EUR", b.TargetCurrency)
	suite.True(b.Base.AdjustedFee.Equal(d("2.25")))
	suite.True(b.Conversion.AdjustedFee.Equal(d("0.5")))
	suite.True(b.TotalFee.Equal(d("2.75")))

	same, err := suite.engine.CalculateInternationalFee(d("100"), domain.FeeCategoryTransfer, "USD", "USD")
	suite.Require().NoError(err)
	suite.True(same.Conversion.AdjustedFee.IsZero())
	suite.True(same.TotalFee.Equal(d("2.25")))
}

func (suite *FeeEngineTestSuite) TestValidateFeeStructure() {
	valid := domain.FeeStructure{Percentage: d("0.02"), FixedAmount: d("0.25"), MinimumFee: d("0.25"), MaximumFee: dp("20")}
	suite.True(suite.engine.ValidateFeeStructure(valid))

	noMax := valid
	noMax.MaximumFee = nil
	suite.True(suite.engine.ValidateFeeStructure(noMax))

	cases := map[string]domain.FeeStructure{
		"percentage above one":  {Percentage: d("1.01")},
		"negative percentage":   {Percentage: d("-0.1")},
		"negative fixed":        {FixedAmount: d("-1")},
		"negative minimum":      {MinimumFee: d("-0.5")},
		"maximum below minimum": {MinimumFee: d("5"), MaximumFee: dp("4")},
	}
	for name, fs := range cases {
		suite.False(suite.engine.ValidateFeeStructure(fs), name)
	}
}

func TestFeeEngineTestSuite(t *testing.T) {
	suite.Run(t, new(FeeEngineTestSuite))
}

func TestFeeEngine_ScheduleIsCopied(t *testing.T) {
	schedule := domain.DefaultFeeSchedule()
	engine := services.NewFeeEngine(schedule)

	*schedule.Deposit.MaximumFee = decimal.NewFromInt(1)

	b, err := engine.CalculateFee(d("5000"), domain.FeeCategoryDeposit, "USD", nil)
	require.NoError(t, err)
	assert.True(t, b.AdjustedFee.Equal(d("10")), "engine must not see later edits to the caller's schedule")
}
