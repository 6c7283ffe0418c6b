package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	amount := decimal.RequireFromString("12.3456")

	assert.Equal(t, "12.35", FormatWithCurrencyPrecision(amount, "USD"))
	assert.Equal(t, "12.35", FormatWithCurrencyPrecision(amount, "usd"))
	assert.Equal(t, "12", FormatWithCurrencyPrecision(amount, "JPY"))
	assert.Equal(t, "12.346", FormatWithCurrencyPrecision(amount, "BHD"))
	assert.Equal(t, "12.35", FormatWithCurrencyPrecision(amount, "???"))
	assert.Equal(t, "100.00", FormatWithCurrencyPrecision(decimal.NewFromInt(100), "EUR"))
}

func TestFormatWithPrecision(t *testing.T) {
	assert.Equal(t, "1.5000", FormatWithPrecision(decimal.RequireFromString("1.5"), 4))
}
