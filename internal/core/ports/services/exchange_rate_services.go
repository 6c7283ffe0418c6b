package services

import (
	"context"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc resolves rates and converts amounts.
type ExchangeRateReaderSvc interface {
	// GetRate resolves the rate from -> to. Same-currency pairs resolve to 1 without any lookup.
	GetRate(ctx context.Context, from, to string) (*domain.RateQuote, error)

	// Convert multiplies amount by the rate and rounds to cents.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*domain.Conversion, error)

	// GetRatesBatch resolves base -> each target. Pairs that fail are left out.
	GetRatesBatch(ctx context.Context, base string, targets []string) ([]domain.RateQuote, error)
}

// ExchangeRateCacheSvc exposes the rate cache for operators.
type ExchangeRateCacheSvc interface {
	CacheStats(ctx context.Context) (*domain.RateCacheStats, error)
	ClearCache(ctx context.Context) error
}

// ExchangeRateSvcFacade combines all exchange-rate service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateCacheSvc
}
