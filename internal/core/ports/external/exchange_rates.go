package external

import (
	"context"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSource fetches a live rate for one currency pair from an upstream API.
type RateSource interface {
	Name() string
	FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// RateCache stores fetched rates for a bounded time. Implementations must be safe
// for concurrent use; concurrent writes to the same key may race, last write wins.
type RateCache interface {
	Get(ctx context.Context, key string) (domain.CachedRate, bool, error)
	Set(ctx context.Context, key string, rate domain.CachedRate) error
	Stats(ctx context.Context) (domain.RateCacheStats, error)
	Clear(ctx context.Context) error
}
