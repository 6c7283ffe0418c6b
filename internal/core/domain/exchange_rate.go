package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSourceKind tells whether a quote was computed locally or fetched.
type RateSourceKind string

const (
	RateSourceInternal RateSourceKind = "internal"
	RateSourceExternal RateSourceKind = "external"
)

// CachedRate is the value stored in the exchange rate cache.
type CachedRate struct {
	Rate      decimal.Decimal `json:"rate"`
	Provider  string          `json:"provider"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// RateCacheKey is the cache key for an ordered currency pair.
func RateCacheKey(from, to string) string {
	return from + ":" + to
}

// RateQuote is a resolved rate for a currency pair.
type RateQuote struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Source    RateSourceKind  `json:"source"`
	Provider  string          `json:"provider,omitempty"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// Conversion is an amount converted between currencies, rounded to cents.
type Conversion struct {
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	Amount         decimal.Decimal `json:"amount"`
	Rate           decimal.Decimal `json:"rate"`
	From           string          `json:"from"`
	To             string          `json:"to"`
}

// RateCacheStats describes the cache for operators.
type RateCacheStats struct {
	Size int           `json:"size"`
	Keys []string      `json:"keys"`
	TTL  time.Duration `json:"ttl"`
}
