package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultSourceTimeout    = 5 * time.Second
	defaultBatchConcurrency = 8
)

// ExchangeRateService resolves rates through a cache backed by an ordered chain of sources.
type ExchangeRateService struct {
	BaseService
	cache            external.RateCache
	sources          []external.RateSource
	sourceTimeout    time.Duration
	cacheTTL         time.Duration
	batchConcurrency int
	group            singleflight.Group
	now              func() time.Time
}

// ExchangeRateOption configures an ExchangeRateService.
type ExchangeRateOption func(*ExchangeRateService)

// WithSourceTimeout bounds each upstream call.
func WithSourceTimeout(d time.Duration) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		if d > 0 {
			s.sourceTimeout = d
		}
	}
}

// WithCacheTTL is reported in cache stats; expiry itself belongs to the cache.
func WithCacheTTL(d time.Duration) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		s.cacheTTL = d
	}
}

// WithBatchConcurrency caps concurrent lookups in GetRatesBatch.
func WithBatchConcurrency(n int) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithRateMetrics attaches a metrics recorder.
func WithRateMetrics(r *metrics.Recorder) ExchangeRateOption {
	return func(s *ExchangeRateService) {
		s.Metrics = r
	}
}

// NewExchangeRateService creates a rate service. Sources are tried in the given order.
func NewExchangeRateService(cache external.RateCache, sources []external.RateSource, opts ...ExchangeRateOption) *ExchangeRateService {
	s := &ExchangeRateService{
		cache:            cache,
		sources:          sources,
		sourceTimeout:    defaultSourceTimeout,
		batchConcurrency: defaultBatchConcurrency,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)

// GetRate resolves from -> to.
func (s *ExchangeRateService) GetRate(ctx context.Context, from, to string) (*domain.RateQuote, error) {
	from, err := normalizeCurrencyCode(from)
	if err != nil {
		return nil, err
	}
	to, err = normalizeCurrencyCode(to)
	if err != nil {
		return nil, err
	}

	if from == to {
		s.Metrics.RateLookup("same_currency")
		return &domain.RateQuote{From: from, To: to, Rate: decimal.NewFromInt(1), Source: domain.RateSourceInternal, FetchedAt: s.now()}, nil
	}

	key := domain.RateCacheKey(from, to)
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.GetLogger(ctx).Warn("Rate cache read failed, treating as miss", slog.String("key", key), slog.String("error", err.Error()))
	}
	if ok {
		s.Metrics.RateLookup("cache_hit")
		return quoteFromCache(from, to, cached), nil
	}
	s.Metrics.RateLookup("cache_miss")

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.fetchFromSources(ctx, from, to)
	})
	if err != nil {
		return nil, err
	}
	return quoteFromCache(from, to, v.(domain.CachedRate)), nil
}

func quoteFromCache(from, to string, c domain.CachedRate) *domain.RateQuote {
	return &domain.RateQuote{
		From:      from,
		To:        to,
		Rate:      c.Rate,
		Source:    domain.RateSourceExternal,
		Provider:  c.Provider,
		FetchedAt: c.FetchedAt,
	}
}

func (s *ExchangeRateService) fetchFromSources(ctx context.Context, from, to string) (domain.CachedRate, error) {
	logger := s.GetLogger(ctx).With(slog.String("from", from), slog.String("to", to))
	var errs []error

	for _, src := range s.sources {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		rate, err := s.fetchOne(ctx, src, from, to)
		if err != nil {
			logger.Warn("Exchange rate source failed, trying next", slog.String("provider", src.Name()), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}

		cached := domain.CachedRate{Rate: rate, Provider: src.Name(), FetchedAt: s.now()}
		if err := s.cache.Set(ctx, domain.RateCacheKey(from, to), cached); err != nil {
			logger.Warn("Failed to cache exchange rate", slog.String("error", err.Error()))
		}
		logger.Debug("Exchange rate fetched", slog.String("provider", src.Name()), slog.String("rate", rate.String()))
		return cached, nil
	}

	s.Metrics.RateLookup("unavailable")
	return domain.CachedRate{}, fmt.Errorf("%w: no exchange rate source could price %s->%s: %v",
		apperrors.ErrServiceUnavailable, from, to, errors.Join(errs...))
}

func (s *ExchangeRateService) fetchOne(ctx context.Context, src external.RateSource, from, to string) (decimal.Decimal, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	started := time.Now()
	rate, err := src.FetchRate(callCtx, from, to)
	if err == nil && !rate.IsPositive() {
		err = fmt.Errorf("non-positive rate %s", rate.String())
	}
	if err != nil {
		s.Metrics.ProviderRequest(src.Name(), metrics.OutcomeError, started)
		return decimal.Zero, err
	}
	s.Metrics.ProviderRequest(src.Name(), metrics.OutcomeSuccess, started)
	return rate, nil
}

// Convert returns round2(amount * rate).
func (s *ExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*domain.Conversion, error) {
	if amount.IsNegative() {
		return nil, errValidationf("amount to convert must not be negative, got %s", amount.String())
	}
	quote, err := s.GetRate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &domain.Conversion{
		OriginalAmount: amount,
		Amount:         amount.Mul(quote.Rate).Round(2),
		Rate:           quote.Rate,
		From:           quote.From,
		To:             quote.To,
	}, nil
}

// GetRatesBatch resolves base against every target concurrently. A failed pair is
// logged and dropped; the batch itself only fails on an invalid base.
func (s *ExchangeRateService) GetRatesBatch(ctx context.Context, base string, targets []string) ([]domain.RateQuote, error) {
	base, err := normalizeCurrencyCode(base)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.RateQuote, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, target := range targets {
		g.Go(func() error {
			q, err := s.GetRate(gctx, base, target)
			if err != nil {
				s.GetLogger(ctx).Warn("Dropping pair from rate batch",
					slog.String("base", base), slog.String("target", target), slog.String("error", err.Error()))
				return nil
			}
			results[i] = q
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]domain.RateQuote, 0, len(targets))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes, nil
}

// CacheStats reports the cache size and keys.
func (s *ExchangeRateService) CacheStats(ctx context.Context) (*domain.RateCacheStats, error) {
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read rate cache stats", err)
	}
	if stats.TTL == 0 {
		stats.TTL = s.cacheTTL
	}
	return &stats, nil
}

// ClearCache drops every cached rate.
func (s *ExchangeRateService) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to clear rate cache", err)
	}
	s.LogInfo(ctx, "Exchange rate cache cleared")
	return nil
}
