package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/donation_ledger/internal/adapters/ratecache"
	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	"github.com/SscSPs/donation_ledger/internal/core/services"
	"github.com/SscSPs/donation_ledger/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
	name string
}

func (m *MockRateSource) Name() string { return m.name }

func (m *MockRateSource) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// slowSource blocks until its context is cancelled.
type slowSource struct{}

func (slowSource) Name() string { return "slow" }

func (slowSource) FetchRate(ctx context.Context, _, _ string) (decimal.Decimal, error) {
	<-ctx.Done()
	return decimal.Zero, ctx.Err()
}

// countingSource counts calls and answers after a short delay.
type countingSource struct {
	calls atomic.Int32
	rate  decimal.Decimal
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) FetchRate(context.Context, string, string) (decimal.Decimal, error) {
	s.calls.Add(1)
	time.Sleep(20 * time.Millisecond)
	return s.rate, nil
}

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	primary   *MockRateSource
	secondary *MockRateSource
	cache     *ratecache.MemoryCache
	recorder  *metrics.Recorder
	service   *services.ExchangeRateService
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.primary = &MockRateSource{name: "primary"}
	suite.secondary = &MockRateSource{name: "secondary"}
	suite.cache = ratecache.NewMemoryCache(100, time.Minute)
	suite.recorder = metrics.NewRecorder()
	suite.service = services.NewExchangeRateService(
		suite.cache,
		[]external.RateSource{suite.primary, suite.secondary},
		services.WithSourceTimeout(100*time.Millisecond),
		services.WithCacheTTL(time.Minute),
		services.WithRateMetrics(suite.recorder),
	)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_SameCurrency() {
	quote, err := suite.service.GetRate(context.Background(), "usd", "USD")

	suite.Require().NoError(err)
	suite.True(quote.Rate.Equal(decimal.NewFromInt(1)))
	suite.Equal(domain.RateSourceInternal, quote.Source)
	suite.primary.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)

	stats, _ := suite.service.CacheStats(context.Background())
	suite.Zero(stats.Size)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_InvalidCode() {
	_, err := suite.service.GetRate(context.Background(), "US", "EUR")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.GetRate(context.Background(), "USD", "ZZZ")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_FetchesThenCaches() {
	suite.primary.On("FetchRate", mock.Anything, "USD", "EUR").Return(d("0.92"), nil).Once()

	first, err := suite.service.GetRate(context.Background(), "usd", "eur")
	suite.Require().NoError(err)
	suite.Equal("0.92", first.Rate.String())
	suite.Equal(domain.RateSourceExternal, first.Source)
	suite.Equal("primary", first.Provider)

	second, err := suite.service.GetRate(context.Background(), "USD", "EUR")
	suite.Require().NoError(err)
	suite.True(first.Rate.Equal(second.Rate))
	suite.primary.AssertNumberOfCalls(suite.T(), "FetchRate", 1)

	stats, err := suite.service.CacheStats(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]string{"USD:EUR"}, stats.Keys)
	suite.Equal(time.Minute, stats.TTL)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_FallsBackInOrder() {
	suite.primary.On("FetchRate", mock.Anything, "USD", "GBP").Return(decimal.Zero, errors.New("quota exceeded"))
	suite.secondary.On("FetchRate", mock.Anything, "USD", "GBP").Return(d("0.79"), nil)

	quote, err := suite.service.GetRate(context.Background(), "USD", "GBP")

	suite.Require().NoError(err)
	suite.Equal("secondary", quote.Provider)
	suite.Equal("0.79", quote.Rate.String())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_NonPositiveRateIsFailure() {
	suite.primary.On("FetchRate", mock.Anything, "USD", "GBP").Return(decimal.Zero, nil)
	suite.secondary.On("FetchRate", mock.Anything, "USD", "GBP").Return(d("0.79"), nil)

	quote, err := suite.service.GetRate(context.Background(), "USD", "GBP")

	suite.Require().NoError(err)
	suite.Equal("secondary", quote.Provider)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_AllSourcesFail() {
	suite.primary.On("FetchRate", mock.Anything, "USD", "JPY").Return(decimal.Zero, errors.New("down"))
	suite.secondary.On("FetchRate", mock.Anything, "USD", "JPY").Return(decimal.Zero, errors.New("also down"))

	_, err := suite.service.GetRate(context.Background(), "USD", "JPY")

	suite.ErrorIs(err, apperrors.ErrServiceUnavailable)
	suite.ErrorContains(err, "also down")
	stats, _ := suite.service.CacheStats(context.Background())
	suite.Zero(stats.Size)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert() {
	suite.primary.On("FetchRate", mock.Anything, "USD", "EUR").Return(d("0.9213"), nil)

	conv, err := suite.service.Convert(context.Background(), d("10.555"), "USD", "EUR")

	suite.Require().NoError(err)
	suite.Equal("9.72", conv.Amount.StringFixed(2))
	suite.Equal("EUR", conv.To)

	_, err = suite.service.Convert(context.Background(), d("-1"), "USD", "EUR")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRatesBatch_DropsFailedPairs() {
	suite.primary.On("FetchRate", mock.Anything, "USD", "EUR").Return(d("0.92"), nil)
	suite.primary.On("FetchRate", mock.Anything, "USD", "JPY").Return(decimal.Zero, errors.New("down"))
	suite.secondary.On("FetchRate", mock.Anything, "USD", "JPY").Return(decimal.Zero, errors.New("down"))
	suite.primary.On("FetchRate", mock.Anything, "USD", "GBP").Return(d("0.79"), nil)

	quotes, err := suite.service.GetRatesBatch(context.Background(), "USD", []string{"EUR", "USD", "JPY", "GBP"})

	suite.Require().NoError(err)
	suite.Require().Len(quotes, 3)
	suite.Equal("EUR", quotes[0].To)
	suite.Equal("USD", quotes[1].To)
	suite.Equal(domain.RateSourceInternal, quotes[1].Source)
	suite.Equal("GBP", quotes[2].To)
}

func (suite *ExchangeRateServiceTestSuite) TestClearCache() {
	suite.primary.On("FetchRate", mock.Anything, "USD", "EUR").Return(d("0.92"), nil).Twice()

	_, err := suite.service.GetRate(context.Background(), "USD", "EUR")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.service.ClearCache(context.Background()))
	_, err = suite.service.GetRate(context.Background(), "USD", "EUR")
	suite.Require().NoError(err)

	suite.primary.AssertNumberOfCalls(suite.T(), "FetchRate", 2)
}

func TestExchangeRateService_SourceTimeout(t *testing.T) {
	fallback := &MockRateSource{name: "fallback"}
	fallback.On("FetchRate", mock.Anything, "USD", "EUR").Return(d("0.91"), nil)
	svc := services.NewExchangeRateService(
		ratecache.NewMemoryCache(10, time.Minute),
		[]external.RateSource{slowSource{}, fallback},
		services.WithSourceTimeout(30*time.Millisecond),
	)

	started := time.Now()
	quote, err := svc.GetRate(context.Background(), "USD", "EUR")

	require.NoError(t, err)
	assert.Equal(t, "fallback", quote.Provider)
	assert.Less(t, time.Since(started), time.Second)
}

func TestExchangeRateService_CollapsesConcurrentMisses(t *testing.T) {
	src := &countingSource{rate: d("1.1")}
	svc := services.NewExchangeRateService(ratecache.NewMemoryCache(10, time.Minute), []external.RateSource{src})

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := svc.GetRate(context.Background(), "EUR", "USD")
			assert.NoError(t, err)
			assert.Equal(t, "1.1", q.Rate.String())
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, src.calls.Load(), int32(2))
}
