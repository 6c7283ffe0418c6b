package ratecache

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Hour)

	_, ok, err := c.Get(ctx, "USD:EUR")
	require.NoError(t, err)
	assert.False(t, ok)

	rate := domain.CachedRate{Rate: decimal.RequireFromString("0.92"), Provider: "open-er-api", FetchedAt: time.Now()}
	require.NoError(t, c.Set(ctx, "USD:EUR", rate))
	require.NoError(t, c.Set(ctx, "USD:GBP", rate))

	got, ok, err := c.Get(ctx, "USD:EUR")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rate.Rate.Equal(got.Rate))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, []string{"USD:EUR", "USD:GBP"}, stats.Keys)
	assert.Equal(t, time.Hour, stats.TTL)

	require.NoError(t, c.Clear(ctx))
	stats, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Size)
}

func TestMemoryCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, 20*time.Millisecond)
	require.NoError(t, c.Set(ctx, "USD:EUR", domain.CachedRate{Rate: decimal.NewFromInt(1)}))

	assert.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "USD:EUR")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryCache_EvictsBeyondSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(1, time.Hour)
	require.NoError(t, c.Set(ctx, "USD:EUR", domain.CachedRate{Rate: decimal.NewFromInt(1)}))
	require.NoError(t, c.Set(ctx, "USD:GBP", domain.CachedRate{Rate: decimal.NewFromInt(1)}))

	_, ok, _ := c.Get(ctx, "USD:EUR")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "USD:GBP")
	assert.True(t, ok)
}
