package ratecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "fxrate:"
	scanBatch        = 100
)

// RedisCache shares cached rates between instances. Expiry is delegated to redis.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

// NewRedisClient builds a single-node client.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

var _ external.RateCache = (*RedisCache)(nil)

func (c *RedisCache) Get(ctx context.Context, key string) (domain.CachedRate, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CachedRate{}, false, nil
	}
	if err != nil {
		return domain.CachedRate{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var rate domain.CachedRate
	if err := json.Unmarshal(raw, &rate); err != nil {
		return domain.CachedRate{}, false, fmt.Errorf("decode cached rate %s: %w", key, err)
	}
	return rate, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, rate domain.CachedRate) error {
	raw, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("encode cached rate %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Stats(ctx context.Context) (domain.RateCacheStats, error) {
	keys, err := c.scanKeys(ctx)
	if err != nil {
		return domain.RateCacheStats{}, err
	}
	trimmed := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed = append(trimmed, strings.TrimPrefix(k, c.prefix))
	}
	sort.Strings(trimmed)
	return domain.RateCacheStats{Size: len(trimmed), Keys: trimmed, TTL: c.ttl}, nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	keys, err := c.scanKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) scanKeys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
