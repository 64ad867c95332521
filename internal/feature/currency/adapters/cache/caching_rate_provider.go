// Package cache provides a Redis-backed decorator for the currency rate provider.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"currency_backend/internal/feature/currency/usecase"
)

const (
	// DefaultListTTL is how long the currency catalog stays cached when no TTL is configured.
	DefaultListTTL = 24 * time.Hour
	// DefaultNamespace prefixes every cache key.
	DefaultNamespace = "currencies"
)

// CachingRateProvider decorates a RateProvider with Redis caching of the currency catalog.
// Exchange rates are always fetched from the inner provider.
type CachingRateProvider struct {
	inner     usecase.RateProvider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingRateProviderがRateProviderを実装していることをコンパイル時に検証します。
var _ usecase.RateProvider = (*CachingRateProvider)(nil)

// NewCachingRateProvider decorates a RateProvider with Redis caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "currencies".
// A nil rdb turns the decorator into a pass-through.
func NewCachingRateProvider(rdb *redis.Client, ttl time.Duration, inner usecase.RateProvider, namespace string) *CachingRateProvider {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingRateProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// LatestRate is never cached.
func (c *CachingRateProvider) LatestRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	return c.inner.LatestRate(ctx, from, to)
}

// ListCurrencies returns the catalog, checking cache first then falling back to the provider.
func (c *CachingRateProvider) ListCurrencies(ctx context.Context) (map[string]string, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListCurrencies(ctx)
	}

	key := c.listKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out map[string]string
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		slog.Warn("deleting corrupted cache entry", "key", key)
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to provider
	out, err := c.inner.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("failed to cache currency list", "key", key, "error", err)
		}
	}

	return out, nil
}

// listKey is the cache key of the catalog.
func (c *CachingRateProvider) listKey() string {
	return c.namespace + ":list"
}
