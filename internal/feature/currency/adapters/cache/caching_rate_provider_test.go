package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"

	"currency_backend/internal/feature/currency/domain"
)

// mockRateProvider はテスト用のRateProviderモック実装です。
type mockRateProvider struct {
	latestRateFn     func(ctx context.Context, from, to string) (decimal.Decimal, error)
	listCurrenciesFn func(ctx context.Context) (map[string]string, error)
	listCalls        int
}

// LatestRate はモックのLatestRate関数を呼び出します。
func (m *mockRateProvider) LatestRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if m.latestRateFn != nil {
		return m.latestRateFn(ctx, from, to)
	}
	return decimal.Zero, nil
}

// ListCurrencies はモックのListCurrencies関数を呼び出します。
func (m *mockRateProvider) ListCurrencies(ctx context.Context) (map[string]string, error) {
	m.listCalls++
	if m.listCurrenciesFn != nil {
		return m.listCurrenciesFn(ctx)
	}
	return nil, nil
}

var catalog = map[string]string{"EUR": "Euro", "USD": "United States Dollar"}

// TestNewCachingRateProvider_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingRateProvider_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 24 * time.Hour, "currencies"},
		{"negative ttl uses default", -time.Minute, "", 24 * time.Hour, "currencies"},
		{"custom values preserved", 10 * time.Minute, "fx", 10 * time.Minute, "fx"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewCachingRateProvider(nil, tt.ttl, &mockRateProvider{}, tt.namespace)

			if p.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, p.ttl)
			}
			if p.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, p.namespace)
			}
		})
	}
}

// TestCachingRateProvider_ListCurrencies_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingRateProvider_ListCurrencies_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockRateProvider{
		listCurrenciesFn: func(context.Context) (map[string]string, error) { return catalog, nil },
	}
	p := NewCachingRateProvider(nil, time.Hour, inner, "")

	got, err := p.ListCurrencies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || inner.listCalls != 1 {
		t.Errorf("expected inner to be called once and return 2 entries, got %d calls and %v", inner.listCalls, got)
	}
}

// TestCachingRateProvider_ListCurrencies_CacheHit はキャッシュヒット時に内部プロバイダーを呼ばないことを検証します。
func TestCachingRateProvider_ListCurrencies_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(catalog)
	mock.ExpectGet("currencies:list").SetVal(string(cached))

	inner := &mockRateProvider{}
	p := NewCachingRateProvider(rdb, time.Hour, inner, "")

	got, err := p.ListCurrencies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.listCalls != 0 {
		t.Error("inner provider should not be called on cache hit")
	}
	if got["USD"] != "United States Dollar" {
		t.Errorf("unexpected catalog: %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingRateProvider_ListCurrencies_CacheMiss はキャッシュミス時にプロバイダーから取得し保存することを検証します。
func TestCachingRateProvider_ListCurrencies_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(catalog)
	mock.ExpectGet("currencies:list").RedisNil()
	mock.ExpectSet("currencies:list", expected, time.Hour).SetVal("OK")

	inner := &mockRateProvider{
		listCurrenciesFn: func(context.Context) (map[string]string, error) { return catalog, nil },
	}
	p := NewCachingRateProvider(rdb, time.Hour, inner, "")

	got, err := p.ListCurrencies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 currencies, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingRateProvider_ListCurrencies_InnerError はエラーが伝播され、キャッシュに保存されないことを検証します。
func TestCachingRateProvider_ListCurrencies_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("currencies:list").RedisNil()

	inner := &mockRateProvider{
		listCurrenciesFn: func(context.Context) (map[string]string, error) {
			return nil, domain.ErrUpstreamUnavailable
		},
	}
	p := NewCachingRateProvider(rdb, time.Hour, inner, "")

	_, err := p.ListCurrencies(context.Background())
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingRateProvider_ListCurrencies_CorruptedCache は破損したキャッシュを削除してフォールバックすることを検証します。
func TestCachingRateProvider_ListCurrencies_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(catalog)
	mock.ExpectGet("currencies:list").SetVal("invalid json")
	mock.ExpectDel("currencies:list").SetVal(1)
	mock.ExpectSet("currencies:list", expected, time.Hour).SetVal("OK")

	inner := &mockRateProvider{
		listCurrenciesFn: func(context.Context) (map[string]string, error) { return catalog, nil },
	}
	p := NewCachingRateProvider(rdb, time.Hour, inner, "")

	if _, err := p.ListCurrencies(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.listCalls != 1 {
		t.Errorf("expected inner to be called once, got %d", inner.listCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingRateProvider_LatestRate_NotCached は為替レートがRedisを経由しないことを検証します。
func TestCachingRateProvider_LatestRate_NotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	calls := 0
	inner := &mockRateProvider{
		latestRateFn: func(_ context.Context, from, to string) (decimal.Decimal, error) {
			calls++
			return decimal.RequireFromString("1.1"), nil
		},
	}
	p := NewCachingRateProvider(rdb, time.Hour, inner, "")

	for i := 0; i < 2; i++ {
		rate, err := p.LatestRate(context.Background(), "EUR", "USD")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rate.String() != "1.1" {
			t.Errorf("expected 1.1, got %s", rate)
		}
	}
	if calls != 2 {
		t.Errorf("expected inner to be called for every request, got %d", calls)
	}
	// No Redis command may be issued for rates.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected redis interaction: %v", err)
	}
}
