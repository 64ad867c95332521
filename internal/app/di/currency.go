// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"currency_backend/internal/feature/currency/adapters/apilayer"
	"currency_backend/internal/feature/currency/adapters/cache"
	currencyhandler "currency_backend/internal/feature/currency/transport/handler"
	"currency_backend/internal/feature/currency/usecase"
	infrahttp "currency_backend/internal/platform/http"
)

// NewRateProvider creates the apilayer client wrapped with the currency list cache.
// A nil rdb disables caching.
func NewRateProvider(cfg apilayer.Config, rdb *redis.Client, listTTL time.Duration, recorder apilayer.CallRecorder) usecase.RateProvider {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	client := apilayer.NewClient(cfg, httpClient, recorder)
	return cache.NewCachingRateProvider(rdb, listTTL, client, cache.DefaultNamespace)
}

// NewCurrencyHandler wires the currency feature from provider to handler.
func NewCurrencyHandler(provider usecase.RateProvider) *currencyhandler.CurrencyHandler {
	return currencyhandler.NewCurrencyHandler(usecase.NewCurrencyUsecase(provider))
}
