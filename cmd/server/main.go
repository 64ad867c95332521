package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"currency_backend/internal/app/config"
	"currency_backend/internal/app/di"
	"currency_backend/internal/app/router"
	"currency_backend/internal/platform/db"
	"currency_backend/internal/platform/logging"
	"currency_backend/internal/platform/metrics"
	infraredis "currency_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run returns an error instead of exiting so deferred cleanup always runs.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.NewLogger(os.Stdout, cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer func() {
			if err := sqlDB.Close(); err != nil {
				log.Error("failed to close database", "error", err)
			}
		}()
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		log.Warn("Redis unavailable. Running without cache.", "error", err)
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	m := metrics.New()

	auth, err := di.NewAuth(gdb, di.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		JWTAlgorithm:   cfg.JWTAlgorithm,
		AccessTokenTTL: cfg.AccessTokenTTL,
		PasswordScheme: cfg.PasswordScheme,
		QueryTimeout:   cfg.DB.QueryTimeout,
	})
	if err != nil {
		return err
	}
	provider := di.NewRateProvider(cfg.CurrencyAPI, rdb, cfg.CurrencyListCacheTTL, m)
	currencyH := di.NewCurrencyHandler(provider)

	// ルータ生成
	r := router.NewRouter(log, m, auth.Resolver, auth.Handler, currencyH)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("server.start", "addr", cfg.HTTPAddr, "redis", rdb != nil)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("server.stop", "reason", "signal")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server.stopped")
	return nil
}
