// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 3 * time.Second

// Config はRedis接続設定を保持します。
type Config struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port, or "" when no host is configured.
func (c Config) Addr() string {
	if c.Host == "" {
		return ""
	}
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return c.Host + ":" + port
}

// NewRedisClient は接続確認済みのクライアントを返します。
// ホスト未設定の場合は (nil, nil) を返し、呼び出し側はキャッシュ無しで動作します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	addr := cfg.Addr()
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
