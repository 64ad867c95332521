// Package config loads the process-wide runtime configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"currency_backend/internal/feature/currency/adapters/apilayer"
	"currency_backend/internal/platform/db"
	"currency_backend/internal/platform/password"
	"currency_backend/internal/platform/redis"
)

const (
	DefaultHTTPAddr             = ":8080"
	DefaultLogLevel             = "info"
	DefaultAccessTokenTTL       = 30 * time.Minute
	DefaultCurrencyListCacheTTL = 24 * time.Hour
	DefaultShutdownTimeout      = 10 * time.Second
)

// ErrMissingSetting is returned when a required variable is empty.
var ErrMissingSetting = errors.New("required setting is not set")

// Config contains all runtime configuration. It is never mutated after Load.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	ShutdownTimeout time.Duration

	JWTSecret      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration
	PasswordScheme password.Scheme

	CurrencyAPI          apilayer.Config
	CurrencyListCacheTTL time.Duration

	DB    db.Config
	Redis redis.Config
}

// Load は.envファイル（存在する場合）と環境変数から設定を読み込みます。
// 既に設定済みの環境変数は.envの値で上書きされません。
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("env file not found, using process environment", "file", f)
				continue
			}
			return Config{}, err
		}
	}

	cfg := Config{
		HTTPAddr:        envString("HTTP_ADDR", DefaultHTTPAddr),
		LogLevel:        envString("LOG_LEVEL", DefaultLogLevel),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),

		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET_KEY")),
		JWTAlgorithm:   envString("JWT_ALGORITHM", "HS256"),
		AccessTokenTTL: time.Duration(envInt("ACCESS_TOKEN_EXPIRE_MINUTES", int(DefaultAccessTokenTTL/time.Minute))) * time.Minute,
		PasswordScheme: password.Scheme(strings.ToLower(envString("PASSWORD_SCHEME", string(password.SchemeArgon2id)))),

		CurrencyAPI:          apilayer.LoadConfig(),
		CurrencyListCacheTTL: envDuration("CURRENCY_LIST_CACHE_TTL", DefaultCurrencyListCacheTTL),

		DB: db.LoadConfigFromEnv(),
		Redis: redis.Config{
			Host:     envString("REDIS_HOST", ""),
			Port:     envString("REDIS_PORT", ""),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("%w: JWT_SECRET_KEY", ErrMissingSetting)
	}
	if cfg.CurrencyAPI.APIKey == "" {
		return Config{}, fmt.Errorf("%w: CURRENCY_API_KEY", ErrMissingSetting)
	}
	return cfg, nil
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// envInt reads a positive int.
func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
