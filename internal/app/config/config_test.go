package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency_backend/internal/platform/password"
)

var managedKeys = []string{
	"HTTP_ADDR", "LOG_LEVEL", "SHUTDOWN_TIMEOUT",
	"JWT_SECRET_KEY", "JWT_ALGORITHM", "ACCESS_TOKEN_EXPIRE_MINUTES", "PASSWORD_SCHEME",
	"CURRENCY_API_KEY", "CURRENCY_API_URL", "CURRENCY_API_TIMEOUT", "CURRENCY_LIST_CACHE_TTL",
	"DATABASE_URL", "DB_QUERY_TIMEOUT", "RUN_MIGRATIONS",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
}

// clearEnv unsets every variable Load reads, restoring them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

// TestLoad_Defaults は必須項目のみ設定した場合のデフォルト値を検証します。
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CURRENCY_API_KEY", "key")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, password.SchemeArgon2id, cfg.PasswordScheme)
	assert.Equal(t, DefaultCurrencyListCacheTTL, cfg.CurrencyListCacheTTL)
	assert.Equal(t, "https://api.apilayer.com/currency_data", cfg.CurrencyAPI.BaseURL)
	assert.Equal(t, "", cfg.Redis.Addr())
	assert.Equal(t, "", cfg.DB.URL)
}

// TestLoad_Overrides は環境変数による上書きを検証します。
func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CURRENCY_API_KEY", "key")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("PASSWORD_SCHEME", "BCRYPT")
	t.Setenv("CURRENCY_LIST_CACHE_TTL", "1h")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("DATABASE_URL", "sqlite://test.db")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "HS512", cfg.JWTAlgorithm)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, password.SchemeBcrypt, cfg.PasswordScheme)
	assert.Equal(t, time.Hour, cfg.CurrencyListCacheTTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, "sqlite://test.db", cfg.DB.URL)
}

// TestLoad_InvalidNumbersFallBack は不正な数値がデフォルト値になることを検証します。
func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CURRENCY_API_KEY", "key")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "-1")
	t.Setenv("CURRENCY_LIST_CACHE_TTL", "forever")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultAccessTokenTTL, cfg.AccessTokenTTL)
	assert.Equal(t, DefaultCurrencyListCacheTTL, cfg.CurrencyListCacheTTL)
}

// TestLoad_MissingRequired は必須項目が欠けている場合にエラーとなることを検証します。
func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		missing string
	}{
		{"no secret", map[string]string{"CURRENCY_API_KEY": "key"}, "JWT_SECRET_KEY"},
		{"blank secret", map[string]string{"JWT_SECRET_KEY": "   ", "CURRENCY_API_KEY": "key"}, "JWT_SECRET_KEY"},
		{"no api key", map[string]string{"JWT_SECRET_KEY": "secret"}, "CURRENCY_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(missingEnvFile(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingSetting))
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

// TestLoad_EnvFile は.envファイルの値が読み込まれ、既存の環境変数が優先されることを検証します。
func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":7000")

	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET_KEY=from-file\nCURRENCY_API_KEY=file-key\nHTTP_ADDR=:1111\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "file-key", cfg.CurrencyAPI.APIKey)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
}
