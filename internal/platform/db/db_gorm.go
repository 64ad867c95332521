// Package db はGORM接続の生成とスキーママイグレーションを提供します。
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"currency_backend/internal/feature/auth/domain/entity"
)

const (
	// SQLitePrefix marks a DATABASE_URL that selects the SQLite dialector.
	SQLitePrefix = "sqlite://"
	// DefaultDatabaseURL is used when neither DATABASE_URL nor DB_* variables are set.
	DefaultDatabaseURL = SQLitePrefix + "currency_app.db"
	// DefaultConnectTimeout bounds the startup connection retries.
	DefaultConnectTimeout = 60 * time.Second
	// DefaultQueryTimeout bounds one statement issued by a repository.
	DefaultQueryTimeout = 10 * time.Second
)

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

//go:embed migrations/*.sql
var migrationsFS embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Config はデータベース接続設定を保持します。
type Config struct {
	URL          string // DATABASE_URL; takes precedence over the individual fields
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL instance connection name

	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
	RunMigrations  bool
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		URL:            os.Getenv("DATABASE_URL"),
		User:           os.Getenv("DB_USER"),
		Password:       os.Getenv("DB_PASSWORD"),
		Name:           os.Getenv("DB_NAME"),
		Host:           os.Getenv("DB_HOST"),
		Port:           os.Getenv("DB_PORT"),
		InstanceName:   os.Getenv("INSTANCE_CONNECTION_NAME"),
		ConnectTimeout: DefaultConnectTimeout,
		QueryTimeout:   DefaultQueryTimeout,
		RunMigrations:  os.Getenv("RUN_MIGRATIONS") == "true",
	}
	if v := os.Getenv("DB_QUERY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.QueryTimeout = d
		}
	}
	return cfg
}

// BuildDSN は設定から接続文字列を生成します。
// 優先順位: URL > Cloud SQL Unixソケット > TCP > デフォルトのSQLiteファイル。
func BuildDSN(cfg Config) string {
	switch {
	case cfg.URL != "":
		return cfg.URL
	case cfg.InstanceName != "":
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name)
	case cfg.Host != "":
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, port, cfg.User, cfg.Password, cfg.Name)
	default:
		return DefaultDatabaseURL
	}
}

// IsSQLite reports whether dsn selects the SQLite dialector.
func IsSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, SQLitePrefix)
}

// Dialector returns the GORM dialector for dsn.
func Dialector(dsn string) gorm.Dialector {
	if IsSQLite(dsn) {
		return sqlite.Open(strings.TrimPrefix(dsn, SQLitePrefix))
	}
	return postgres.Open(dsn)
}

// NewGormConfig returns the GORM configuration shared by every connection.
// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey on every dialect.
func NewGormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Opener opens a GORM connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry はtimeoutに達するまで接続をリトライします。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("db connect failed after %s (%d attempts): %w", timeout, attempt, err)
		}
		slog.Warn("DB connect failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(min(retryInterval, remaining))
	}
}

// Open はデータベースへ接続し、マイグレーションを実行します。
// PostgreSQLはRunMigrationsが有効な場合のみ、SQLiteは常にスキーマを作成します。
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	db, err := ConnectWithRetry(dsn, timeout, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(Dialector(dsn), NewGormConfig())
	})
	if err != nil {
		return nil, err
	}

	// SQLiteのスキーマ作成は冪等なので毎回実行する
	migrate := cfg.RunMigrations || IsSQLite(dsn)
	if migrate {
		if err := Migrate(ctx, db, dsn); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	slog.Info("database connection established", "sqlite", IsSQLite(dsn), "migrated", migrate)
	return db, nil
}

// Migrate brings the schema up to date.
// PostgreSQL uses the embedded goose migrations; SQLite, used for local runs and tests, uses AutoMigrate.
func Migrate(ctx context.Context, db *gorm.DB, dsn string) error {
	if IsSQLite(dsn) {
		return db.WithContext(ctx).AutoMigrate(&entity.User{})
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return RunMigrations(ctx, sqlDB)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, sqlDB *sql.DB) error {
	if sqlDB == nil {
		return errors.New("nil database handle")
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, sqlDB, "migrations")
}
