// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"currency_backend/internal/feature/auth/domain"
	"currency_backend/internal/feature/auth/domain/entity"
	"currency_backend/internal/feature/auth/usecase"
)

// DefaultQueryTimeout bounds a single user store statement when no timeout is configured.
const DefaultQueryTimeout = 10 * time.Second

// pgUniqueViolation is the SQLSTATE postgres reports for a unique constraint violation.
const pgUniqueViolation = "23505"

// userGorm はUserRepositoryインターフェースのGORM実装です。
// PostgreSQLとSQLiteのどちらのダイアレクトでも動作します。
type userGorm struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
// queryTimeoutが0以下の場合はDefaultQueryTimeoutを使用します。
func NewUserGorm(db *gorm.DB, queryTimeout time.Duration) *userGorm {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &userGorm{db: db, queryTimeout: queryTimeout}
}

// session returns a handle scoped to one statement; the pooled connection is released when it completes.
func (r *userGorm) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	return r.db.WithContext(ctx), cancel
}

// Create はユーザーをデータベースに追加します。
// 同じユーザー名が既に存在する場合、domain.ErrDuplicateUsernameを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user must not be nil")
	}
	db, cancel := r.session(ctx)
	defer cancel()

	if err := db.Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// FindByUsername はユーザー名でユーザーを取得します。
// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var u entity.User
	if err := db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var u entity.User
	if err := db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation reports whether err is a uniqueness constraint rejection.
// gorm translates it when TranslateError is enabled; the raw pgx error is checked
// for connections opened without translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
