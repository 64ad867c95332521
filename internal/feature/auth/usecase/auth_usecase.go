// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"currency_backend/internal/feature/auth/domain"
	"currency_backend/internal/feature/auth/domain/entity"
)

const (
	// minUsernameLength はユーザー名の最低文字数を定義します。
	minUsernameLength = 3
	// maxUsernameLength はユーザー名の最大文字数を定義します。
	maxUsernameLength = 50
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 6
)

// fallbackDummyDigest is verified against when the hasher cannot produce a dummy digest of its own.
const fallbackDummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user and sets its ID.
	// It returns domain.ErrDuplicateUsername if the storage uniqueness constraint rejects the username.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername retrieves a user matching the specified username.
	// It returns domain.ErrUserNotFound if the user does not exist.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID retrieves a user matching the specified ID.
	// It returns domain.ErrUserNotFound if the user does not exist.
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer issues signed access tokens.
// A non-positive ttl selects the issuer's default lifetime.
type TokenIssuer interface {
	Issue(userID uint, ttl time.Duration) (string, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users       UserRepository
	hasher      PasswordHasher
	tokens      TokenIssuer
	dummyDigest string
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *authUsecase {
	// Login verifies against this digest when the user does not exist, so both paths cost the same.
	dummy, err := hasher.Hash("timing-equalization-password")
	if err != nil {
		dummy = fallbackDummyDigest
	}
	return &authUsecase{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		dummyDigest: dummy,
	}
}

// validateCredentials checks username and password lengths in characters.
func validateCredentials(username, password string) error {
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return fmt.Errorf("%w: username must be between %d and %d characters long",
			domain.ErrInvalidInput, minUsernameLength, maxUsernameLength)
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long",
			domain.ErrInvalidInput, minPasswordLength)
	}
	return nil
}

// Register creates a user with a hashed password and returns an access token for it.
//
// The existence check only avoids hashing for names that are obviously taken;
// the storage uniqueness constraint decides concurrent registrations.
func (u *authUsecase) Register(ctx context.Context, username, password string) (string, error) {
	if err := validateCredentials(username, password); err != nil {
		return "", err
	}

	_, err := u.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return "", domain.ErrDuplicateUsername
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Username: username, HashedPassword: hashed}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return "", domain.ErrDuplicateUsername
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := u.tokens.Issue(user.ID, 0)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Login はユーザーを認証し、成功時にアクセストークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもパスワード検証を実行します。
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	digest := u.dummyDigest
	if err == nil {
		digest = user.HashedPassword
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	ok := u.hasher.Verify(password, digest)

	// ユーザー未検出またはパスワード不一致の場合、同一のエラーを返す
	if err != nil || !ok {
		return "", domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID, 0)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
