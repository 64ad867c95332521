package di

import (
	"time"

	"gorm.io/gorm"

	authadapters "currency_backend/internal/feature/auth/adapters"
	authhandler "currency_backend/internal/feature/auth/transport/handler"
	authusecase "currency_backend/internal/feature/auth/usecase"
	jwtmw "currency_backend/internal/platform/jwt"
	"currency_backend/internal/platform/password"
)

// AuthConfig holds the settings needed to build the auth feature.
type AuthConfig struct {
	JWTSecret      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration
	PasswordScheme password.Scheme
	QueryTimeout   time.Duration
}

// Auth groups the auth components the router needs.
type Auth struct {
	Handler  *authhandler.AuthHandler
	Resolver *authusecase.IdentityResolver
}

// NewAuth wires user storage, password hashing and token signing into the auth handler
// and the identity resolver used by the bearer-token middleware.
func NewAuth(db *gorm.DB, cfg AuthConfig) (*Auth, error) {
	hasher, err := password.NewHasher(password.Config{Scheme: cfg.PasswordScheme})
	if err != nil {
		return nil, err
	}
	codec, err := jwtmw.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	users := authadapters.NewUserGorm(db, cfg.QueryTimeout)
	return &Auth{
		Handler:  authhandler.NewAuthHandler(authusecase.NewAuthUsecase(users, hasher, codec)),
		Resolver: authusecase.NewIdentityResolver(users, codec),
	}, nil
}
