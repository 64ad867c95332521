// Package jwtmw issues and validates the signed access tokens used by the API,
// and provides the Gin middleware that guards authenticated routes.
package jwtmw

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAlgorithm is used when no signing algorithm is configured.
const DefaultAlgorithm = "HS256"

// ErrInvalidToken is the single outcome of every failed validation.
// Signature, expiry and claim problems are not distinguished.
var ErrInvalidToken = errors.New("invalid token")

// Codec issues and validates HMAC-signed JWTs carrying a numeric subject.
// It holds only read-only configuration and is safe for concurrent use.
type Codec struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	now        func() time.Time
}

// NewCodec creates a Codec. algorithm must be one of HS256, HS384 or HS512;
// an empty algorithm selects DefaultAlgorithm.
func NewCodec(secret string, algorithm string, defaultTTL time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	if defaultTTL <= 0 {
		return nil, fmt.Errorf("jwt default ttl must be positive, got %v", defaultTTL)
	}
	return &Codec{
		secret:     []byte(secret),
		method:     method,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

// Issue creates a signed token for userID that expires after ttl.
// A non-positive ttl selects the configured default lifetime.
func (c *Codec) Issue(userID uint, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the token's signature and expiry and returns the user id in its subject.
// Every failure is reported as ErrInvalidToken.
func (c *Codec) Validate(token string) (uint, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
