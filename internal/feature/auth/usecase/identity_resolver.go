package usecase

import (
	"context"
	"errors"
	"fmt"

	"currency_backend/internal/feature/auth/domain"
	"currency_backend/internal/feature/auth/domain/entity"
)

// TokenValidator extracts the user id from a signed access token.
type TokenValidator interface {
	Validate(token string) (uint, error)
}

// IdentityResolver maps an inbound bearer token to the persisted user it names.
type IdentityResolver struct {
	users  UserRepository
	tokens TokenValidator
}

// NewIdentityResolver creates an IdentityResolver.
func NewIdentityResolver(users UserRepository, tokens TokenValidator) *IdentityResolver {
	return &IdentityResolver{users: users, tokens: tokens}
}

// Resolve returns the user named by token. An invalid token and a token for a user
// that no longer exists both yield domain.ErrUnauthorized. Storage failures are
// returned wrapped so they surface as server errors.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*entity.User, error) {
	id, err := r.tokens.Validate(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}
