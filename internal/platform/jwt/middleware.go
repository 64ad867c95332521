package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"currency_backend/internal/api"
	"currency_backend/internal/feature/auth/domain"
	"currency_backend/internal/feature/auth/domain/entity"
)

const (
	// ContextUserID is the gin context key holding the authenticated user's ID (uint).
	ContextUserID = "userID"
	// ContextUser is the gin context key holding the authenticated *entity.User.
	ContextUser = "user"
)

// unauthorizedMessage is shared by every 401 so callers cannot tell a bad token from a deleted user.
const unauthorizedMessage = "could not validate credentials"

// IdentityResolver maps a bearer token to a live user record.
// Following Go convention: interfaces are defined by the consumer (middleware), not the provider (usecase).
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*entity.User, error)
}

// AuthRequired returns a Gin middleware function that validates bearer tokens
// and restricts access to authenticated users only.
func AuthRequired(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			abortUnauthorized(c)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c)
			return
		}

		// 2. Resolve token to a user
		user, err := resolver.Resolve(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				abortUnauthorized(c)
				return
			}
			slog.Error("identity resolution failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.InternalErrorMessage})
			return
		}

		// 3. Pass control to the next handler
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: unauthorizedMessage})
}
