// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrInvalidInput indicates that the username or password fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateUsername indicates that a user with the given username already exists.
	// Storage returns it when the uniqueness constraint rejects an insert.
	ErrDuplicateUsername = errors.New("username already registered")

	// ErrUserNotFound indicates that no user was found with the given criteria.
	// It never reaches clients: login maps it to ErrInvalidCredentials, token resolution to ErrUnauthorized.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates that the username is unknown or the password is wrong.
	// Both cases return this same error.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrUnauthorized indicates that a bearer token is invalid, expired, or refers to a missing user.
	ErrUnauthorized = errors.New("could not validate credentials")
)
