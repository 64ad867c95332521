// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the unique identifier for the user, assigned by storage on creation.
	ID uint `gorm:"primaryKey"`

	// Username is the login name. It must be unique across all users;
	// the unique index is what enforces this, not an application check.
	Username string `gorm:"uniqueIndex;size:50;not null"`

	// HashedPassword is the self-describing password digest.
	// This should never store plaintext passwords.
	HashedPassword string `gorm:"size:255;not null"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
