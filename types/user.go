package types

import "time"

// User represents an account in the system.
// It contains identity, role, and revocation metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Superuser grants override access to any resource regardless of
	// ownership.
	Superuser bool `json:"superuser" db:"superuser"`

	// IsActive is flipped to false on deletion; rows are never removed.
	IsActive bool `json:"is_active" db:"is_active"`

	// TokenVersion is a per-account counter. A bearer token is honored only
	// while its embedded version equals this value, so incrementing it
	// revokes every previously issued token at once.
	TokenVersion int `json:"-" db:"token_version"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
