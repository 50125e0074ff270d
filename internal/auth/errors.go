package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken covers malformed, expired, and badly signed tokens.
	// Callers never learn which check failed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthenticated means no usable credential proof was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the identity is valid but lacks the right to act,
	// including tokens revoked by a version bump.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is the single error for unknown username, wrong
	// password, and deactivated account.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ErrNotAdmin is a Forbidden specialization so the HTTP layer can say "not
// admin" instead of the generic revocation message.
var ErrNotAdmin = fmt.Errorf("%w: user is not admin", ErrForbidden)
