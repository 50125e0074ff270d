package auth

import (
	"context"
	"errors"

	"github.com/postboard/apiserver/internal/store"
	"github.com/postboard/apiserver/types"
)

// UserSource is the account lookup the resolver needs from the store.
type UserSource interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
}

// Resolver turns a bearer token into a user record, re-deriving validity on
// every call: the token must decode, the subject must exist, the embedded
// version must match the account's current token_version, and the account
// must still be active.
type Resolver struct {
	codec *TokenCodec
	users UserSource
}

func NewResolver(codec *TokenCodec, users UserSource) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// ResolveOptional never fails. An absent token, an undecodable token, an
// unknown subject, a stale version, or an inactive account all come back as
// (zero, false). Endpoints that merely branch on login state use this.
func (r *Resolver) ResolveOptional(ctx context.Context, tokenString string) (types.User, bool) {
	if tokenString == "" {
		return types.User{}, false
	}
	username, version, err := r.codec.Decode(tokenString)
	if err != nil {
		return types.User{}, false
	}
	user, err := r.users.GetByUsername(ctx, username)
	if err != nil || user.TokenVersion != version || !user.IsActive {
		return types.User{}, false
	}
	return user, true
}

// ResolveRequired distinguishes structurally invalid credentials from
// semantically revoked ones: a missing or undecodable token and an unknown
// subject fail ErrUnauthenticated, while a version mismatch or an inactive
// account fail ErrForbidden.
func (r *Resolver) ResolveRequired(ctx context.Context, tokenString string) (types.User, error) {
	if tokenString == "" {
		return types.User{}, ErrUnauthenticated
	}
	username, version, err := r.codec.Decode(tokenString)
	if err != nil {
		return types.User{}, ErrUnauthenticated
	}
	user, err := r.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrUnauthenticated
		}
		return types.User{}, err
	}
	if user.TokenVersion != version || !user.IsActive {
		return types.User{}, ErrForbidden
	}
	return user, nil
}

// ResolveAdmin composes ResolveRequired with a superuser check.
func (r *Resolver) ResolveAdmin(ctx context.Context, tokenString string) (types.User, error) {
	user, err := r.ResolveRequired(ctx, tokenString)
	if err != nil {
		return types.User{}, err
	}
	if !user.Superuser {
		return types.User{}, ErrNotAdmin
	}
	return user, nil
}
