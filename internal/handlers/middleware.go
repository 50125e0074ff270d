package handlers

import (
	"net/http"

	"github.com/postboard/apiserver/internal/auth"
)

// Middleware builds the auth middleware chain from a session resolver.
type Middleware struct {
	resolver *auth.Resolver
}

func NewMiddleware(resolver *auth.Resolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// RequireUser enforces hard resolution and injects the user into context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolver.ResolveRequired(r.Context(), bearerToken(r))
		if err != nil {
			writeResolveError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// RequireAdmin enforces admin resolution and injects the user into context.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolver.ResolveAdmin(r.Context(), bearerToken(r))
		if err != nil {
			writeResolveError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}
