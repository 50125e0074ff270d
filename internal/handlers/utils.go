package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/postboard/apiserver/internal/auth"
	"github.com/postboard/apiserver/types"
)

type contextKey string

const contextUserKey contextKey = "user"

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func userFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok
}

func withUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, contextUserKey, user)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeResolveError maps session-resolution failures: structurally invalid
// credentials are 401, semantically revoked or insufficient ones are 403.
func writeResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrNotAdmin):
		writeError(w, http.StatusForbidden, "User is not admin")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "User is not authorized")
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Not authenticated")
	default:
		writeError(w, http.StatusInternalServerError, "failed to resolve user")
	}
}

// bearerToken extracts the token from the Authorization header. An absent
// header returns "", which the resolvers treat as unauthenticated.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parseWindow reads the skip/limit query parameters.
func parseWindow(r *http.Request) (skip, limit int, err error) {
	if raw := strings.TrimSpace(r.URL.Query().Get("skip")); raw != "" {
		skip, err = strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return 0, 0, errors.New("invalid skip")
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, errors.New("invalid limit")
		}
	}
	return skip, limit, nil
}
