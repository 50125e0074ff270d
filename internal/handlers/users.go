package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/postboard/apiserver/internal/auth"
	"github.com/postboard/apiserver/internal/services"
	"github.com/postboard/apiserver/internal/store"
)

// UserHandler provides registration, login, and self-service endpoints.
type UserHandler struct {
	users    *services.UserService
	resolver *auth.Resolver
}

func NewUserHandler(users *services.UserService, resolver *auth.Resolver) *UserHandler {
	return &UserHandler{users: users, resolver: resolver}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, users *services.UserService, resolver *auth.Resolver) {
	handler := NewUserHandler(users, resolver)
	mw := NewMiddleware(resolver)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(mw.RequireUser).Post("/logout", handler.Logout)
	r.With(mw.RequireUser).Get("/me", handler.Me)
	r.With(mw.RequireUser).Patch("/", handler.UpdateProfile)
	r.With(mw.RequireUser).Delete("/delete", handler.DeleteSelf)
}

type RegisterRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates an account for an anonymous caller. A caller holding a
// live token is told to log out first; a stale or garbage token is ignored.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.resolver.ResolveOptional(r.Context(), bearerToken(r)); ok {
		writeError(w, http.StatusForbidden, "User is already logged in")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Password != req.RepeatPassword {
		writeError(w, http.StatusConflict, "Passwords don't match")
		return
	}

	user, err := h.users.Create(r.Context(), strings.TrimSpace(req.Username), req.Password, false)
	if err != nil {
		writeCreateUserError(w, err, http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Login verifies form-encoded credentials and returns a bearer token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	token, err := h.users.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Logout revokes every token issued to the caller so far.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.users.Logout(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the caller's own record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile changes the caller's username and password. The password
// change revokes outstanding tokens, so the response is the last thing this
// session sees.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Password != req.RepeatPassword {
		writeError(w, http.StatusConflict, "Passwords don't match")
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeCreateUserError(w, err, http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteSelf soft-deletes the caller's account.
func (h *UserHandler) DeleteSelf(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	deleted, err := h.users.Deactivate(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, deleted)
}

// writeCreateUserError maps account-creation failures. The status for a
// duplicate username differs between the self-service and admin surfaces, so
// the caller picks it.
func writeCreateUserError(w http.ResponseWriter, err error, conflictStatus int) {
	switch {
	case errors.Is(err, store.ErrConflict):
		writeError(w, conflictStatus, "Username already taken")
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to create user")
	}
}
