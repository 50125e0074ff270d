package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/postboard/apiserver/internal/auth"
	"github.com/postboard/apiserver/internal/services"
	"github.com/postboard/apiserver/internal/store"
)

// AdminHandler provides the superuser-only management surface.
type AdminHandler struct {
	users *services.UserService
	posts *services.PostService
}

func NewAdminHandler(users *services.UserService, posts *services.PostService) *AdminHandler {
	return &AdminHandler{users: users, posts: posts}
}

// AdminRouter registers admin routes on the given router. Every route is
// behind admin resolution.
func AdminRouter(r chi.Router, users *services.UserService, posts *services.PostService, resolver *auth.Resolver) {
	handler := NewAdminHandler(users, posts)
	mw := NewMiddleware(resolver)

	r.Use(mw.RequireAdmin)
	r.Post("/users", handler.CreateUser)
	r.Put("/users", handler.UpdateRole)
	r.Get("/users/id/{userID}", handler.GetUserByID)
	r.Get("/users/username/{username}", handler.GetUserByUsername)
	r.Delete("/users/{username}", handler.DeleteUser)
	r.Get("/posts", handler.ListAllPosts)
}

type RoleRequest struct {
	Username  string `json:"username"`
	Superuser bool   `json:"superuser"`
}

// CreateUser creates an account on a user's behalf. Unlike self-service
// registration a duplicate username answers 403, matching the rest of the
// admin surface.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
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
		writeCreateUserError(w, err, http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateRole sets the superuser flag on the named account.
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.users.SetSuperuser(r.Context(), strings.TrimSpace(req.Username), req.Superuser)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Username not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User's id not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Username not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser force-deactivates the named account and revokes its tokens.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if _, err := h.users.DeactivateByUsername(r.Context(), username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAllPosts returns every post, including the author id.
func (h *AdminHandler) ListAllPosts(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	posts, err := h.posts.ListAll(r.Context(), skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}
