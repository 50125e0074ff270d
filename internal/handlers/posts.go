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

// PostHandler provides CRUD endpoints for the caller's posts.
type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// PostRouter registers post routes on the given router. Every route is
// behind hard resolution.
func PostRouter(r chi.Router, posts *services.PostService, resolver *auth.Resolver) {
	handler := NewPostHandler(posts)
	mw := NewMiddleware(resolver)

	r.Use(mw.RequireUser)
	r.Post("/", handler.CreatePost)
	r.Get("/", handler.ListOwnPosts)
	r.Route("/{postID}", func(r chi.Router) {
		r.Get("/", handler.GetPost)
		r.Put("/", handler.ChangePost)
		r.Patch("/completed", handler.CheckCompleted)
		r.Delete("/", handler.DeletePost)
	})
}

type PostRequest struct {
	Text string `json:"text"`
}

type PostCompletedRequest struct {
	Completed bool `json:"completed"`
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	post, err := h.posts.Create(r.Context(), user, req.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) ListOwnPosts(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	skip, limit, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	posts, err := h.posts.ListByAuthor(r.Context(), user, skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.posts.GetForUser(r.Context(), user, id)
	if err != nil {
		writePostError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) ChangePost(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	post, err := h.posts.UpdateText(r.Context(), user, id, req.Text)
	if err != nil {
		writePostError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) CheckCompleted(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req PostCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	post, err := h.posts.SetCompleted(r.Context(), user, id, req.Completed)
	if err != nil {
		writePostError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.posts.Delete(r.Context(), user, id); err != nil {
		writePostError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parsePostID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "postID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid post id")
	}
	return id, nil
}

// writePostError keeps one disclosure policy everywhere: absent rows are
// 404, rows owned by someone else are 403.
func writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "Post belongs to other user")
	default:
		writeError(w, http.StatusInternalServerError, "failed to process post")
	}
}
