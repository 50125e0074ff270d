package services

import (
	"context"
	"log"

	"github.com/postboard/apiserver/internal/auth"
	"github.com/postboard/apiserver/internal/events"
	"github.com/postboard/apiserver/types"
)

const (
	defaultPostLimit = 10
	maxPostLimit     = 100
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Get(ctx context.Context, id int) (types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Update(ctx context.Context, post types.Post) (types.Post, error)
	Delete(ctx context.Context, id int) error
	ListByAuthor(ctx context.Context, authorID, offset, limit int) ([]types.Post, error)
	ListAll(ctx context.Context, offset, limit int) ([]types.Post, error)
}

// PostService encapsulates post use-cases. Every operation touching an
// existing post loads it first and runs the owner-or-admin gate, so a post
// that exists but belongs to someone else fails auth.ErrForbidden while an
// absent one fails store.ErrNotFound.
type PostService struct {
	repo   PostRepository
	events *events.Publisher
}

func NewPostService(repo PostRepository, publisher *events.Publisher) *PostService {
	if publisher == nil {
		publisher = events.NewPublisher(nil)
	}
	return &PostService{repo: repo, events: publisher}
}

// Create inserts a post owned by the author.
func (s *PostService) Create(ctx context.Context, author types.User, text string) (types.Post, error) {
	post, err := s.repo.Create(ctx, types.Post{
		Text:     text,
		AuthorID: author.ID,
	})
	if err != nil {
		return types.Post{}, err
	}
	s.publish(ctx, events.Event{Name: events.PostCreated, Subject: author.Username, ResourceID: post.ID})
	return post, nil
}

// GetForUser loads a post the caller is allowed to see.
func (s *PostService) GetForUser(ctx context.Context, user types.User, id int) (types.Post, error) {
	return s.load(ctx, user, id)
}

// UpdateText replaces the post body.
func (s *PostService) UpdateText(ctx context.Context, user types.User, id int, text string) (types.Post, error) {
	post, err := s.load(ctx, user, id)
	if err != nil {
		return types.Post{}, err
	}
	post.Text = text
	return s.repo.Update(ctx, post)
}

// SetCompleted flips the completed flag.
func (s *PostService) SetCompleted(ctx context.Context, user types.User, id int, completed bool) (types.Post, error) {
	post, err := s.load(ctx, user, id)
	if err != nil {
		return types.Post{}, err
	}
	post.Completed = completed
	return s.repo.Update(ctx, post)
}

// Delete removes the post row.
func (s *PostService) Delete(ctx context.Context, user types.User, id int) error {
	post, err := s.load(ctx, user, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return err
	}
	s.publish(ctx, events.Event{Name: events.PostDeleted, Subject: user.Username, ResourceID: post.ID})
	return nil
}

// ListByAuthor returns the user's own posts.
func (s *PostService) ListByAuthor(ctx context.Context, user types.User, offset, limit int) ([]types.Post, error) {
	offset, limit = clampWindow(offset, limit)
	return s.repo.ListByAuthor(ctx, user.ID, offset, limit)
}

// ListAll returns every post; callers gate this behind admin resolution.
func (s *PostService) ListAll(ctx context.Context, offset, limit int) ([]types.Post, error) {
	offset, limit = clampWindow(offset, limit)
	return s.repo.ListAll(ctx, offset, limit)
}

func (s *PostService) load(ctx context.Context, user types.User, id int) (types.Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Post{}, err
	}
	if err := auth.AuthorizePost(user, post); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

func (s *PostService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("events: publish %s: %v", event.Name, err)
	}
}

func clampWindow(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPostLimit
	}
	if limit > maxPostLimit {
		limit = maxPostLimit
	}
	return offset, limit
}
