package services

import (
	"context"
	"errors"
	"testing"

	"github.com/postboard/apiserver/internal/auth"
	"github.com/postboard/apiserver/internal/store"
	"github.com/postboard/apiserver/types"
)

type memPostRepo struct {
	nextID int
	posts  map[int]types.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{nextID: 1, posts: map[int]types.Post{}}
}

func (m *memPostRepo) Get(ctx context.Context, id int) (types.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return types.Post{}, store.ErrNotFound
	}
	return post, nil
}

func (m *memPostRepo) Create(ctx context.Context, post types.Post) (types.Post, error) {
	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = post
	return post, nil
}

func (m *memPostRepo) Update(ctx context.Context, post types.Post) (types.Post, error) {
	if _, ok := m.posts[post.ID]; !ok {
		return types.Post{}, store.ErrNotFound
	}
	m.posts[post.ID] = post
	return post, nil
}

func (m *memPostRepo) Delete(ctx context.Context, id int) error {
	if _, ok := m.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memPostRepo) ListByAuthor(ctx context.Context, authorID, offset, limit int) ([]types.Post, error) {
	var posts []types.Post
	for id := 1; id < m.nextID && len(posts) < offset+limit; id++ {
		if post, ok := m.posts[id]; ok && post.AuthorID == authorID {
			posts = append(posts, post)
		}
	}
	if offset >= len(posts) {
		return nil, nil
	}
	return posts[offset:], nil
}

func (m *memPostRepo) ListAll(ctx context.Context, offset, limit int) ([]types.Post, error) {
	var posts []types.Post
	for id := 1; id < m.nextID && len(posts) < offset+limit; id++ {
		if post, ok := m.posts[id]; ok {
			posts = append(posts, post)
		}
	}
	if offset >= len(posts) {
		return nil, nil
	}
	return posts[offset:], nil
}

var (
	owner    = types.User{ID: 1, Username: "Luna", IsActive: true}
	stranger = types.User{ID: 2, Username: "Aurora", IsActive: true}
	admin    = types.User{ID: 3, Username: "admin", IsActive: true, Superuser: true}
)

func TestPostCreateAndGet(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemPostRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, "First nice post")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.AuthorID != owner.ID {
		t.Fatalf("unexpected author: %d", created.AuthorID)
	}

	got, err := svc.GetForUser(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("GetForUser error: %v", err)
	}
	if got.Text != "First nice post" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}

func TestPostOwnershipGate(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemPostRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, "First nice post")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Found but not yours is Forbidden; absent is NotFound. Same split on
	// every single-post operation.
	if _, err := svc.GetForUser(ctx, stranger, created.ID); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on read, got %v", err)
	}
	if _, err := svc.UpdateText(ctx, stranger, created.ID, "hijack"); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on update, got %v", err)
	}
	if _, err := svc.SetCompleted(ctx, stranger, created.ID, true); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on completed, got %v", err)
	}
	if err := svc.Delete(ctx, stranger, created.ID); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}

	if _, err := svc.GetForUser(ctx, owner, 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing post, got %v", err)
	}
}

func TestPostAdminOverride(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemPostRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, "First nice post")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.UpdateText(ctx, admin, created.ID, "edited by admin"); err != nil {
		t.Fatalf("admin update error: %v", err)
	}
	if _, err := svc.SetCompleted(ctx, admin, created.ID, true); err != nil {
		t.Fatalf("admin completed error: %v", err)
	}
	if err := svc.Delete(ctx, admin, created.ID); err != nil {
		t.Fatalf("admin delete error: %v", err)
	}
	if err := svc.Delete(ctx, admin, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPostListScopes(t *testing.T) {
	t.Parallel()

	svc := NewPostService(newMemPostRepo(), nil)
	ctx := context.Background()

	for range 3 {
		if _, err := svc.Create(ctx, owner, "mine"); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	if _, err := svc.Create(ctx, stranger, "theirs"); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	mine, err := svc.ListByAuthor(ctx, owner, 0, 0)
	if err != nil {
		t.Fatalf("ListByAuthor error: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("expected 3 own posts, got %d", len(mine))
	}

	all, err := svc.ListAll(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 posts, got %d", len(all))
	}

	window, err := svc.ListAll(ctx, 2, 1)
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(window) != 1 || window[0].ID != 3 {
		t.Fatalf("unexpected window: %+v", window)
	}
}
