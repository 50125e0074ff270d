package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postboard/apiserver/internal/store"
	"github.com/postboard/apiserver/types"
)

type fakeUserSource struct {
	users map[string]types.User
	err   error
}

func (f *fakeUserSource) GetByUsername(ctx context.Context, username string) (types.User, error) {
	if f.err != nil {
		return types.User{}, f.err
	}
	user, ok := f.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func newTestResolver(users ...types.User) (*Resolver, *TokenCodec) {
	source := &fakeUserSource{users: map[string]types.User{}}
	for _, user := range users {
		source.users[user.Username] = user
	}
	codec := NewTokenCodec("super-secret", time.Hour)
	return NewResolver(codec, source), codec
}

func TestResolveRequired(t *testing.T) {
	t.Parallel()

	luna := types.User{ID: 1, Username: "Luna", IsActive: true, TokenVersion: 2}
	resolver, codec := newTestResolver(luna)

	token, err := codec.Issue("Luna", 2)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	user, err := resolver.ResolveRequired(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveRequired error: %v", err)
	}
	if user.ID != luna.ID {
		t.Fatalf("resolved wrong user: %+v", user)
	}
}

func TestResolveRequiredMissingToken(t *testing.T) {
	t.Parallel()

	resolver, _ := newTestResolver()
	if _, err := resolver.ResolveRequired(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveRequiredMalformedToken(t *testing.T) {
	t.Parallel()

	resolver, _ := newTestResolver()
	if _, err := resolver.ResolveRequired(context.Background(), "garbage"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveRequiredUnknownSubject(t *testing.T) {
	t.Parallel()

	resolver, codec := newTestResolver()
	token, err := codec.Issue("Ghost", 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := resolver.ResolveRequired(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveRequiredRevokedVersion(t *testing.T) {
	t.Parallel()

	luna := types.User{ID: 1, Username: "Luna", IsActive: true, TokenVersion: 5}
	resolver, codec := newTestResolver(luna)

	// Token issued before the account's version was bumped.
	token, err := codec.Issue("Luna", 4)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := resolver.ResolveRequired(context.Background(), token); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stale version, got %v", err)
	}
}

func TestResolveRequiredInactiveAccount(t *testing.T) {
	t.Parallel()

	luna := types.User{ID: 1, Username: "Luna", IsActive: false, TokenVersion: 0}
	resolver, codec := newTestResolver(luna)

	token, err := codec.Issue("Luna", 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := resolver.ResolveRequired(context.Background(), token); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for inactive account, got %v", err)
	}
}

func TestResolveRequiredStoreFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	codec := NewTokenCodec("super-secret", time.Hour)
	resolver := NewResolver(codec, &fakeUserSource{err: boom})

	token, err := codec.Issue("Luna", 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := resolver.ResolveRequired(context.Background(), token); !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestResolveOptional(t *testing.T) {
	t.Parallel()

	luna := types.User{ID: 1, Username: "Luna", IsActive: true, TokenVersion: 1}
	resolver, codec := newTestResolver(luna)

	goodToken, err := codec.Issue("Luna", 1)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	staleToken, err := codec.Issue("Luna", 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "valid token", token: goodToken, want: true},
		{name: "absent token", token: "", want: false},
		{name: "malformed token", token: "garbage", want: false},
		{name: "stale version", token: staleToken, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := resolver.ResolveOptional(context.Background(), tc.token)
			if ok != tc.want {
				t.Fatalf("got %v want %v", ok, tc.want)
			}
		})
	}
}

func TestResolveAdmin(t *testing.T) {
	t.Parallel()

	admin := types.User{ID: 1, Username: "admin", IsActive: true, Superuser: true}
	luna := types.User{ID: 2, Username: "Luna", IsActive: true}
	resolver, codec := newTestResolver(admin, luna)

	adminToken, err := codec.Issue("admin", 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	userToken, err := codec.Issue("Luna", 0)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := resolver.ResolveAdmin(context.Background(), adminToken); err != nil {
		t.Fatalf("ResolveAdmin error for superuser: %v", err)
	}
	if _, err := resolver.ResolveAdmin(context.Background(), userToken); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if _, err := resolver.ResolveAdmin(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for missing token, got %v", err)
	}
}
