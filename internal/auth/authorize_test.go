package auth

import (
	"errors"
	"testing"

	"github.com/postboard/apiserver/types"
)

func TestAuthorizePost(t *testing.T) {
	t.Parallel()

	post := types.Post{ID: 10, AuthorID: 1}

	cases := []struct {
		name    string
		user    types.User
		allowed bool
	}{
		{name: "owner", user: types.User{ID: 1}, allowed: true},
		{name: "other user", user: types.User{ID: 2}, allowed: false},
		{name: "admin override", user: types.User{ID: 2, Superuser: true}, allowed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := AuthorizePost(tc.user, post)
			if tc.allowed && err != nil {
				t.Fatalf("expected access, got %v", err)
			}
			if !tc.allowed && !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}
