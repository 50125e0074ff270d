package auth

import "github.com/postboard/apiserver/types"

// AuthorizePost gates every mutation of a post: the owner and superusers
// pass, everyone else gets ErrForbidden.
func AuthorizePost(user types.User, post types.Post) error {
	if post.AuthorID == user.ID || user.Superuser {
		return nil
	}
	return ErrForbidden
}
