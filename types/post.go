package types

import "time"

// Post is a text record owned by exactly one user.
type Post struct {
	// ID is the unique identifier of the post.
	ID int `json:"id" db:"id"`

	// Text is the free-form body of the post.
	Text string `json:"text" db:"text"`

	// Completed marks the post as done.
	Completed bool `json:"completed" db:"completed"`

	// AuthorID references the owning user and never changes after creation.
	AuthorID int `json:"author_id" db:"author_id"`

	// CreatedAt is assigned by the server on insert and is immutable.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
