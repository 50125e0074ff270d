package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/postboard/apiserver/types"
)

// PostRepository handles persistence for posts.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Get(ctx context.Context, id int) (types.Post, error) {
	const query = `
		SELECT id, text, completed, author_id, created_at
		FROM posts
		WHERE id = $1`
	var post types.Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Text,
		&post.Completed,
		&post.AuthorID,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Post{}, ErrNotFound
		}
		return types.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	post.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO posts (text, completed, author_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		post.Text,
		post.Completed,
		post.AuthorID,
		post.CreatedAt,
	).Scan(&post.ID); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

// Update persists the mutable fields of a post. The author and creation
// timestamp never change.
func (r *PostRepository) Update(ctx context.Context, post types.Post) (types.Post, error) {
	const query = `
		UPDATE posts
		SET text = $1,
			completed = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, post.Text, post.Completed, post.ID)
	if err != nil {
		return types.Post{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Post{}, err
	}
	if affected == 0 {
		return types.Post{}, ErrNotFound
	}
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM posts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByAuthor returns the author's posts ordered by id.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID, offset, limit int) ([]types.Post, error) {
	const query = `
		SELECT id, text, completed, author_id, created_at
		FROM posts
		WHERE author_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, authorID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows, limit)
}

// ListAll returns every post ordered by id, for the admin surface.
func (r *PostRepository) ListAll(ctx context.Context, offset, limit int) ([]types.Post, error) {
	const query = `
		SELECT id, text, completed, author_id, created_at
		FROM posts
		ORDER BY id
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows, limit)
}

func collectPosts(rows *sql.Rows, limit int) ([]types.Post, error) {
	posts := make([]types.Post, 0, limit)
	for rows.Next() {
		var post types.Post
		if err := rows.Scan(
			&post.ID,
			&post.Text,
			&post.Completed,
			&post.AuthorID,
			&post.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
