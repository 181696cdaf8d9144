package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/ndbelyaev/inkwell/internal/apperror"
)

// PostRepository defines the data access contract for blog posts.
type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	ListPage(ctx context.Context, offset, limit int) ([]Post, int, error)
}

// postRepository implements PostRepository with MariaDB queries.
type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

// msgSlugTaken is the conflict message for a duplicate slug. The service
// retries with a suffixed slug when it sees this conflict.
const msgSlugTaken = "a post with this slug already exists"

// Create inserts a new post. A duplicate slug is reported as a conflict
// error; the uq_posts_slug unique index makes the check atomic with respect
// to concurrent publishes.
func (r *postRepository) Create(ctx context.Context, p *Post) error {
	query := `INSERT INTO posts
		(id, slug, title, summary, body, body_html, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Slug, p.Title, p.Summary, p.Body, p.BodyHTML,
		p.AuthorID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return apperror.NewConflict(msgSlugTaken)
		}
		return fmt.Errorf("inserting post: %w", err)
	}
	return nil
}

// FindBySlug retrieves a published post by its URL slug, with the author's
// display name joined in.
func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*Post, error) {
	query := `SELECT p.id, p.slug, p.title, p.summary, p.body, p.body_html,
	                 p.author_id, p.created_at, p.updated_at,
	                 u.display_name
	          FROM posts p
	          LEFT JOIN users u ON u.id = p.author_id
	          WHERE p.slug = ?`

	p := &Post{}
	var authorName sql.NullString
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&p.ID, &p.Slug, &p.Title, &p.Summary, &p.Body, &p.BodyHTML,
		&p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&authorName,
	)
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying post by slug: %w", err)
	}
	p.AuthorName = authorName.String
	return p, nil
}

// ListPage returns one page of posts ordered newest first, plus the total
// post count for pagination.
func (r *postRepository) ListPage(ctx context.Context, offset, limit int) ([]Post, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting posts: %w", err)
	}

	query := `SELECT p.id, p.slug, p.title, p.summary, p.body_html,
	                 p.author_id, p.created_at, p.updated_at,
	                 u.display_name
	          FROM posts p
	          LEFT JOIN users u ON u.id = p.author_id
	          ORDER BY p.created_at DESC, p.id DESC
	          LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var authorName sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Title, &p.Summary, &p.BodyHTML,
			&p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
			&authorName,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning post row: %w", err)
		}
		p.AuthorName = authorName.String
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}
