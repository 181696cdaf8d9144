// Package blog serves the public face of Inkwell: the paginated post feed on
// the front page, individual articles under /blog/:slug, and authoring for
// signed-in users. Post bodies are stored twice -- the raw editor payload and
// a sanitized HTML rendering used for display.
package blog

import "time"

// Post represents a published blog article.
type Post struct {
	ID       string  `json:"id"`
	Slug     string  `json:"slug"`
	Title    string  `json:"title"`
	Summary  *string `json:"summary,omitempty"`
	Body     string  `json:"-"`         // Raw editor payload, author-only.
	BodyHTML string  `json:"body_html"` // Sanitized HTML for display.
	AuthorID string  `json:"author_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data (not always populated).
	AuthorName string `json:"author_name,omitempty"`
}

// --- DTOs ---

// CreatePostRequest is the form payload bound from POST /posts.
type CreatePostRequest struct {
	Title   string `form:"title"`
	Summary string `form:"summary"`
	Body    string `form:"body"`
}

// CreatePostInput is the validated input for publishing a post.
type CreatePostInput struct {
	Title    string
	Summary  *string
	Body     string
	AuthorID string
}

// PostPage holds one page of the post feed plus pagination state.
type PostPage struct {
	Posts      []Post
	Page       int // 1-based current page.
	TotalPages int
	Total      int // Total published posts.
}

// HasPrev reports whether an earlier (newer) page exists.
func (p *PostPage) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a later (older) page exists.
func (p *PostPage) HasNext() bool {
	return p.Page < p.TotalPages
}
