package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndbelyaev/inkwell/internal/apperror"
	"github.com/ndbelyaev/inkwell/internal/sanitize"
)

// BlogService defines the business logic contract for the post feed.
type BlogService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*Post, error)
	GetPost(ctx context.Context, slug string) (*Post, error)
	ListPosts(ctx context.Context, page int) (*PostPage, error)
}

// blogService implements BlogService.
type blogService struct {
	repo     PostRepository
	pageSize int
}

// NewBlogService creates a blog service with the configured feed page size.
func NewBlogService(repo PostRepository, pageSize int) BlogService {
	if pageSize < 1 {
		pageSize = 5
	}
	return &blogService{repo: repo, pageSize: pageSize}
}

// CreatePost validates input, sanitizes the body HTML, derives a URL slug
// from the title, and publishes the post. A slug collision with an existing
// post is resolved by suffixing a short unique fragment and retrying once.
func (s *blogService) CreatePost(ctx context.Context, input CreatePostInput) (*Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewValidation("post title is required")
	}
	if len(title) > 200 {
		return nil, apperror.NewValidation("post title must be at most 200 characters")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, apperror.NewValidation("post body is required")
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.NewString(),
		Slug:      slugify(title),
		Title:     title,
		Summary:   input.Summary,
		Body:      input.Body,
		BodyHTML:  sanitize.HTML(input.Body),
		AuthorID:  input.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(ctx, post)
	if apperror.SafeCode(err) == 409 {
		// Another post already owns this slug -- disambiguate and retry.
		post.Slug = post.Slug + "-" + post.ID[:8]
		err = s.repo.Create(ctx, post)
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating post: %w", err))
	}

	return post, nil
}

// GetPost retrieves a post by its URL slug.
func (s *blogService) GetPost(ctx context.Context, slug string) (*Post, error) {
	if slug == "" {
		return nil, apperror.NewNotFound("post not found")
	}
	return s.repo.FindBySlug(ctx, slug)
}

// ListPosts returns one page of the feed, newest first. Out-of-range pages
// are clamped rather than erroring: page < 1 becomes 1, and a page past the
// end returns the last non-empty page (or an empty first page when there are
// no posts at all).
func (s *blogService) ListPosts(ctx context.Context, page int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}

	posts, total, err := s.repo.ListPage(ctx, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing posts: %w", err))
	}

	totalPages := (total + s.pageSize - 1) / s.pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
		posts, _, err = s.repo.ListPage(ctx, (page-1)*s.pageSize, s.pageSize)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("listing posts: %w", err))
		}
	}

	return &PostPage{
		Posts:      posts,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// slugify turns a post title into a lowercase, hyphen-separated URL slug.
// Non-alphanumeric runs collapse to a single hyphen; everything outside
// ASCII letters and digits is dropped.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // Suppress a leading hyphen.
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "post"
	}
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	return slug
}
