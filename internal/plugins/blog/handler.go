package blog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ndbelyaev/inkwell/internal/apperror"
	"github.com/ndbelyaev/inkwell/internal/middleware"
	"github.com/ndbelyaev/inkwell/internal/plugins/auth"
)

// Handler processes HTTP requests for the blog plugin.
type Handler struct {
	service BlogService
}

// NewHandler creates a new blog Handler.
func NewHandler(service BlogService) *Handler {
	return &Handler{service: service}
}

// Home renders the paginated post feed.
// GET /?page=N
func (h *Handler) Home(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	feed, err := h.service.ListPosts(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, FeedPage(feed))
}

// Show renders a single article.
// GET /blog/:slug
func (h *Handler) Show(c echo.Context) error {
	post, err := h.service.GetPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, PostPageView(post))
}

// NewForm renders the authoring form.
// GET /posts/new (requires auth)
func (h *Handler) NewForm(c echo.Context) error {
	return middleware.Render(c, http.StatusOK,
		NewPostPage(middleware.GetCSRFToken(c), nil, ""))
}

// Create publishes a new post and redirects to it.
// POST /posts (requires auth)
func (h *Handler) Create(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return middleware.Render(c, http.StatusBadRequest,
			NewPostPage(middleware.GetCSRFToken(c), &req, "invalid form submission"))
	}

	var summary *string
	if s := strings.TrimSpace(req.Summary); s != "" {
		summary = &s
	}

	post, err := h.service.CreatePost(c.Request().Context(), CreatePostInput{
		Title:    req.Title,
		Summary:  summary,
		Body:     req.Body,
		AuthorID: auth.GetUserID(c),
	})
	if err != nil {
		// Validation failures re-render the form with the input preserved.
		return middleware.Render(c, apperror.SafeCode(err),
			NewPostPage(middleware.GetCSRFToken(c), &req, apperror.SafeMessage(err)))
	}

	return c.Redirect(http.StatusSeeOther, "/blog/"+post.Slug)
}
