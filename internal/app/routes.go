package app

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ndbelyaev/inkwell/internal/middleware"
	"github.com/ndbelyaev/inkwell/internal/plugins/auth"
	"github.com/ndbelyaev/inkwell/internal/plugins/blog"
	"github.com/ndbelyaev/inkwell/internal/templates/layouts"
	"github.com/ndbelyaev/inkwell/internal/templates/pages"
)

// RegisterRoutes builds each plugin's stack (repository, service, handler)
// and registers all application routes. This is the single place where
// routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Auth plugin ---
	userRepo := auth.NewUserRepository(a.DB)
	sessions := auth.NewSessionManager(a.Redis, a.Config.Auth.SessionTTL, a.Config.Auth.RememberTTL)
	authSvc := auth.NewAuthService(userRepo, sessions)
	authHandler := auth.NewHandler(authSvc, a.Config.Auth.RememberTTL)
	auth.RegisterRoutes(e, authHandler)

	// --- Blog plugin ---
	postRepo := blog.NewPostRepository(a.DB)
	blogSvc := blog.NewBlogService(postRepo, a.Config.Blog.PageSize)
	blogHandler := blog.NewHandler(blogSvc)
	blog.RegisterRoutes(e, blogHandler, authSvc)

	// --- Standalone pages ---
	e.GET("/about", func(c echo.Context) error {
		return middleware.Render(c, http.StatusOK, pages.About())
	}, auth.Restore(authSvc))

	// Health check endpoint for container orchestration. Verifies both
	// backing stores, not just process liveness.
	e.GET("/healthz", func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := a.DB.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
		}
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// The layout injector bridges the Echo context (populated by the auth
	// middleware and CSRF) into the Go context Templ components render with.
	middleware.LayoutInjector = func(c echo.Context, ctx context.Context) context.Context {
		if session := auth.GetSession(c); session != nil {
			ctx = layouts.SetIsAuthenticated(ctx, true)
			ctx = layouts.SetUserID(ctx, session.UserID)
			ctx = layouts.SetUserName(ctx, session.Name)
		}
		if msg := middleware.TakeFlash(c); msg != "" {
			ctx = layouts.SetFlashSuccess(ctx, msg)
		}
		ctx = layouts.SetCSRFToken(ctx, middleware.GetCSRFToken(c))
		ctx = layouts.SetActivePath(ctx, c.Request().URL.Path)
		return ctx
	}
}
