package blog

import (
	"github.com/labstack/echo/v4"

	"github.com/ndbelyaev/inkwell/internal/plugins/auth"
)

// RegisterRoutes sets up the blog routes. The feed and articles are public;
// authoring requires a session. Public routes run the non-rejecting session
// restore so the layout can show the logged-in state.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	restore := auth.Restore(authSvc)

	e.GET("/", h.Home, restore)
	e.GET("/blog/:slug", h.Show, restore)

	posts := e.Group("/posts", auth.RequireAuth(authSvc))
	posts.GET("/new", h.NewForm)
	posts.POST("", h.Create)
}
