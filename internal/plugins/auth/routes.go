package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ndbelyaev/inkwell/internal/middleware"
)

// RegisterRoutes sets up all auth-related routes. Auth routes are public
// (no session required) -- RequireAuth is exported separately for other
// plugins to use on their route groups.
//
// POST endpoints are rate-limited to slow brute-force and credential
// stuffing: 10 attempts per IP per minute for login, 5 for registration.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	e.GET("/registration", h.RegisterForm)
	e.POST("/registration", h.Register, middleware.RateLimit(5, time.Minute))
	e.GET("/logout", h.Logout)

	// AJAX variants used by the login/registration modal.
	e.POST("/login_modal", h.LoginModal, middleware.RateLimit(10, time.Minute))
	e.POST("/registration_modal", h.RegisterModal, middleware.RateLimit(5, time.Minute))
}
