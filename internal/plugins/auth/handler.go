package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ndbelyaev/inkwell/internal/apperror"
	"github.com/ndbelyaev/inkwell/internal/middleware"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "inkwell_session"

// Handler handles HTTP requests for authentication. Handlers are thin: they
// bind the request, call the service, and render the response. The form and
// modal endpoints share the same two workflows and differ only in how they
// bind input and shape output.
type Handler struct {
	service AuthService

	// rememberTTL sets the cookie MaxAge for "remember me" logins; other
	// logins get a browser-session cookie.
	rememberTTL time.Duration
}

// NewHandler creates an auth handler with the given service.
func NewHandler(service AuthService, rememberTTL time.Duration) *Handler {
	return &Handler{service: service, rememberTTL: rememberTTL}
}

// LoginForm renders the login page (GET /login).
func (h *Handler) LoginForm(c echo.Context) error {
	// An already-authenticated browser goes straight to the article list.
	if token := getSessionToken(c); token != "" {
		if _, err := h.service.ValidateSession(c.Request().Context(), token); err == nil {
			return c.Redirect(http.StatusSeeOther, "/")
		}
	}

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, LoginPage(csrfToken, "", ""))
}

// Login processes the login form submission (POST /login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	input := LoginInput{
		Name:     req.Name,
		Password: req.Password,
		Remember: req.Remember != "",
	}

	token, _, err := h.service.Login(c.Request().Context(), input)
	if err != nil {
		// Re-render the login form with the (always generic) message.
		csrfToken := middleware.GetCSRFToken(c)
		return middleware.Render(c, http.StatusOK, LoginPage(csrfToken, req.Name, apperror.SafeMessage(err)))
	}

	h.setSessionCookie(c, token, input.Remember)
	return c.Redirect(http.StatusSeeOther, "/")
}

// RegisterForm renders the signup page (GET /registration).
func (h *Handler) RegisterForm(c echo.Context) error {
	if token := getSessionToken(c); token != "" {
		if _, err := h.service.ValidateSession(c.Request().Context(), token); err == nil {
			return c.Redirect(http.StatusSeeOther, "/")
		}
	}

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK, RegisterPage(csrfToken, nil, ""))
}

// Register processes the signup form submission (POST /registration).
// Success sends the user to the login page; the form flow does not
// auto-login.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	if msg := validateRegisterRequest(&req); msg != "" {
		csrfToken := middleware.GetCSRFToken(c)
		return middleware.Render(c, http.StatusOK, RegisterPage(csrfToken, &req, msg))
	}

	input := RegisterInput{
		Email:       req.Email,
		DisplayName: req.Name,
		Password:    req.Password,
		Confirm:     req.Confirm,
	}

	if _, err := h.service.Register(c.Request().Context(), input); err != nil {
		csrfToken := middleware.GetCSRFToken(c)
		return middleware.Render(c, http.StatusOK, RegisterPage(csrfToken, &req, apperror.SafeMessage(err)))
	}

	middleware.SetFlash(c, "Account created. Please sign in.")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Logout destroys the session and clears the cookie (GET /logout).
// Logging out twice is harmless.
func (h *Handler) Logout(c echo.Context) error {
	if token := getSessionToken(c); token != "" {
		// Revoke the session. Ignore errors -- the cookie is cleared
		// regardless.
		_ = h.service.DestroySession(c.Request().Context(), token)
	}

	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/login")
}

// LoginModal is the AJAX login endpoint (POST /login_modal). It returns a
// JSON message string; the session cookie is set only on success.
func (h *Handler) LoginModal(c echo.Context) error {
	input := LoginInput{
		Name:     c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	token, _, err := h.service.Login(c.Request().Context(), input)
	if err != nil {
		return c.JSON(apperror.SafeCode(err), "Sign in failed")
	}

	h.setSessionCookie(c, token, false)
	return c.JSON(http.StatusOK, "Signed in")
}

// RegisterModal is the AJAX signup endpoint (POST /registration_modal).
// Unlike the form flow, a successful modal registration logs the new user
// in immediately.
func (h *Handler) RegisterModal(c echo.Context) error {
	input := RegisterInput{
		Email:       c.FormValue("email"),
		DisplayName: c.FormValue("username"),
		Password:    c.FormValue("password"),
		Confirm:     c.FormValue("password2"),
	}

	user, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		return c.JSON(apperror.SafeCode(err), apperror.SafeMessage(err))
	}

	token, _, err := h.service.Login(c.Request().Context(), LoginInput{
		Name:     user.DisplayName,
		Password: input.Password,
	})
	if err != nil {
		// Registration succeeded but the session didn't; the account is
		// usable from /login.
		return c.JSON(http.StatusOK, "Registered, please sign in")
	}

	h.setSessionCookie(c, token, false)
	return c.JSON(http.StatusOK, "Registered and signed in")
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie. HttpOnly, Secure behind TLS,
// SameSite=Lax. Remembered logins get a persistent cookie matching the
// server-side TTL; others expire with the browser session.
func (h *Handler) setSessionCookie(c echo.Context, token string, remember bool) {
	req := c.Request()
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(h.rememberTTL.Seconds())
	}
	c.SetCookie(cookie)
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// --- Validation helpers ---

// validateRegisterRequest performs basic server-side validation on the
// signup form. Returns an error message or empty string. The confirm
// mismatch is left to the service so both form and modal flows share it.
func validateRegisterRequest(req *RegisterRequest) string {
	if req.Email == "" {
		return "email is required"
	}
	if req.Name == "" {
		return "name is required"
	}
	if len(req.Name) < 2 {
		return "name must be at least 2 characters"
	}
	if len(req.Name) > 100 {
		return "name must be at most 100 characters"
	}
	if req.Password == "" {
		return "password is required"
	}
	if len(req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(req.Password) > 128 {
		return "password must be at most 128 characters"
	}
	return ""
}
