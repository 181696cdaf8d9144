package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

// newTestHandler builds a handler over a real service with an in-memory
// repository and miniredis sessions.
func newTestHandler(t *testing.T) (*Handler, AuthService, *memUserRepo) {
	t.Helper()
	repo := newMemUserRepo()
	svc := newTestAuthService(t, repo)
	return NewHandler(svc, 720*time.Hour), svc, repo
}

// registerTestUser creates an account directly through the service.
func registerTestUser(t *testing.T, svc AuthService, name, password string) {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       strings.ToLower(name) + "@example.com",
		DisplayName: name,
		Password:    password,
		Confirm:     password,
	})
	if err != nil {
		t.Fatalf("registering test user: %v", err)
	}
}

// postForm builds an Echo context for a form POST to the given path.
func postForm(path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// sessionCookie returns the session cookie from the response, or nil.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	return nil
}

// --- Form Login ---

func TestHandlerLogin_SuccessRedirectsHome(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	registerTestUser(t, svc, "alice", "secret-password-1")

	c, rec := postForm("/login", url.Values{
		"name":     {"alice"},
		"password": {"secret-password-1"},
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly session cookie")
	}
	if cookie.MaxAge != 0 {
		t.Errorf("expected browser-session cookie without remember, got MaxAge %d", cookie.MaxAge)
	}

	// The cookie's token resolves to a live session.
	if _, err := svc.ValidateSession(context.Background(), cookie.Value); err != nil {
		t.Errorf("expected cookie token to resolve: %v", err)
	}
}

func TestHandlerLogin_RememberSetsPersistentCookie(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	registerTestUser(t, svc, "alice", "secret-password-1")

	c, rec := postForm("/login", url.Values{
		"name":     {"alice"},
		"password": {"secret-password-1"},
		"remember": {"on"},
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	if cookie.MaxAge != int((720 * time.Hour).Seconds()) {
		t.Errorf("expected cookie MaxAge to match the remember TTL, got %d", cookie.MaxAge)
	}
}

func TestHandlerLogin_FailureRerendersForm(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	registerTestUser(t, svc, "alice", "secret-password-1")

	c, rec := postForm("/login", url.Values{
		"name":     {"alice"},
		"password": {"wrong"},
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionCookie(rec) != nil {
		t.Error("expected no session cookie on failed login")
	}
	if !strings.Contains(rec.Body.String(), loginFailedMessage) {
		t.Error("expected the generic failure message in the re-rendered form")
	}
	// The submitted name is preserved for the retry.
	if !strings.Contains(rec.Body.String(), `value="alice"`) {
		t.Error("expected the submitted name to be preserved")
	}
}

// --- Form Registration ---

func TestHandlerRegister_SuccessRedirectsToLogin(t *testing.T) {
	h, _, repo := newTestHandler(t)

	c, rec := postForm("/registration", url.Values{
		"email":     {"alice@example.com"},
		"name":      {"alice"},
		"password":  {"secret-password-1"},
		"password2": {"secret-password-1"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
	// The form flow does not auto-login.
	if sessionCookie(rec) != nil {
		t.Error("expected no session cookie from form registration")
	}
	if repo.count() != 1 {
		t.Errorf("expected 1 stored user, got %d", repo.count())
	}
}

func TestHandlerRegister_ValidationRerendersForm(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{
			"short password",
			url.Values{
				"email": {"a@example.com"}, "name": {"alice"},
				"password": {"short"}, "password2": {"short"},
			},
			"password must be at least 8 characters",
		},
		{
			"mismatched passwords",
			url.Values{
				"email": {"a@example.com"}, "name": {"alice"},
				"password": {"secret-password-1"}, "password2": {"different-password"},
			},
			"passwords do not match",
		},
		{
			"missing email",
			url.Values{
				"name": {"alice"}, "password": {"secret-password-1"}, "password2": {"secret-password-1"},
			},
			"email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, repo := newTestHandler(t)
			c, rec := postForm("/registration", tt.form)
			if err := h.Register(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("expected %q in the response body", tt.wantMsg)
			}
			if repo.count() != 0 {
				t.Errorf("expected no stored users, got %d", repo.count())
			}
		})
	}
}

func TestHandlerRegister_DuplicateNameShowsConflict(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	registerTestUser(t, svc, "alice", "secret-password-1")

	c, rec := postForm("/registration", url.Values{
		"email":     {"other@example.com"},
		"name":      {"alice"},
		"password":  {"another-password"},
		"password2": {"another-password"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), msgNameTaken) {
		t.Error("expected the name-taken message in the response")
	}
}

// --- Logout ---

func TestHandlerLogout_RevokesSessionAndClearsCookie(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	registerTestUser(t, svc, "alice", "secret-password-1")

	token, _, err := svc.Login(context.Background(), LoginInput{Name: "alice", Password: "secret-password-1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected cleared session cookie")
	}
	if cookie.MaxAge >= 0 && cookie.Value != "" {
		t.Error("expected the session cookie to be expired")
	}

	// The server-side session is gone.
	if _, err := svc.ValidateSession(context.Background(), token); err == nil {
		t.Error("expected the session to be revoked")
	}
}

func TestHandlerLogout_WithoutSessionStillRedirects(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

// --- Modal Endpoints ---

func TestHandlerLoginModal_Success(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	registerTestUser(t, svc, "alice", "secret-password-1")

	c, rec := postForm("/login_modal", url.Values{
		"username": {"alice"},
		"password": {"secret-password-1"},
	})
	if err := h.LoginModal(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Signed in") {
		t.Errorf("expected sign-in confirmation, got %q", rec.Body.String())
	}
	if sessionCookie(rec) == nil {
		t.Error("expected session cookie")
	}
}

func TestHandlerLoginModal_Failure(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	registerTestUser(t, svc, "alice", "secret-password-1")

	c, rec := postForm("/login_modal", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	if err := h.LoginModal(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Error("expected no session cookie on failure")
	}
}

func TestHandlerRegisterModal_AutoLogin(t *testing.T) {
	h, svc, _ := newTestHandler(t)

	c, rec := postForm("/registration_modal", url.Values{
		"email":     {"alice@example.com"},
		"username":  {"alice"},
		"password":  {"secret-password-1"},
		"password2": {"secret-password-1"},
	})
	if err := h.RegisterModal(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	// Modal registration signs the new account in immediately.
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie after modal registration")
	}
	session, err := svc.ValidateSession(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("expected a live session: %v", err)
	}
	if session.Name != "alice" {
		t.Errorf("expected session for alice, got %s", session.Name)
	}
}

func TestHandlerRegisterModal_Conflict(t *testing.T) {
	h, svc, _ := newTestHandler(t)
	registerTestUser(t, svc, "alice", "secret-password-1")

	c, rec := postForm("/registration_modal", url.Values{
		"email":     {"other@example.com"},
		"username":  {"alice"},
		"password":  {"another-password"},
		"password2": {"another-password"},
	})
	if err := h.RegisterModal(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgNameTaken) {
		t.Errorf("expected conflict message, got %q", rec.Body.String())
	}
	if sessionCookie(rec) != nil {
		t.Error("expected no session cookie on conflict")
	}
}

// --- RequireAuth Middleware ---

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	_, svc, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/posts/new", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := RequireAuth(svc)(next)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireAuth_PassesValidSession(t *testing.T) {
	_, svc, _ := newTestHandler(t)
	registerTestUser(t, svc, "alice", "secret-password-1")

	token, _, err := svc.Login(context.Background(), LoginInput{Name: "alice", Password: "secret-password-1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/posts/new", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	var sawUserID string
	next := func(c echo.Context) error {
		sawUserID = GetUserID(c)
		return c.NoContent(http.StatusOK)
	}
	if err := RequireAuth(svc)(next)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if sawUserID == "" {
		t.Error("expected the user ID in the request context")
	}
}
