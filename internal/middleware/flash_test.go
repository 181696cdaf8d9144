package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestFlash_RoundTrip(t *testing.T) {
	e := echo.New()

	// First request sets the flash.
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/registration", nil), rec)
	SetFlash(c, "Account created. Please sign in.")

	var flashCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == flashCookieName {
			flashCookie = cookie
		}
	}
	if flashCookie == nil {
		t.Fatal("expected flash cookie to be set")
	}

	// The redirected request carries the cookie and takes the message.
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(flashCookie)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req, rec2)

	if msg := TakeFlash(c2); msg != "Account created. Please sign in." {
		t.Errorf("expected flash message back, got %q", msg)
	}

	// Taking the flash clears the cookie.
	var cleared *http.Cookie
	for _, cookie := range rec2.Result().Cookies() {
		if cookie.Name == flashCookieName {
			cleared = cookie
		}
	}
	if cleared == nil || cleared.MaxAge != -1 {
		t.Error("expected the flash cookie to be expired after take")
	}
}

func TestTakeFlash_NoCookie(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if msg := TakeFlash(c); msg != "" {
		t.Errorf("expected empty flash, got %q", msg)
	}
}
