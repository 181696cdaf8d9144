// flash.go implements one-shot flash messages carried in a short-lived
// cookie across a redirect. Set before redirecting; the next render takes
// the message and clears the cookie.
package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// flashCookieName is the cookie carrying a pending flash message.
const flashCookieName = "inkwell_flash"

// SetFlash stores a success message to be shown on the next page load.
func SetFlash(c echo.Context, message string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60, // A redirect follows immediately; a minute is plenty.
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlash returns the pending flash message, clearing it so it shows only
// once. Returns "" when there is none.
func TakeFlash(c echo.Context) string {
	cookie, err := c.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
