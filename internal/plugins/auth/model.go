// Package auth handles user accounts, password security, and browser
// sessions for Inkwell. It provides registration, login (form and modal
// variants), logout, and session validation via opaque tokens in Redis.
package auth

import (
	"time"
)

// User represents a registered account. This is the domain model used
// throughout the application; database scanning uses it directly.
//
// ID is assigned once at creation and never changes. DisplayName is the
// case-sensitive login handle; both it and Email are unique across all
// users, enforced by the database schema.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted by the registration form.
// Field names match the legacy form inputs.
type RegisterRequest struct {
	Email    string `form:"email"`
	Name     string `form:"name"`
	Password string `form:"password"`
	Confirm  string `form:"password2"`
}

// LoginRequest holds the data submitted by the login form.
type LoginRequest struct {
	Name     string `form:"name"`
	Password string `form:"password"`
	Remember string `form:"remember"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the input for creating a new user. Confirm is checked
// by the service before anything else touches the store.
type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
	Confirm     string
}

// LoginInput is the input for authenticating a user.
type LoginInput struct {
	Name     string
	Password string
	Remember bool
}

// --- Session ---

// Session is the server-side record of an authenticated browser, stored in
// Redis keyed by an opaque token. Remember controls both the Redis TTL and
// the cookie lifetime.
type Session struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Remember  bool      `json:"remember"`
	CreatedAt time.Time `json:"created_at"`
}
