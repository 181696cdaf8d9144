package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndbelyaev/inkwell/internal/apperror"
)

// loginFailedMessage is the single message for every login failure. Unknown
// names and wrong passwords must be indistinguishable to the client.
const loginFailedMessage = "invalid login or password"

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (token string, user *User, err error)
	ValidateSession(ctx context.Context, token string) (*Session, error)
	DestroySession(ctx context.Context, token string) error
}

// authService implements AuthService with argon2id hashing and Redis
// sessions via the SessionManager.
type authService struct {
	repo     UserRepository
	sessions *SessionManager
}

// NewAuthService creates an auth service with the given dependencies.
func NewAuthService(repo UserRepository, sessions *SessionManager) AuthService {
	return &authService{
		repo:     repo,
		sessions: sessions,
	}
}

// Register creates a new user account.
//
// The confirm check runs first and touches nothing on failure. The
// name/email existence checks are a fast path that avoids the expensive
// hash for the common duplicate case; the insert's unique indexes remain
// authoritative, so a registration that loses a race still comes back as
// the same conflict error.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if input.Password != input.Confirm {
		return nil, apperror.NewValidation("passwords do not match")
	}

	name := strings.TrimSpace(input.DisplayName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	taken, err := s.repo.NameExists(ctx, name)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking name: %w", err))
	}
	if taken {
		return nil, apperror.NewConflict(msgNameTaken)
	}

	taken, err = s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if taken {
		return nil, apperror.NewConflict(msgEmailTaken)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			// Lost a race against a concurrent registration; the store's
			// conflict error already names the colliding field.
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("name", user.DisplayName),
	)

	return user, nil
}

// Login authenticates a user by display name and password. On success it
// establishes a session and returns the token for the cookie.
//
// Unknown name and wrong password produce the identical error. When the
// name doesn't exist we still verify against a dummy hash so the response
// time has the same shape either way.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	user, err := s.repo.FindByName(ctx, input.Name)
	if err != nil {
		if isNotFound(err) {
			verifyPassword(input.Password, dummyHash)
			return "", nil, apperror.NewUnauthorized(loginFailedMessage)
		}
		return "", nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return "", nil, apperror.NewUnauthorized(loginFailedMessage)
	}

	token, err := s.sessions.Establish(ctx, user, input.Remember)
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("establishing session: %w", err))
	}

	// Best-effort: a failed timestamp update shouldn't fail the login.
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("failed to update last login",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.Bool("remember", input.Remember),
	)

	return token, user, nil
}

// ValidateSession resolves a session token, returning the session data if
// it exists and hasn't expired.
func (s *authService) ValidateSession(ctx context.Context, token string) (*Session, error) {
	return s.sessions.Restore(ctx, token)
}

// DestroySession revokes a session (logout). Safe to call with an invalid
// or already-revoked token.
func (s *authService) DestroySession(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// isNotFound reports whether err is an apperror with a 404 code.
func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == 404
}
