package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ndbelyaev/inkwell/internal/apperror"
)

// sessionKeyPrefix is the Redis key prefix for session data.
const sessionKeyPrefix = "session:"

// sessionTokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const sessionTokenBytes = 32

// SessionManager owns the lifecycle of browser sessions: it issues opaque
// tokens bound to one user, resolves them on subsequent requests, and
// revokes them on logout. Sessions live in Redis with a TTL that depends on
// the remember flag, so an expired or revoked token can never resolve again.
type SessionManager struct {
	redis       *redis.Client
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

// NewSessionManager creates a session manager over the given Redis client.
// sessionTTL bounds ordinary (browser-lifetime) sessions server-side;
// rememberTTL applies when the user asked to stay signed in.
func NewSessionManager(rdb *redis.Client, sessionTTL, rememberTTL time.Duration) *SessionManager {
	return &SessionManager{
		redis:       rdb,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
	}
}

// Establish creates a new session for the user and returns its token.
func (m *SessionManager) Establish(ctx context.Context, user *User, remember bool) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	session := Session{
		UserID:    user.ID,
		Name:      user.DisplayName,
		Remember:  remember,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}

	ttl := m.sessionTTL
	if remember {
		ttl = m.rememberTTL
	}

	if err := m.redis.Set(ctx, sessionKeyPrefix+token, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("storing session in redis: %w", err)
	}

	return token, nil
}

// Restore resolves a token to its session. Missing, expired, or tampered
// tokens yield an unauthorized error, never a panic -- callers treat it as
// "not logged in".
func (m *SessionManager) Restore(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}

	data, err := m.redis.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading session from redis: %w", err))
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupted record is as good as no session.
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}

	return &session, nil
}

// Revoke deletes a session. Idempotent: revoking an absent or already
// revoked token is a no-op, not an error.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting session from redis: %w", err))
	}
	return nil
}

// generateSessionToken creates a cryptographically random hex-encoded token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
