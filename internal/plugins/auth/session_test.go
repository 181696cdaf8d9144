package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// newTestSessionManager spins up a miniredis instance and a manager over it.
func newTestSessionManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionManager(client, 1*time.Hour, 720*time.Hour), mr
}

func TestSessionManager_EstablishAndRestore(t *testing.T) {
	m, _ := newTestSessionManager(t)
	ctx := context.Background()

	user := &User{ID: "user-123", DisplayName: "alice"}
	token, err := m.Establish(ctx, user, false)
	if err != nil {
		t.Fatalf("establish failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	session, err := m.Restore(ctx, token)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if session.UserID != "user-123" {
		t.Errorf("expected user-123, got %s", session.UserID)
	}
	if session.Name != "alice" {
		t.Errorf("expected alice, got %s", session.Name)
	}
	if session.Remember {
		t.Error("expected remember to be false")
	}
}

func TestSessionManager_RestoreUnknownToken(t *testing.T) {
	m, _ := newTestSessionManager(t)

	_, err := m.Restore(context.Background(), "no-such-token")
	assertAppError(t, err, 401)
}

func TestSessionManager_RestoreEmptyToken(t *testing.T) {
	m, _ := newTestSessionManager(t)

	_, err := m.Restore(context.Background(), "")
	assertAppError(t, err, 401)
}

func TestSessionManager_RememberTTL(t *testing.T) {
	m, mr := newTestSessionManager(t)
	ctx := context.Background()
	user := &User{ID: "user-123", DisplayName: "alice"}

	short, err := m.Establish(ctx, user, false)
	if err != nil {
		t.Fatalf("establish failed: %v", err)
	}
	long, err := m.Establish(ctx, user, true)
	if err != nil {
		t.Fatalf("establish failed: %v", err)
	}

	shortTTL := mr.TTL(sessionKeyPrefix + short)
	longTTL := mr.TTL(sessionKeyPrefix + long)
	if shortTTL != 1*time.Hour {
		t.Errorf("expected 1h TTL for plain session, got %v", shortTTL)
	}
	if longTTL != 720*time.Hour {
		t.Errorf("expected 720h TTL for remembered session, got %v", longTTL)
	}
}

func TestSessionManager_ExpiredTokenNeverResolves(t *testing.T) {
	m, mr := newTestSessionManager(t)
	ctx := context.Background()

	token, err := m.Establish(ctx, &User{ID: "user-123", DisplayName: "alice"}, false)
	if err != nil {
		t.Fatalf("establish failed: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	_, err = m.Restore(ctx, token)
	assertAppError(t, err, 401)
}

func TestSessionManager_RevokeThenRestore(t *testing.T) {
	m, _ := newTestSessionManager(t)
	ctx := context.Background()

	token, err := m.Establish(ctx, &User{ID: "user-123", DisplayName: "alice"}, true)
	if err != nil {
		t.Fatalf("establish failed: %v", err)
	}

	if err := m.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	// A revoked token never resolves again.
	_, err = m.Restore(ctx, token)
	assertAppError(t, err, 401)
}

func TestSessionManager_RevokeIdempotent(t *testing.T) {
	m, _ := newTestSessionManager(t)
	ctx := context.Background()

	token, err := m.Establish(ctx, &User{ID: "user-123", DisplayName: "alice"}, false)
	if err != nil {
		t.Fatalf("establish failed: %v", err)
	}

	if err := m.Revoke(ctx, token); err != nil {
		t.Fatalf("first revoke failed: %v", err)
	}
	if err := m.Revoke(ctx, token); err != nil {
		t.Fatalf("second revoke should be a no-op, got: %v", err)
	}
	if err := m.Revoke(ctx, "never-existed"); err != nil {
		t.Fatalf("revoking an unknown token should be a no-op, got: %v", err)
	}
	if err := m.Revoke(ctx, ""); err != nil {
		t.Fatalf("revoking an empty token should be a no-op, got: %v", err)
	}
}

func TestSessionManager_TamperedRecord(t *testing.T) {
	m, mr := newTestSessionManager(t)
	ctx := context.Background()

	token, err := m.Establish(ctx, &User{ID: "user-123", DisplayName: "alice"}, false)
	if err != nil {
		t.Fatalf("establish failed: %v", err)
	}

	// Corrupt the stored record; restore must fail closed, not panic.
	mr.Set(sessionKeyPrefix+token, "{not json")

	_, err = m.Restore(ctx, token)
	assertAppError(t, err, 401)
}

func TestSessionManager_TokensAreUnique(t *testing.T) {
	m, _ := newTestSessionManager(t)
	ctx := context.Background()
	user := &User{ID: "user-123", DisplayName: "alice"}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := m.Establish(ctx, user, false)
		if err != nil {
			t.Fatalf("establish failed: %v", err)
		}
		if seen[token] {
			t.Fatalf("token collision after %d sessions", i)
		}
		seen[token] = true
	}
}
