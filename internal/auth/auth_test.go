package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/wordduel/apps/go-server/assets"
	"github.com/robalobadob/wordduel/apps/go-server/internal/db"
)

func openUsers(t *testing.T) *Users {
	t.Helper()
	sqlDB, err := db.OpenMigrated(filepath.Join(t.TempDir(), "app.db"), assets.Migrations())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewUsers(sqlDB)
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		user, pass string
		ok         bool
	}{
		{"alice", "password1", true},
		{"al", "password1", false},
		{"bad name", "password1", false},
		{"alice", "short", false},
	}
	for _, tt := range tests {
		err := ValidateSignup(tt.user, tt.pass)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateSignup(%q, %q) = %v, want ok=%v", tt.user, tt.pass, err, tt.ok)
		}
	}
}

func TestCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	users := openUsers(t)

	u, err := users.Create(ctx, " Alice ", "password1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Username != "Alice" {
		t.Fatalf("username not trimmed: %q", u.Username)
	}
	if _, err := users.Create(ctx, "alice", "password2"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	got, err := users.ByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("ByUsername: %v", err)
	}
	if got.ID != u.ID || !CheckPassword(got.PasswordHash, "password1") {
		t.Fatalf("unexpected user %+v", got)
	}
	if CheckPassword(got.PasswordHash, "wrong-password") {
		t.Fatal("wrong password accepted")
	}
	if _, err := users.ByID(ctx, "missing"); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestBumpStats(t *testing.T) {
	ctx := context.Background()
	users := openUsers(t)
	u, err := users.Create(ctx, "bob_1", "password1")
	if err != nil {
		t.Fatal(err)
	}

	for _, won := range []bool{true, true, false, true} {
		tx, err := users.db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := BumpStats(ctx, tx, u.ID, won); err != nil {
			t.Fatalf("BumpStats: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatal(err)
		}
	}

	got, err := users.ByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.GamesPlayed != 4 || got.Wins != 3 || got.Streak != 1 {
		t.Fatalf("stats = %d/%d/%d", got.GamesPlayed, got.Wins, got.Streak)
	}
}

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	tok, exp, err := s.Sign("u1", "alice")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry in the past")
	}
	c, err := s.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.ID != "u1" || c.Username != "alice" {
		t.Fatalf("claims = %+v", c)
	}

	if _, err := NewSigner("other", time.Hour).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestSignerExpired(t *testing.T) {
	s := NewSigner("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, _, err := s.Sign("u1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	s.now = time.Now
	if _, err := s.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestGenID(t *testing.T) {
	a, b := GenID(), GenID()
	if len(a) != 22 || a == b {
		t.Fatalf("GenID gave %q and %q", a, b)
	}
}
