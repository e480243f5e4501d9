package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/okunev/pingchat-server/internal/store/sqlite"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
		schema := `
		CREATE TABLE users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name     TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		`
		_, err := db.Exec(schema)
		return err
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return NewService(st, jwtConfig)
}

func TestRegister_RejectsMissingFields(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	cases := [][3]string{
		{"", "alice@example.com", "password123"},
		{"Alice", "", "password123"},
		{"Alice", "alice@example.com", ""},
		{"   ", "alice@example.com", "password123"},
	}
	for _, c := range cases {
		if _, err := svc.Register(ctx, c[0], c[1], c[2]); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields for %q/%q, got %v", c[0], c[1], err)
		}
	}
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("expected registration success, got %v", err)
	}

	// Emails are normalized, so a different case still collides.
	if _, err := svc.Register(ctx, "Other Alice", "ALICE@example.com", "password123"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if user.ID != registered.ID || user.FullName != "Alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResolveToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, token, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := svc.ResolveToken(ctx, token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if user.ID != registered.ID || user.Email != "alice@example.com" {
		t.Fatalf("unexpected resolved user: %+v", user)
	}

	if _, err := svc.ResolveToken(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
