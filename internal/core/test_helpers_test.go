package core

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/okunev/pingchat-server/internal/store"
	"github.com/okunev/pingchat-server/internal/store/sqlite"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
			return nil
		}
	}
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func drainEvents(ch <-chan *Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// newTestStore creates an in-memory SQLite store with schema applied.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	schema := `
	CREATE TABLE users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name     TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE messages (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		sender_id   INTEGER NOT NULL,
		receiver_id INTEGER NOT NULL,
		body        TEXT NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	st, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func createTestUser(t *testing.T, st store.UserStore, fullName, email string) *store.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), fullName, email, "hash")
	if err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func newTestSessions() (*Registry, *SessionManager) {
	registry := NewRegistry()
	logger := zerolog.New(nil)
	return registry, NewSessionManager(registry, &logger)
}
