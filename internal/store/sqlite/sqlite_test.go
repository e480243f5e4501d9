package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okunev/pingchat-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *SQLiteStore, fullName, email string) *store.User {
	t.Helper()

	user, err := s.CreateUser(context.Background(), fullName, email, "hash")
	if err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func TestUserLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "Alice", "alice@example.com")

	byID, err := s.GetUserByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.FullName != "Alice" || byID.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", byID)
	}

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != alice.ID {
		t.Fatalf("expected same user, got %+v", byEmail)
	}

	if _, err := s.GetUserByID(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "Alice", "alice@example.com")

	if _, err := s.CreateUser(ctx, "Other", "alice@example.com", "hash"); err == nil {
		t.Fatalf("expected unique constraint violation")
	}
}

func TestListUsersExcludesRequester(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "Alice", "alice@example.com")
	seedUser(t, s, "Bob", "bob@example.com")
	seedUser(t, s, "Charlie", "charlie@example.com")

	users, err := s.ListUsers(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.ID == alice.ID {
			t.Fatalf("requester should be excluded")
		}
	}
}

func TestConversationBothDirections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "Alice", "alice@example.com")
	bob := seedUser(t, s, "Bob", "bob@example.com")
	charlie := seedUser(t, s, "Charlie", "charlie@example.com")

	now := time.Now().UTC()
	msgs := []*store.Message{
		{SenderID: alice.ID, ReceiverID: bob.ID, Body: "hi bob", CreatedAt: now},
		{SenderID: bob.ID, ReceiverID: alice.ID, Body: "hi alice", CreatedAt: now},
		{SenderID: alice.ID, ReceiverID: charlie.ID, Body: "hi charlie", CreatedAt: now},
	}
	for _, m := range msgs {
		if err := s.SaveMessage(ctx, m); err != nil {
			t.Fatalf("save message: %v", err)
		}
		if m.ID == 0 {
			t.Fatalf("expected message id to be set")
		}
	}

	conv, err := s.ListConversation(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("list conversation: %v", err)
	}
	if len(conv) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv))
	}
	// Chronological order regardless of direction.
	if conv[0].Body != "hi bob" || conv[1].Body != "hi alice" {
		t.Fatalf("unexpected order: %+v", conv)
	}

	// Same conversation from the other side.
	conv2, err := s.ListConversation(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("list conversation: %v", err)
	}
	if len(conv2) != 2 {
		t.Fatalf("expected symmetric conversation, got %d", len(conv2))
	}

	empty, err := s.ListConversation(ctx, bob.ID, charlie.ID)
	if err != nil {
		t.Fatalf("list conversation: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty conversation, got %+v", empty)
	}
}
