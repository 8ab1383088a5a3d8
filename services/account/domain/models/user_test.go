package models

import (
	"testing"
	"time"
)

func TestNewUsername(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		u, err := NewUsername("testuser")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.String() != "testuser" {
			t.Fatalf("expected %q, got %q", "testuser", u.String())
		}
	})

	t.Run("whitespace is kept verbatim", func(t *testing.T) {
		u, err := NewUsername(" spaced ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.String() != " spaced " {
			t.Fatalf("expected untouched value, got %q", u.String())
		}
	})

	t.Run("empty returns error", func(t *testing.T) {
		if _, err := NewUsername(""); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestNewUser(t *testing.T) {
	t.Run("sets fields and leaves ID unassigned", func(t *testing.T) {
		before := time.Now().UTC()
		u, err := NewUser("alice", "$2a$10$hash")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.ID != 0 {
			t.Fatalf("expected zero ID before persistence, got %d", u.ID)
		}
		if u.Username != "alice" || u.PasswordHash != "$2a$10$hash" {
			t.Fatalf("unexpected user: %+v", u)
		}
		if u.CreatedAt.Before(before) {
			t.Fatalf("CreatedAt %v before %v", u.CreatedAt, before)
		}
	})

	t.Run("empty hash returns error", func(t *testing.T) {
		if _, err := NewUser("alice", ""); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
