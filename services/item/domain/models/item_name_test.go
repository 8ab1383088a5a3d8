package models

import (
	"strings"
	"testing"
)

func TestNewItemName(t *testing.T) {
	t.Run("valid single character", func(t *testing.T) {
		n, err := NewItemName("a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "a" {
			t.Fatalf("expected %q, got %q", "a", n.String())
		}
	})

	t.Run("long names are accepted", func(t *testing.T) {
		s := strings.Repeat("x", 1000)
		n, err := NewItemName(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != s {
			t.Fatalf("expected string of length 1000, got %d", len(n.String()))
		}
	})

	t.Run("whitespace is kept as given", func(t *testing.T) {
		n, err := NewItemName("  padded  ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "  padded  " {
			t.Fatalf("name was altered: %q", n.String())
		}
	})

	t.Run("empty string returns error", func(t *testing.T) {
		if _, err := NewItemName(""); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestItemName_String(t *testing.T) {
	n := ItemName("hello")
	if n.String() != "hello" {
		t.Fatalf("expected %q, got %q", "hello", n.String())
	}
}
