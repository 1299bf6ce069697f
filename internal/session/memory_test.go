package session

import (
	"context"
	"testing"
	"time"

	"bilan/internal/core"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(10, time.Minute)
	ctx := context.Background()

	txns := []core.Transaction{
		{Month: "2025-01", Category: "Courses", Amount: core.Money{Cents: -1000}},
	}
	if err := s.Save(ctx, "abc", txns); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Category != "Courses" {
		t.Fatalf("unexpected transactions: %+v", got)
	}

	if err := s.Delete(ctx, "abc"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "abc"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(10, time.Millisecond)
	ctx := context.Background()

	if err := s.Save(ctx, "abc", nil); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := s.Get(ctx, "abc"); err != ErrNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Fatalf("IDs should be unique and non-empty: %q %q", a, b)
	}
}
