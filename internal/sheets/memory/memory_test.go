package memory

import (
	"context"
	"testing"

	"bilan/internal/core"
)

func TestAppendSummary(t *testing.T) {
	s := New()
	rows := []core.MonthlySummary{
		{Period: "2025-01", TotalSalary: 3700, TotalExpenses: 1350.50},
	}

	ref, err := s.AppendSummary(context.Background(), "sess-1", "calendar", rows)
	if err != nil {
		t.Fatal(err)
	}
	if ref != "mem:1" {
		t.Fatalf("unexpected ref %q", ref)
	}

	batches := s.Batches()
	if len(batches) != 1 || batches[0].SessionID != "sess-1" || batches[0].Cycle != "calendar" {
		t.Fatalf("unexpected batches: %+v", batches)
	}
	if len(batches[0].Rows) != 1 || batches[0].Rows[0].Period != "2025-01" {
		t.Fatalf("unexpected rows: %+v", batches[0].Rows)
	}
}

func TestAppendSummaryEmpty(t *testing.T) {
	s := New()
	if _, err := s.AppendSummary(context.Background(), "sess-1", "calendar", nil); err != core.ErrNoTransactions {
		t.Fatalf("expected ErrNoTransactions, got %v", err)
	}
}
