package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bilan/internal/core"
	"bilan/internal/session"
)

type archiveCall struct {
	sessionID string
	cycle     string
	rows      []core.MonthlySummary
}

type fakeArchiver struct {
	mu    sync.Mutex
	calls []archiveCall
	err   error
}

func (f *fakeArchiver) ArchiveSummary(_ context.Context, sessionID, cycle string, rows []core.MonthlySummary) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.calls = append(f.calls, archiveCall{sessionID: sessionID, cycle: cycle, rows: rows})
	return int64(len(f.calls)), nil
}

func newTestService(t *testing.T, archive Archiver) *AnalysisService {
	t.Helper()
	store := session.NewMemoryStore(10, time.Minute)
	return NewAnalysisService(store, archive, nil, core.DefaultPolicy(), core.DefaultRules())
}

func sampleTransactions(t *testing.T) []core.Transaction {
	t.Helper()
	return []core.Transaction{
		{
			DateOp:   mustDate(t, "2025-01-28"),
			Month:    "2025-01",
			Category: "Salaire fixe",
			Amount:   core.Money{Cents: 370000},
		},
		{
			DateOp:         mustDate(t, "2025-01-30"),
			Month:          "2025-01",
			Category:       "Loyers, charges",
			CategoryParent: "Logement",
			Amount:         core.Money{Cents: -90000},
		},
		{
			DateOp:         mustDate(t, "2025-02-10"),
			Month:          "2025-02",
			Category:       "Courses",
			CategoryParent: "Vie quotidienne",
			Amount:         core.Money{Cents: -5000},
			Supplier:       "E.LECLERC PARIS",
		},
		{
			DateOp:   mustDate(t, "2025-02-26"),
			Month:    "2025-02",
			Category: "Salaire fixe",
			Amount:   core.Money{Cents: 370000},
		},
	}
}

func TestAnalysisService_Analyze_Calendar(t *testing.T) {
	archive := &fakeArchiver{}
	svc := newTestService(t, archive)

	result, err := svc.Analyze(context.Background(), sampleTransactions(t), AnalyzeOptions{
		Cycle:          CycleCalendar,
		BreakdownStyle: BreakdownEnhanced,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("expected a session ID")
	}
	if len(result.Summaries) != 2 {
		t.Fatalf("expected 2 periods, got %d: %+v", len(result.Summaries), result.Summaries)
	}
	if result.Summaries[0].Period != "2025-01" || result.Summaries[1].Period != "2025-02" {
		t.Fatalf("unexpected period order: %+v", result.Summaries)
	}
	if got := result.Summaries[0].TotalSalary; got != 3700.0 {
		t.Errorf("january salary = %v, want 3700", got)
	}
	if got := result.Summaries[0].TotalExpenses; got != 900.0 {
		t.Errorf("january expenses = %v, want 900", got)
	}
	if len(result.Breakdown) == 0 {
		t.Fatal("expected a breakdown")
	}
	if result.Breakdown[0].Kind != core.KindSalary {
		t.Errorf("first breakdown row kind = %s, want %s", result.Breakdown[0].Kind, core.KindSalary)
	}

	archive.mu.Lock()
	defer archive.mu.Unlock()
	if len(archive.calls) != 1 {
		t.Fatalf("expected 1 archive call, got %d", len(archive.calls))
	}
	if archive.calls[0].cycle != CycleCalendar {
		t.Errorf("archived cycle = %q, want %q", archive.calls[0].cycle, CycleCalendar)
	}
	if len(archive.calls[0].rows) != 2 {
		t.Errorf("archived %d rows, want 2", len(archive.calls[0].rows))
	}
}

func TestAnalysisService_Analyze_SalaryCycle(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.Analyze(context.Background(), sampleTransactions(t), AnalyzeOptions{Cycle: CycleSalary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Summaries) != 2 {
		t.Fatalf("expected 2 salary periods, got %d: %+v", len(result.Summaries), result.Summaries)
	}
	if result.Summaries[0].Period != "2025-01-28 to 2025-02-25" {
		t.Errorf("first period = %q", result.Summaries[0].Period)
	}
}

func TestAnalysisService_Analyze_UnknownCycle(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.Analyze(context.Background(), sampleTransactions(t), AnalyzeOptions{Cycle: "weekly"}); err == nil {
		t.Fatal("expected error for unknown cycle")
	}
}

func TestAnalysisService_Analyze_UnknownBreakdownStyle(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Analyze(context.Background(), sampleTransactions(t), AnalyzeOptions{
		Cycle:          CycleCalendar,
		BreakdownStyle: "fancy",
	})
	if err == nil {
		t.Fatal("expected error for unknown breakdown style")
	}
}

func TestAnalysisService_Analyze_FilterAtypical(t *testing.T) {
	svc := newTestService(t, nil)

	txns := append(sampleTransactions(t), core.Transaction{
		DateOp:         mustDate(t, "2025-03-15"),
		Month:          "2025-03",
		Category:       "Voyages",
		CategoryParent: "Loisirs",
		Amount:         core.Money{Cents: -500000},
	})

	result, err := svc.Analyze(context.Background(), txns, AnalyzeOptions{
		Cycle:          CycleCalendar,
		FilterAtypical: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ExcludedPeriods) != 1 || result.ExcludedPeriods[0] != "2025-03" {
		t.Fatalf("excluded periods = %v, want [2025-03]", result.ExcludedPeriods)
	}
	for _, s := range result.Summaries {
		if s.Period == "2025-03" {
			t.Fatal("atypical period should have been filtered out")
		}
	}
}

func TestAnalysisService_Analyze_ArchiveErrorDoesNotFail(t *testing.T) {
	archive := &fakeArchiver{err: errors.New("disk full")}
	svc := newTestService(t, archive)

	result, err := svc.Analyze(context.Background(), sampleTransactions(t), AnalyzeOptions{Cycle: CycleCalendar})
	if err != nil {
		t.Fatalf("analysis should succeed despite archive error: %v", err)
	}
	if len(result.Summaries) != 2 {
		t.Fatalf("expected summaries, got %+v", result.Summaries)
	}
}

func TestAnalysisService_Analyze_NoTransactions(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.Analyze(context.Background(), nil, AnalyzeOptions{Cycle: CycleCalendar}); !errors.Is(err, core.ErrNoTransactions) {
		t.Fatalf("expected ErrNoTransactions, got %v", err)
	}
}

func TestAnalysisService_PeriodBreakdown(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	result, err := svc.Analyze(ctx, sampleTransactions(t), AnalyzeOptions{Cycle: CycleCalendar})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := svc.PeriodBreakdown(ctx, result.SessionID, "2025-02", BreakdownEnhanced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawLeclerc bool
	for _, row := range rows {
		if row.Kind == core.KindSupplier && row.Label == "Leclerc" {
			sawLeclerc = true
			if row.Total != 50.0 {
				t.Errorf("Leclerc total = %v, want 50", row.Total)
			}
		}
		if row.Kind == core.KindMandatory {
			t.Errorf("january mandatory expense leaked into february breakdown: %+v", row)
		}
	}
	if !sawLeclerc {
		t.Fatalf("expected a Leclerc supplier row, got %+v", rows)
	}

	empty, err := svc.PeriodBreakdown(ctx, result.SessionID, "2030-01", BreakdownEnhanced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no rows for an unmatched period, got %+v", empty)
	}
}

func TestAnalysisService_PeriodTransactions(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	result, err := svc.Analyze(ctx, sampleTransactions(t), AnalyzeOptions{Cycle: CycleCalendar})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txns, err := svc.PeriodTransactions(ctx, result.SessionID, "2025-02", core.KindSupplier, "Leclerc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 1 || txns[0].Supplier != "E.LECLERC PARIS" {
		t.Fatalf("unexpected transactions: %+v", txns)
	}

	if _, err := svc.PeriodTransactions(ctx, "missing", "2025-02", core.KindSupplier, "Leclerc"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalysisService_SessionSummaries(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	result, err := svc.Analyze(ctx, sampleTransactions(t), AnalyzeOptions{Cycle: CycleCalendar})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summaries, err := svc.SessionSummaries(ctx, result.SessionID, CycleSalary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 salary periods, got %+v", summaries)
	}
}
