package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bilan/internal/amqp"
	"bilan/internal/core"
	"bilan/internal/sheets/memory"
	"bilan/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func archiveSample(t *testing.T, repo *storage.SQLiteRepository) int64 {
	t.Helper()
	ctx := context.Background()
	if err := repo.Save(ctx, "sess-1", []core.Transaction{}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	id, err := repo.ArchiveSummary(ctx, "sess-1", "calendar", []core.MonthlySummary{
		{
			Period:                    "2025-01",
			TotalSalary:               3700.00,
			TotalExpenses:             1350.50,
			NbExpenseOperations:       12,
			TotalSavings:              2349.50,
			TotalSavingsVsTheoretical: 2349.50,
		},
	})
	if err != nil {
		t.Fatalf("archive summary: %v", err)
	}
	return id
}

func TestExportWorker_HandleExportMessage(t *testing.T) {
	repo := newTestRepo(t)
	appender := memory.New()
	w := NewExportWorker(repo, appender, 10)
	ctx := context.Background()

	id := archiveSample(t, repo)

	msg := amqp.NewSummaryExportMessage(id, 1)
	if err := w.HandleExportMessage(ctx, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	batches := appender.Batches()
	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if batches[0].SessionID != "sess-1" || batches[0].Cycle != "calendar" {
		t.Fatalf("unexpected batch: %+v", batches[0])
	}
	if len(batches[0].Rows) != 1 || batches[0].Rows[0].Period != "2025-01" {
		t.Fatalf("unexpected rows: %+v", batches[0].Rows)
	}

	pending, err := repo.GetPendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("get pending exports: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("analysis should no longer be pending, got %+v", pending)
	}
}

func TestExportWorker_HandleExportMessage_MissingAnalysis(t *testing.T) {
	repo := newTestRepo(t)
	w := NewExportWorker(repo, memory.New(), 10)

	msg := amqp.NewSummaryExportMessage(999, 1)
	if err := w.HandleExportMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for missing analysis")
	}
}

func TestExportWorker_ProcessPendingExports(t *testing.T) {
	repo := newTestRepo(t)
	appender := memory.New()
	w := NewExportWorker(repo, appender, 10)
	ctx := context.Background()

	archiveSample(t, repo)

	if err := w.ProcessPendingExports(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appender.Batches()) != 1 {
		t.Fatalf("expected 1 exported batch, got %d", len(appender.Batches()))
	}

	// A second pass finds nothing to do
	if err := w.ProcessPendingExports(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appender.Batches()) != 1 {
		t.Fatal("already exported analysis should not be exported again")
	}
}

type failingAppender struct{}

func (failingAppender) AppendSummary(context.Context, string, string, []core.MonthlySummary) (string, error) {
	return "", errors.New("sheets unavailable")
}

func TestExportWorker_ExportFailureMarksError(t *testing.T) {
	repo := newTestRepo(t)
	w := NewExportWorker(repo, failingAppender{}, 10)
	ctx := context.Background()

	id := archiveSample(t, repo)

	msg := amqp.NewSummaryExportMessage(id, 1)
	if err := w.HandleExportMessage(ctx, msg); err == nil {
		t.Fatal("expected error from failing appender")
	}

	analysis, _, err := repo.GetAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("get analysis: %v", err)
	}
	if analysis.ExportStatus != "error" {
		t.Fatalf("export status = %q, want error", analysis.ExportStatus)
	}
}
