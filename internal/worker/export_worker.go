package worker

import (
	"context"
	"fmt"
	"log/slog"

	"bilan/internal/amqp"
	"bilan/internal/core"
	"bilan/internal/sheets"
	"bilan/internal/storage"
)

// ExportWorker pushes archived analysis summaries to Google Sheets.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	sheets    sheets.SummaryAppender
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, appender sheets.SummaryAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		sheets:    appender,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single summary export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.SummaryExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"analysis_id", msg.AnalysisID,
		"version", msg.Version)

	analysis, rows, err := w.storage.GetAnalysis(ctx, msg.AnalysisID)
	if err != nil {
		return fmt.Errorf("get analysis from storage: %w", err)
	}

	return w.exportToSheets(ctx, analysis, rows)
}

// ProcessPendingExports exports analyses that haven't been exported yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.storage.GetPendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending exports: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, p := range pending {
		analysis, rows, err := w.storage.GetAnalysis(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get analysis", "analysis_id", p.ID, "error", err)
			if err := w.storage.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "analysis_id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportToSheets(ctx, analysis, rows); err != nil {
			slog.ErrorContext(ctx, "Failed to export analysis", "analysis_id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupExportCheck exports any pending analyses at worker startup, useful
// to recover from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingExports(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending exports for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		analysis, rows, err := w.storage.GetAnalysis(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get analysis for startup export",
				"analysis_id", p.ID, "error", err)
			if err := w.storage.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "analysis_id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.exportToSheets(ctx, analysis, rows); err != nil {
			slog.ErrorContext(ctx, "Failed to export analysis during startup",
				"analysis_id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportToSheets(ctx context.Context, analysis storage.Analysis, rows []core.MonthlySummary) error {
	ref, err := w.sheets.AppendSummary(ctx, analysis.SessionID, analysis.Cycle, rows)
	if err != nil {
		if markErr := w.storage.MarkExportError(ctx, analysis.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "analysis_id", analysis.ID, "error", markErr)
		}
		return fmt.Errorf("append summary to sheets: %w", err)
	}

	if err := w.storage.MarkExported(ctx, analysis.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as exported", "analysis_id", analysis.ID, "error", err)
		// The export itself worked, keep going
	}

	slog.InfoContext(ctx, "Successfully exported analysis",
		"analysis_id", analysis.ID,
		"sheets_ref", ref,
		"session_id", analysis.SessionID,
		"periods", len(rows))

	return nil
}
