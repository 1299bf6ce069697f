// Package storage persists sessions and archived analyses in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bilan/internal/core"
	"bilan/internal/session"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// Ensure the repository can serve as a session store.
var _ session.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save implements session.Store. The transaction set replaces any previous
// upload under the same session.
func (r *SQLiteRepository) Save(ctx context.Context, id string, txns []core.Transaction) error {
	if err := r.queries.CreateSession(ctx, id); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if err := r.queries.ReplaceSessionTransactions(ctx, id, txns); err != nil {
		return fmt.Errorf("store transactions: %w", err)
	}

	slog.InfoContext(ctx, "Session saved to SQLite",
		"session_id", id,
		"nb_transactions", len(txns))
	return nil
}

// Get implements session.Store.
func (r *SQLiteRepository) Get(ctx context.Context, id string) ([]core.Transaction, error) {
	txns, err := r.queries.GetSessionTransactions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if len(txns) == 0 {
		return nil, session.ErrNotFound
	}
	return txns, nil
}

// Delete implements session.Store.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if err := r.queries.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ArchiveSummary stores a computed summary for later export and returns the
// analysis ID.
func (r *SQLiteRepository) ArchiveSummary(ctx context.Context, sessionID, cycle string, summaries []core.MonthlySummary) (int64, error) {
	id, err := r.queries.CreateAnalysis(ctx, sessionID, cycle, summaries)
	if err != nil {
		return 0, fmt.Errorf("archive summary: %w", err)
	}

	slog.InfoContext(ctx, "Summary archived",
		"analysis_id", id,
		"session_id", sessionID,
		"cycle", cycle,
		"nb_periods", len(summaries))
	return id, nil
}

// GetAnalysis returns an archived analysis and its summary rows.
func (r *SQLiteRepository) GetAnalysis(ctx context.Context, id int64) (Analysis, []core.MonthlySummary, error) {
	a, err := r.queries.GetAnalysis(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, nil, fmt.Errorf("analysis %d not found", id)
		}
		return Analysis{}, nil, fmt.Errorf("get analysis: %w", err)
	}
	rows, err := r.queries.GetAnalysisRows(ctx, id)
	if err != nil {
		return Analysis{}, nil, fmt.Errorf("get analysis rows: %w", err)
	}
	return a, rows, nil
}

// GetPendingExports lists analyses that have not been exported yet.
func (r *SQLiteRepository) GetPendingExports(ctx context.Context, limit int) ([]PendingExport, error) {
	pending, err := r.queries.GetPendingExports(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending exports: %w", err)
	}
	return pending, nil
}

// MarkExported marks an analysis as successfully exported.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if err := r.queries.MarkAnalysisExported(ctx, id); err != nil {
		return fmt.Errorf("mark analysis exported: %w", err)
	}
	slog.InfoContext(ctx, "Analysis marked as exported", "analysis_id", id)
	return nil
}

// MarkExportError marks an analysis as having export errors.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if err := r.queries.MarkAnalysisExportError(ctx, id); err != nil {
		return fmt.Errorf("mark analysis export error: %w", err)
	}
	slog.WarnContext(ctx, "Analysis marked with export error", "analysis_id", id)
	return nil
}

// PurgeSessionsBefore removes sessions (and their transactions) created
// before the cutoff.
func (r *SQLiteRepository) PurgeSessionsBefore(ctx context.Context, cutoff time.Time) error {
	if err := r.queries.PurgeSessionsBefore(ctx, cutoff); err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}
	return nil
}
