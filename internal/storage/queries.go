package storage

import (
	"context"
	"database/sql"
	"time"

	"bilan/internal/core"
)

// Queries wraps hand-written SQL against the sessions/analyses schema.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const createSession = `
INSERT INTO sessions (id) VALUES (?)
ON CONFLICT(id) DO NOTHING
`

func (q *Queries) CreateSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, createSession, id)
	return err
}

const deleteSessionTransactions = `
DELETE FROM transactions WHERE session_id = ?
`

const insertTransaction = `
INSERT INTO transactions (session_id, date_op, month, category, category_parent, amount_cents, supplier, message)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// ReplaceSessionTransactions swaps the stored transaction set of a session
// atomically.
func (q *Queries) ReplaceSessionTransactions(ctx context.Context, sessionID string, txns []core.Transaction) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteSessionTransactions, sessionID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertTransaction)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range txns {
		_, err := stmt.ExecContext(ctx,
			sessionID,
			t.DateOp.ISO(),
			t.Month,
			t.Category,
			t.CategoryParent,
			t.Amount.Cents,
			t.Supplier,
			t.Message,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

const getSessionTransactions = `
SELECT date_op, month, category, category_parent, amount_cents, supplier, message
FROM transactions
WHERE session_id = ?
ORDER BY id
`

func (q *Queries) GetSessionTransactions(ctx context.Context, sessionID string) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, getSessionTransactions, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var (
			dateOp string
			t      core.Transaction
		)
		if err := rows.Scan(&dateOp, &t.Month, &t.Category, &t.CategoryParent, &t.Amount.Cents, &t.Supplier, &t.Message); err != nil {
			return nil, err
		}
		d, err := core.ParseDate(dateOp)
		if err != nil {
			return nil, err
		}
		t.DateOp = d
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

const deleteSession = `
DELETE FROM sessions WHERE id = ?
`

func (q *Queries) DeleteSession(ctx context.Context, id string) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, deleteSessionTransactions, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteSession, id); err != nil {
		return err
	}
	return tx.Commit()
}

const createAnalysis = `
INSERT INTO analyses (session_id, cycle) VALUES (?, ?)
`

const insertAnalysisRow = `
INSERT INTO analysis_rows (analysis_id, period, total_salary_cents, total_expenses_cents, nb_expense_operations, total_savings_cents, total_savings_vs_theoretical_cents)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// CreateAnalysis archives a computed summary and returns the analysis ID.
func (q *Queries) CreateAnalysis(ctx context.Context, sessionID, cycle string, summaries []core.MonthlySummary) (int64, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, createAnalysis, sessionID, cycle)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, s := range summaries {
		_, err := tx.ExecContext(ctx, insertAnalysisRow,
			id,
			s.Period,
			eurosToCents(s.TotalSalary),
			eurosToCents(s.TotalExpenses),
			s.NbExpenseOperations,
			eurosToCents(s.TotalSavings),
			eurosToCents(s.TotalSavingsVsTheoretical),
		)
		if err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const getAnalysis = `
SELECT session_id, cycle, version, export_status, created_at
FROM analyses
WHERE id = ?
`

func (q *Queries) GetAnalysis(ctx context.Context, id int64) (Analysis, error) {
	var (
		a         Analysis
		createdAt string
	)
	a.ID = id
	err := q.db.QueryRowContext(ctx, getAnalysis, id).
		Scan(&a.SessionID, &a.Cycle, &a.Version, &a.ExportStatus, &createdAt)
	if err != nil {
		return a, err
	}
	a.CreatedAt = parseTimestamp(createdAt)
	return a, nil
}

const getAnalysisRows = `
SELECT period, total_salary_cents, total_expenses_cents, nb_expense_operations, total_savings_cents, total_savings_vs_theoretical_cents
FROM analysis_rows
WHERE analysis_id = ?
ORDER BY period
`

func (q *Queries) GetAnalysisRows(ctx context.Context, analysisID int64) ([]core.MonthlySummary, error) {
	rows, err := q.db.QueryContext(ctx, getAnalysisRows, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.MonthlySummary
	for rows.Next() {
		var (
			s                                  core.MonthlySummary
			salary, expenses, savings, vsTheor int64
		)
		if err := rows.Scan(&s.Period, &salary, &expenses, &s.NbExpenseOperations, &savings, &vsTheor); err != nil {
			return nil, err
		}
		s.TotalSalary = centsToEuros(salary)
		s.TotalExpenses = centsToEuros(expenses)
		s.TotalSavings = centsToEuros(savings)
		s.TotalSavingsVsTheoretical = centsToEuros(vsTheor)
		out = append(out, s)
	}
	return out, rows.Err()
}

const getPendingExports = `
SELECT id, version, created_at
FROM analyses
WHERE export_status = 'pending'
ORDER BY created_at
LIMIT ?
`

func (q *Queries) GetPendingExports(ctx context.Context, limit int64) ([]PendingExport, error) {
	rows, err := q.db.QueryContext(ctx, getPendingExports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingExport
	for rows.Next() {
		var (
			p         PendingExport
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Version, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTimestamp(createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

const markAnalysisExported = `
UPDATE analyses SET export_status = 'exported' WHERE id = ?
`

func (q *Queries) MarkAnalysisExported(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markAnalysisExported, id)
	return err
}

const markAnalysisExportError = `
UPDATE analyses SET export_status = 'error' WHERE id = ?
`

func (q *Queries) MarkAnalysisExportError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markAnalysisExportError, id)
	return err
}

const purgeSessionsBefore = `
DELETE FROM sessions WHERE created_at < ?
`

const purgeTransactionsBefore = `
DELETE FROM transactions WHERE session_id IN (SELECT id FROM sessions WHERE created_at < ?)
`

func (q *Queries) PurgeSessionsBefore(ctx context.Context, cutoff time.Time) error {
	// Match the CURRENT_TIMESTAMP text format used by the schema defaults.
	cutoffStr := cutoff.UTC().Format(sqliteTimeLayout)

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, purgeTransactionsBefore, cutoffStr); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, purgeSessionsBefore, cutoffStr); err != nil {
		return err
	}
	return tx.Commit()
}

const sqliteTimeLayout = "2006-01-02 15:04:05"

// parseTimestamp reads the CURRENT_TIMESTAMP text SQLite stores by default.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(sqliteTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// Analysis is an archived summary computation awaiting export.
type Analysis struct {
	ID           int64
	SessionID    string
	Cycle        string
	Version      int64
	ExportStatus string
	CreatedAt    time.Time
}

// PendingExport is the minimal data needed to enqueue an export.
type PendingExport struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

// Euro floats are exact to 2 decimals, so converting through cents is lossless.
func eurosToCents(v float64) int64 {
	if v >= 0 {
		return int64(v*100 + 0.5)
	}
	return -int64(-v*100 + 0.5)
}

func centsToEuros(cents int64) float64 {
	return float64(cents) / 100.0
}
