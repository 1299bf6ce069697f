package services

import (
	"context"
	"fmt"

	"bilan/internal/amqp"
	"bilan/internal/core"
	applog "bilan/internal/log"
	"bilan/internal/session"
)

// Period cycle names accepted by Analyze.
const (
	CycleCalendar = "calendar"
	CycleSalary   = "salary"
)

// Archiver persists computed summaries for later export.
type Archiver interface {
	ArchiveSummary(ctx context.Context, sessionID, cycle string, rows []core.MonthlySummary) (int64, error)
}

// AnalyzeOptions selects how a transaction set is analyzed.
type AnalyzeOptions struct {
	Cycle          string // calendar or salary
	FilterAtypical bool
	BreakdownStyle string // empty, default, or enhanced
}

// AnalysisResult is the full outcome of one analysis run.
type AnalysisResult struct {
	SessionID       string                   `json:"session_id"`
	Summaries       []core.MonthlySummary    `json:"summaries"`
	ExcludedPeriods []string                 `json:"excluded_periods,omitempty"`
	Aggregates      core.AggregateMetrics    `json:"aggregates"`
	Breakdown       []core.CategoryBreakdown `json:"breakdown,omitempty"`
}

// AnalysisService orchestrates the computation pipeline: period grouping,
// summaries, atypical filtering, aggregates and breakdowns. It stores the
// transaction set in a session so drill-down requests can reuse it, and
// archives summaries for export when an archiver is configured.
type AnalysisService struct {
	sessions   session.Store
	archive    Archiver
	amqpClient *amqp.Client
	policy     core.BudgetPolicy
	rules      core.CategoryRules
	logs       *applog.StructuredLogger
}

func NewAnalysisService(sessions session.Store, archive Archiver, amqpClient *amqp.Client, policy core.BudgetPolicy, rules core.CategoryRules) *AnalysisService {
	return &AnalysisService{
		sessions:   sessions,
		archive:    archive,
		amqpClient: amqpClient,
		policy:     policy,
		rules:      rules,
		logs:       applog.NewStructuredLogger(applog.Default(applog.ComponentAnalysis)),
	}
}

// Policy returns the budget policy the service analyzes with.
func (s *AnalysisService) Policy() core.BudgetPolicy { return s.policy }

// Rules returns the classification rules the service analyzes with.
func (s *AnalysisService) Rules() core.CategoryRules { return s.rules }

// grouperFor builds the period grouper for a cycle name.
func (s *AnalysisService) grouperFor(cycle string, txns []core.Transaction) (core.PeriodGrouper, error) {
	switch cycle {
	case CycleCalendar, "":
		return core.CalendarGrouper{}, nil
	case CycleSalary:
		return core.NewSalaryCycleGrouper(txns, s.policy.SalaryCategory), nil
	default:
		return nil, fmt.Errorf("unknown cycle: %s", cycle)
	}
}

// Analyze runs the full pipeline over a freshly loaded transaction set and
// stores it under a new session.
func (s *AnalysisService) Analyze(ctx context.Context, txns []core.Transaction, opts AnalyzeOptions) (*AnalysisResult, error) {
	grouper, err := s.grouperFor(opts.Cycle, txns)
	if err != nil {
		return nil, err
	}

	summaries, err := core.ComputeMonthlySummary(txns, grouper, s.policy)
	if err != nil {
		return nil, fmt.Errorf("compute summary: %w", err)
	}

	result := &AnalysisResult{Summaries: summaries}
	if opts.FilterAtypical {
		filtered := core.FilterAtypicalPeriods(summaries)
		result.Summaries = filtered.Filtered
		result.ExcludedPeriods = filtered.ExcludedPeriods
	}
	result.Aggregates = core.ComputeAggregates(result.Summaries)

	if opts.BreakdownStyle != "" {
		calc, err := GetBreakdownCalculator(opts.BreakdownStyle)
		if err != nil {
			return nil, err
		}
		breakdown, err := calc.Compute(txns, s.policy, s.rules)
		if err != nil {
			return nil, fmt.Errorf("compute breakdown: %w", err)
		}
		result.Breakdown = breakdown
	}

	result.SessionID = session.NewID()
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, result.SessionID, txns); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	s.archiveAndPublish(ctx, result.SessionID, opts.Cycle, result.Summaries)

	s.logs.LogAnalysisCompleted(ctx, result.SessionID, opts.Cycle, len(txns), len(result.Summaries))

	return result, nil
}

// archiveAndPublish archives the summary and enqueues an export message.
// Both steps are best effort: the analysis result is already computed and
// failures here must not fail the request.
func (s *AnalysisService) archiveAndPublish(ctx context.Context, sessionID, cycle string, summaries []core.MonthlySummary) {
	if s.archive == nil || len(summaries) == 0 {
		return
	}

	id, err := s.archive.ArchiveSummary(ctx, sessionID, cycle, summaries)
	if err != nil {
		s.logs.LogError(ctx, "Failed to archive summary", err,
			applog.ComponentStorage, applog.OpExport,
			applog.LogFields{applog.FieldSessionID: sessionID, applog.FieldCycle: cycle})
		return
	}

	if s.amqpClient == nil {
		s.logs.LogWarn(ctx, "AMQP client not available, skipping export message",
			applog.ComponentAMQP, applog.OpExport,
			applog.LogFields{applog.FieldAnalysisID: id})
		return
	}
	if err := s.amqpClient.PublishSummaryExport(ctx, id, 1); err != nil {
		s.logs.LogError(ctx, "Failed to publish export message", err,
			applog.ComponentAMQP, applog.OpExport,
			applog.LogFields{applog.FieldAnalysisID: id})
	}
}

// SessionSummaries recomputes the summary for a stored session, for callers
// that only kept the session ID.
func (s *AnalysisService) SessionSummaries(ctx context.Context, sessionID, cycle string) ([]core.MonthlySummary, error) {
	txns, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	grouper, err := s.grouperFor(cycle, txns)
	if err != nil {
		return nil, err
	}
	return core.ComputeMonthlySummary(txns, grouper, s.policy)
}

// PeriodBreakdown computes a breakdown restricted to one period of a stored
// session.
func (s *AnalysisService) PeriodBreakdown(ctx context.Context, sessionID, period, style string) ([]core.CategoryBreakdown, error) {
	calc, err := GetBreakdownCalculator(style)
	if err != nil {
		return nil, err
	}

	txns, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	scoped := core.TransactionsInPeriod(txns, period)
	if len(scoped) == 0 {
		return []core.CategoryBreakdown{}, nil
	}
	return calc.Compute(scoped, s.policy, s.rules)
}

// PeriodTransactions returns the stored transactions behind one breakdown row.
func (s *AnalysisService) PeriodTransactions(ctx context.Context, sessionID, period string, kind core.BreakdownKind, label string) ([]core.Transaction, error) {
	txns, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return core.SelectBreakdownTransactions(txns, period, kind, label, s.rules), nil
}

// Close releases the AMQP connection if one is configured.
func (s *AnalysisService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close analysis service: %w", err)
		}
	}
	return nil
}
