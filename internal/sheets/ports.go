package sheets

import (
	"context"

	"bilan/internal/core"
)

// Ports for outbound adapters.
type (
	// SummaryAppender archives computed summary rows to an external sheet.
	SummaryAppender interface {
		// AppendSummary appends one row per period and returns an opaque
		// reference to where the rows landed.
		AppendSummary(ctx context.Context, sessionID string, cycle string, rows []core.MonthlySummary) (ref string, err error)
	}
)
