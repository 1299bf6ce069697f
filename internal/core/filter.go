package core

// FilteredSummary is the result of the atypical-period filter: the rows that
// survived plus the labels of the rows that were dropped, in input order.
type FilteredSummary struct {
	Filtered        []MonthlySummary `json:"filtered"`
	ExcludedPeriods []string         `json:"excluded_periods"`
}

// AggregateMetrics holds mean savings over a set of summary rows.
type AggregateMetrics struct {
	MeanSavings              float64 `json:"mean_savings"`
	MeanSavingsVsTheoretical float64 `json:"mean_savings_vs_theoretical"`
}

// FilterAtypicalPeriods drops periods where either savings figure is
// negative. It never fails: an empty input yields an empty result.
func FilterAtypicalPeriods(summaries []MonthlySummary) FilteredSummary {
	out := FilteredSummary{
		Filtered:        make([]MonthlySummary, 0, len(summaries)),
		ExcludedPeriods: []string{},
	}
	for _, s := range summaries {
		if s.TotalSavings < 0 || s.TotalSavingsVsTheoretical < 0 {
			out.ExcludedPeriods = append(out.ExcludedPeriods, s.Period)
			continue
		}
		out.Filtered = append(out.Filtered, s)
	}
	return out
}

// ComputeAggregates returns the arithmetic means of the two savings columns,
// rounded to 2 decimals. Empty input yields zero means.
func ComputeAggregates(summaries []MonthlySummary) AggregateMetrics {
	if len(summaries) == 0 {
		return AggregateMetrics{}
	}
	var savings, vsTheoretical float64
	for _, s := range summaries {
		savings += s.TotalSavings
		vsTheoretical += s.TotalSavingsVsTheoretical
	}
	n := float64(len(summaries))
	return AggregateMetrics{
		MeanSavings:              round2(savings / n),
		MeanSavingsVsTheoretical: round2(vsTheoretical / n),
	}
}
