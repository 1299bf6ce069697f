package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bilan/internal/core"
)

// StdoutPresenter renders analysis results as aligned text tables.
type StdoutPresenter struct {
	out io.Writer
}

func NewStdoutPresenter(out io.Writer) *StdoutPresenter {
	return &StdoutPresenter{out: out}
}

// PresentMonthlySummary prints the per-period summary table.
func (p *StdoutPresenter) PresentMonthlySummary(summaries []core.MonthlySummary) {
	fmt.Fprintln(p.out, "\n=== Monthly Summary ===")
	p.summaryTable(summaries)
}

// PresentFilteredSummary prints the filtered table and the list of excluded
// periods.
func (p *StdoutPresenter) PresentFilteredSummary(filtered core.FilteredSummary) {
	if len(filtered.ExcludedPeriods) == 0 {
		fmt.Fprintln(p.out, "\nExcluded periods: none")
	} else {
		fmt.Fprintf(p.out, "\nExcluded periods: %s\n", strings.Join(filtered.ExcludedPeriods, ", "))
	}
	fmt.Fprintln(p.out, "\n=== Filtered Summary (normal periods) ===")
	p.summaryTable(filtered.Filtered)
}

// PresentAggregates prints the mean savings metrics.
func (p *StdoutPresenter) PresentAggregates(aggregates core.AggregateMetrics, refTheoreticalSalary core.Money) {
	fmt.Fprintln(p.out, "\n=== Aggregate Metrics ===")
	fmt.Fprintf(p.out, "Average savings: %.2f €\n", aggregates.MeanSavings)
	fmt.Fprintf(p.out, "Average savings vs theoretical salary (%.0f €): %.2f €\n",
		refTheoreticalSalary.Euros(), aggregates.MeanSavingsVsTheoretical)
}

// PresentCategoryBreakdown prints the breakdown table.
func (p *StdoutPresenter) PresentCategoryBreakdown(rows []core.CategoryBreakdown) {
	fmt.Fprintln(p.out, "\n=== Category Breakdown ===")
	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tLABEL\tTOTAL\tOPERATIONS")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\n", row.Kind, row.Label, row.Total, row.NbOperations)
	}
	w.Flush()
}

func (p *StdoutPresenter) summaryTable(summaries []core.MonthlySummary) {
	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tSALARY\tEXPENSES\tOPERATIONS\tSAVINGS\tVS THEORETICAL")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%d\t%.2f\t%.2f\n",
			s.Period, s.TotalSalary, s.TotalExpenses, s.NbExpenseOperations, s.TotalSavings, s.TotalSavingsVsTheoretical)
	}
	w.Flush()
}
