// Package export writes analysis results to CSV files and renders them for
// terminal display.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"bilan/internal/core"
)

// CSVExporter writes summaries and breakdowns as semicolon-separated CSV,
// matching the separator used by the input bank exports.
type CSVExporter struct {
	Separator rune
}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{Separator: ';'}
}

// ExportSummary writes the monthly summary rows to path.
func (e *CSVExporter) ExportSummary(path string, summaries []core.MonthlySummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = e.Separator

	header := []string{"period", "total_salary", "total_expenses", "nb_expense_operations", "total_savings", "total_savings_vs_theoretical"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, s := range summaries {
		record := []string{
			s.Period,
			formatAmount(s.TotalSalary),
			formatAmount(s.TotalExpenses),
			strconv.Itoa(s.NbExpenseOperations),
			formatAmount(s.TotalSavings),
			formatAmount(s.TotalSavingsVsTheoretical),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush summary export: %w", err)
	}
	return f.Close()
}

// ExportBreakdown writes the category breakdown rows to path.
func (e *CSVExporter) ExportBreakdown(path string, rows []core.CategoryBreakdown) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create breakdown export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = e.Separator

	if err := w.Write([]string{"kind", "label", "total", "nb_operations"}); err != nil {
		return fmt.Errorf("write breakdown header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			string(row.Kind),
			row.Label,
			formatAmount(row.Total),
			strconv.Itoa(row.NbOperations),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write breakdown row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush breakdown export: %w", err)
	}
	return f.Close()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
