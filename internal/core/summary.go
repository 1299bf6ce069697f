package core

import "sort"

// MonthlySummary is one output row per period. Monetary fields are euros,
// exact to 2 decimal places (accumulation happens in cents).
type MonthlySummary struct {
	Period                    string  `json:"period"`
	TotalSalary               float64 `json:"total_salary"`
	TotalExpenses             float64 `json:"total_expenses"`
	NbExpenseOperations       int     `json:"nb_expense_operations"`
	TotalSavings              float64 `json:"total_savings"`
	TotalSavingsVsTheoretical float64 `json:"total_savings_vs_theoretical"`
}

// ComputeMonthlySummary aggregates transactions per period into salary,
// expense and savings totals.
//
// Salary sums transactions whose category exactly equals the policy's salary
// category (sign preserved). Expenses sum strictly negative amounts whose
// category parent is not an internal transfer. A period appearing in either
// map appears in the output, sorted ascending by label (labels are built so
// string order equals chronological order; the sentinel "Outside salary
// periods" sorts last among ISO-dated labels, which is intended).
func ComputeMonthlySummary(txns []Transaction, grouper PeriodGrouper, policy BudgetPolicy) ([]MonthlySummary, error) {
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}

	salaries := make(map[string]int64)
	expenses := make(map[string]int64)
	opsCount := make(map[string]int)

	for _, t := range txns {
		label := grouper.LabelForDate(t.DateOp)
		if t.Category == policy.SalaryCategory {
			salaries[label] += t.Amount.Cents
		}
		if t.Amount.IsExpense() && !policy.IsInternalTransfer(t.CategoryParent) {
			expenses[label] += t.Amount.Cents // negative sum
			opsCount[label]++
		}
	}

	labels := make([]string, 0, len(salaries)+len(expenses))
	seen := make(map[string]struct{})
	for label := range salaries {
		labels = append(labels, label)
		seen[label] = struct{}{}
	}
	for label := range expenses {
		if _, ok := seen[label]; !ok {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	out := make([]MonthlySummary, 0, len(labels))
	for _, label := range labels {
		salaryCents := salaries[label]
		expenseCents := -expenses[label] // abs of negative sum

		totalSalary := centsToEuros(salaryCents)
		totalExpenses := centsToEuros(expenseCents)

		out = append(out, MonthlySummary{
			Period:                    label,
			TotalSalary:               totalSalary,
			TotalExpenses:             totalExpenses,
			NbExpenseOperations:       opsCount[label],
			TotalSavings:              centsToEuros(salaryCents - expenseCents),
			TotalSavingsVsTheoretical: centsToEuros(policy.RefTheoreticalSalary.Cents - expenseCents),
		})
	}
	return out, nil
}
