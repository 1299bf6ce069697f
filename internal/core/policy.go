package core

// BudgetPolicy carries the per-analysis configuration that used to live in
// module-level constants: the salary category label, the category parents
// marking internal transfers, and the theoretical reference salary used for
// savings-deviation comparison. It is threaded explicitly through every
// computation so tests can override it without shared state.
type BudgetPolicy struct {
	SalaryCategory       string
	ExcludeParents       map[string]struct{}
	RefTheoreticalSalary Money
}

// IsInternalTransfer reports whether the given category parent marks a
// movement between the user's own accounts. The empty parent is never
// an internal transfer.
func (p BudgetPolicy) IsInternalTransfer(categoryParent string) bool {
	if categoryParent == "" {
		return false
	}
	_, ok := p.ExcludeParents[categoryParent]
	return ok
}

// ExcludeParentSet builds the exclusion set from a list of parent labels.
func ExcludeParentSet(parents ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(parents))
	for _, p := range parents {
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	return set
}

// DefaultPolicy returns the documented default configuration.
func DefaultPolicy() BudgetPolicy {
	return BudgetPolicy{
		SalaryCategory: "Salaire fixe",
		ExcludeParents: ExcludeParentSet(
			"Mouvements internes débiteurs",
			"Mouvements internes créditeurs",
		),
		RefTheoreticalSalary: Money{Cents: 370000},
	}
}
