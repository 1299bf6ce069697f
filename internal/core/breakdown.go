package core

import (
	"sort"
	"strings"
)

// BreakdownKind is the exclusive classification bucket assigned to each
// transaction in the enhanced breakdown.
type BreakdownKind string

const (
	KindSalary         BreakdownKind = "SALARY"
	KindMandatory      BreakdownKind = "MANDATORY"
	KindSupplier       BreakdownKind = "SUPPLIER"
	KindOther          BreakdownKind = "OTHER"
	KindReimbursements BreakdownKind = "REIMBURSEMENTS"
)

// kindOrder fixes the output sequence of breakdown rows.
var kindOrder = []BreakdownKind{
	KindSalary,
	KindMandatory,
	KindSupplier,
	KindOther,
	KindReimbursements,
}

// CategoryBreakdown is one classified output row. Simple (parent-based) mode
// produces rows without a kind tag.
type CategoryBreakdown struct {
	Label        string        `json:"label"`
	Total        float64       `json:"total"`
	NbOperations int           `json:"nb_operations"`
	Kind         BreakdownKind `json:"kind,omitempty"`
}

// ComputeEnhancedBreakdown classifies every transaction into exactly one
// (kind, label) bucket via a first-match-wins cascade, guaranteeing zero
// double-counting. Ordering of the checks is load-bearing:
//
//  1. SALARY: category equals the salary category (case-insensitive,
//     trimmed) and the amount is positive; the label is the policy's
//     canonical salary category string.
//  2. Internal transfers (category parent in the exclusion set) are skipped
//     entirely. This check only runs on the non-salary path.
//  3. MANDATORY: exact case-insensitive category match, label canonicalized
//     to the rule's original casing.
//  4. REIMBURSEMENTS: category contains a reimbursement keyword; all such
//     rows merge under the fixed "Remboursements" label.
//  5. SUPPLIER: first supplier pattern that matches wins.
//  6. OTHER: whatever remains; empty categories map to "Autres".
//
// Expense buckets accumulate -amount. Non-salary credits are not filtered
// out and therefore net against the totals of their bucket.
func ComputeEnhancedBreakdown(txns []Transaction, policy BudgetPolicy, rules CategoryRules) ([]CategoryBreakdown, error) {
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}

	// lower-cased category -> canonical casing from the rule set
	mandatory := make(map[string]string, len(rules.MandatoryCategories))
	for _, m := range rules.MandatoryCategories {
		mandatory[strings.ToLower(m)] = m
	}
	needles := make([]string, 0, len(rules.ReimbursementKeywords))
	for _, k := range rules.ReimbursementKeywords {
		needles = append(needles, strings.ToLower(k))
	}

	type bucket struct {
		cents int64
		count int
	}
	acc := make(map[BreakdownKind]map[string]*bucket)
	add := func(kind BreakdownKind, label string, cents int64) {
		byLabel := acc[kind]
		if byLabel == nil {
			byLabel = make(map[string]*bucket)
			acc[kind] = byLabel
		}
		b := byLabel[label]
		if b == nil {
			b = &bucket{}
			byLabel[label] = b
		}
		b.cents += cents
		b.count++
	}

	for _, tx := range txns {
		if equalFold(tx.Category, policy.SalaryCategory) && tx.Amount.Cents > 0 {
			add(KindSalary, policy.SalaryCategory, tx.Amount.Cents)
			continue
		}

		if policy.IsInternalTransfer(tx.CategoryParent) {
			continue
		}

		amountAbs := -tx.Amount.Cents

		if canonical, ok := mandatory[strings.ToLower(tx.Category)]; ok {
			add(KindMandatory, canonical, amountAbs)
			continue
		}

		if containsAnyFold(tx.Category, needles) {
			add(KindReimbursements, ReimbursementsLabel, amountAbs)
			continue
		}

		if name, ok := MatchSupplier(tx.Supplier, rules.SupplierPatterns); ok {
			add(KindSupplier, name, amountAbs)
			continue
		}

		label := strings.TrimSpace(tx.Category)
		if label == "" {
			label = OtherLabel
		}
		add(KindOther, label, amountAbs)
	}

	var rows []CategoryBreakdown
	for _, kind := range kindOrder {
		byLabel := acc[kind]
		labels := make([]string, 0, len(byLabel))
		for label := range byLabel {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			b := byLabel[label]
			rows = append(rows, CategoryBreakdown{
				Label:        label,
				Total:        centsToEuros(b.cents),
				NbOperations: b.count,
				Kind:         kind,
			})
		}
	}
	return rows, nil
}

// ComputeParentBreakdown is the simple legacy mode: expenses grouped by
// category parent, internal transfers and parent-less rows dropped, sorted
// alphabetically by parent. Rows carry no kind tag.
func ComputeParentBreakdown(txns []Transaction, policy BudgetPolicy) ([]CategoryBreakdown, error) {
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}

	totals := make(map[string]int64)
	counts := make(map[string]int)
	for _, tx := range txns {
		parent := tx.CategoryParent
		if parent == "" {
			continue
		}
		if policy.IsInternalTransfer(parent) || !tx.Amount.IsExpense() {
			continue
		}
		totals[parent] += -tx.Amount.Cents
		counts[parent]++
	}

	parents := make([]string, 0, len(totals))
	for parent := range totals {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	rows := make([]CategoryBreakdown, 0, len(parents))
	for _, parent := range parents {
		rows = append(rows, CategoryBreakdown{
			Label:        parent,
			Total:        centsToEuros(totals[parent]),
			NbOperations: counts[parent],
		})
	}
	return rows, nil
}
