package core

import "strings"

// periodRangeSeparator joins the two bounds of a salary-cycle period label.
const periodRangeSeparator = " to "

// TransactionsInPeriod selects the transactions belonging to a period label.
// Labels containing " to " are treated as inclusive date ranges matched on
// the operation date; any other label is an exact month match. A range label
// whose bounds fail to parse matches nothing.
func TransactionsInPeriod(txns []Transaction, label string) []Transaction {
	if strings.Contains(label, periodRangeSeparator) {
		parts := strings.SplitN(label, periodRangeSeparator, 2)
		start, err := ParseDate(parts[0])
		if err != nil {
			return nil
		}
		end, err := ParseDate(parts[1])
		if err != nil {
			return nil
		}
		var out []Transaction
		for _, tx := range txns {
			if !tx.DateOp.Before(start) && !tx.DateOp.After(end) {
				out = append(out, tx)
			}
		}
		return out
	}

	var out []Transaction
	for _, tx := range txns {
		if tx.Month == label {
			out = append(out, tx)
		}
	}
	return out
}

// SelectBreakdownTransactions drills into a single breakdown row: it keeps
// the transactions of the period that would have been classified under the
// given kind and label. Supplier rows re-run the supplier patterns since the
// row label is the pattern name, not a category.
func SelectBreakdownTransactions(txns []Transaction, period string, kind BreakdownKind, label string, rules CategoryRules) []Transaction {
	scoped := TransactionsInPeriod(txns, period)

	var out []Transaction
	for _, tx := range scoped {
		if kind == KindSupplier {
			if name, ok := MatchSupplier(tx.Supplier, rules.SupplierPatterns); ok && name == label {
				out = append(out, tx)
			}
			continue
		}
		if equalFold(tx.Category, label) {
			out = append(out, tx)
		}
	}
	return out
}
