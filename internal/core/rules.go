package core

import "regexp"

type (
	// SupplierPattern is a supplier detection rule matched against the
	// transaction's supplier field, case-insensitively. Name is the display
	// label used in breakdown rows (e.g. "Leclerc").
	SupplierPattern struct {
		Name    string
		Pattern *regexp.Regexp
	}

	// CategoryRules holds the classification rules for the enhanced
	// breakdown:
	//   - MandatoryCategories: exact match (case-insensitive) on category,
	//     canonicalized to the rule's original casing on output
	//   - ReimbursementKeywords: substrings (case-insensitive) searched in
	//     category
	//   - SupplierPatterns: tried in declaration order, first match wins
	CategoryRules struct {
		MandatoryCategories   []string
		ReimbursementKeywords []string
		SupplierPatterns      []SupplierPattern
	}
)

// ReimbursementsLabel is the merged display label for all reimbursement rows.
const ReimbursementsLabel = "Remboursements"

// OtherLabel is the fallback display label for uncategorized expenses.
const OtherLabel = "Autres"

// NewSupplierPattern compiles a case-insensitive supplier rule.
// The expression follows regexp syntax; word boundaries (\b) are supported.
func NewSupplierPattern(name, expr string) SupplierPattern {
	return SupplierPattern{
		Name:    name,
		Pattern: regexp.MustCompile(`(?i)` + expr),
	}
}

// DefaultRules returns the documented default classification rules.
func DefaultRules() CategoryRules {
	return CategoryRules{
		MandatoryCategories: []string{
			"Loyers, charges",
			"Transports quotidiens (métro, bus...)",
			"Energie (électricité, gaz, fuel, chauffage...)",
			"Impôts & taxes",
			"Téléphonie (fixe et mobile)",
			"Multimedia à domicile (tv, internet, téléphonie...)",
			"Complémentaires santé",
		},
		ReimbursementKeywords: []string{
			"remboursement",
			"remboursements",
			"remboursement de frais",
		},
		SupplierPatterns: []SupplierPattern{
			NewSupplierPattern("Action", `\baction\b`),
			NewSupplierPattern("Leclerc", `\bleclerc\b|\be\.leclerc\b`),
			NewSupplierPattern("Tanger Marche", `\btanger\s+marche\b`),
			NewSupplierPattern("Sneha", `\bsneha\b`),
			NewSupplierPattern("Chandra Foods", `\bchandra\s+foods\b`),
			NewSupplierPattern("Lidl", `\blidl\b`),
			NewSupplierPattern("MV BRAZ - AU BRA", `\bmv\s*braz\s*-\s*au\s*bra\b`),
		},
	}
}
