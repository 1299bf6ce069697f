package core

import "strings"

// equalFold reports case-insensitive, trimmed equality of two labels.
func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// containsAnyFold reports whether text contains any of the needles,
// case-insensitively. Needles are expected already lower-cased.
func containsAnyFold(text string, needles []string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(t, n) {
			return true
		}
	}
	return false
}

// MatchSupplier tries the supplier patterns in declaration order against the
// trimmed, case-folded supplier field. It returns the display name of the
// first matching pattern, or "" and false when nothing matches.
func MatchSupplier(supplier string, patterns []SupplierPattern) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(supplier))
	if s == "" {
		return "", false
	}
	for _, sp := range patterns {
		if sp.Pattern.MatchString(s) {
			return sp.Name, true
		}
	}
	return "", false
}
