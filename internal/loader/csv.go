// Package loader turns raw bank CSV exports into normalized transactions.
//
// The expected input is a semicolon-separated export with a header row
// containing at least dateOp, amount, category, categoryParent and
// supplierFound columns. Headers may carry a BOM and values may carry
// non-breaking spaces; both are normalized away. Rows with an unparseable
// date or amount are dropped rather than failing the whole file.
package loader

import (
	"encoding/csv"
	"io"
	"strings"

	"bilan/internal/core"
)

// Column names after header normalization.
const (
	colDateOp         = "dateOp"
	colMonth          = "month"
	colLabel          = "label"
	colCategory       = "category"
	colCategoryParent = "categoryParent"
	colSupplier       = "supplierFound"
	colAmount         = "amount"
)

// Load reads a semicolon-separated CSV stream and returns the transactions
// it could normalize. An input without data rows yields an empty slice, not
// an error; only a malformed CSV structure fails.
func Load(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return []core.Transaction{}, nil
	}
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalizeHeader(h)] = i
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return cleanValue(record[i])
	}

	txns := []core.Transaction{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := core.ParseDate(field(record, colDateOp))
		if err != nil {
			continue
		}
		cents, err := core.ParseSignedDecimalToCents(field(record, colAmount))
		if err != nil {
			continue
		}

		month := field(record, colMonth)
		if month == "" {
			month = date.MonthLabel()
		}

		txns = append(txns, core.Transaction{
			DateOp:         date,
			Month:          month,
			Category:       field(record, colCategory),
			CategoryParent: field(record, colCategoryParent),
			Amount:         core.Money{Cents: cents},
			Supplier:       field(record, colSupplier),
			Message:        field(record, colLabel),
		})
	}
	return txns, nil
}

// LoadString is a convenience wrapper over Load for in-memory content
// (file uploads, pasted text).
func LoadString(content string) ([]core.Transaction, error) {
	return Load(strings.NewReader(content))
}

// normalizeHeader strips the UTF-8 BOM and non-breaking spaces from a header
// cell. Exports routinely prefix the first header with a BOM, which would
// otherwise break column lookup.
func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\uFEFF", "")
	return cleanValue(h)
}

// cleanValue replaces non-breaking and narrow non-breaking spaces with
// ordinary spaces and trims the result.
func cleanValue(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(s)
}
