package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Date struct {
		time.Time
	}

	// Transaction is a normalized bank record as produced by the CSV loader.
	// Negative amounts are expenses, positive amounts are income/credits.
	Transaction struct {
		DateOp         Date
		Month          string // "YYYY-MM", precomputed for calendar grouping
		Category       string
		CategoryParent string
		Amount         Money
		Supplier       string
		Message        string
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNoTransactions = errors.New("no transactions")
)

// NewDate creates a new Date from year, month, day (UTC midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "YYYY-MM-DD" date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// ISO returns the date formatted as "YYYY-MM-DD".
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// MonthLabel returns the calendar month label "YYYY-MM".
func (d Date) MonthLabel() string {
	return d.Format("2006-01")
}

// Before reports whether d is strictly before other (day granularity).
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other (day granularity).
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(days int) Date {
	return Date{Time: d.AddDate(0, 0, days)}
}

func (t Transaction) Validate() error {
	if t.DateOp.IsZero() {
		return errors.New("transaction date cannot be zero")
	}
	if strings.TrimSpace(t.Month) == "" {
		return errors.New("empty month label")
	}
	return nil
}
