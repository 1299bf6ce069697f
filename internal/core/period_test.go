package core

import "testing"

// tx builds a transaction for tests. The month is derived from the date.
func tx(date string, category, parent string, cents int64, supplier string) Transaction {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Transaction{
		DateOp:         d,
		Month:          d.MonthLabel(),
		Category:       category,
		CategoryParent: parent,
		Amount:         Money{Cents: cents},
		Supplier:       supplier,
	}
}

func TestCalendarGrouper(t *testing.T) {
	g := CalendarGrouper{}
	d, _ := ParseDate("2025-01-15")
	if got := g.LabelForDate(d); got != "2025-01" {
		t.Fatalf("expected 2025-01, got %q", got)
	}
}

func TestSalaryCycleGrouper(t *testing.T) {
	txns := []Transaction{
		tx("2025-01-10", "Courses", "Alimentation", -2000, ""),
		tx("2025-01-25", "Salaire fixe", "Revenus", 370000, ""),
		tx("2025-02-10", "Courses", "Alimentation", -3000, ""),
		tx("2025-02-25", "Salaire fixe", "Revenus", 370000, ""),
		tx("2025-03-05", "Courses", "Alimentation", -1000, ""),
	}
	g := NewSalaryCycleGrouper(txns, "Salaire fixe")

	cases := []struct {
		date string
		want string
	}{
		{"2025-01-10", OutsidePeriodsLabel},
		{"2025-01-25", "2025-01-25 to 2025-02-24"},
		{"2025-02-24", "2025-01-25 to 2025-02-24"},
		{"2025-02-25", "2025-02-25 to 2025-03-05"},
		{"2025-03-05", "2025-02-25 to 2025-03-05"},
		{"2025-03-06", OutsidePeriodsLabel},
	}
	for _, tc := range cases {
		d, _ := ParseDate(tc.date)
		if got := g.LabelForDate(d); got != tc.want {
			t.Fatalf("LabelForDate(%s) = %q, want %q", tc.date, got, tc.want)
		}
	}
}

func TestSalaryCycleGrouperDuplicateSalaryDates(t *testing.T) {
	txns := []Transaction{
		tx("2025-01-25", "Salaire fixe", "Revenus", 200000, ""),
		tx("2025-01-25", "Salaire fixe", "Revenus", 170000, ""),
		tx("2025-02-01", "Courses", "Alimentation", -1000, ""),
	}
	g := NewSalaryCycleGrouper(txns, "Salaire fixe")
	if got := len(g.Periods()); got != 1 {
		t.Fatalf("expected 1 period, got %d", got)
	}
	d, _ := ParseDate("2025-02-01")
	if got := g.LabelForDate(d); got != "2025-01-25 to 2025-02-01" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestSalaryCycleGrouperNoSalary(t *testing.T) {
	txns := []Transaction{
		tx("2025-01-10", "Courses", "Alimentation", -2000, ""),
	}
	g := NewSalaryCycleGrouper(txns, "Salaire fixe")
	d, _ := ParseDate("2025-01-10")
	if got := g.LabelForDate(d); got != OutsidePeriodsLabel {
		t.Fatalf("expected sentinel label, got %q", got)
	}
}
