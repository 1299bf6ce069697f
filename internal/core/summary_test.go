package core

import "testing"

func TestComputeMonthlySummaryEmpty(t *testing.T) {
	_, err := ComputeMonthlySummary(nil, CalendarGrouper{}, DefaultPolicy())
	if err != ErrNoTransactions {
		t.Fatalf("expected ErrNoTransactions, got %v", err)
	}
}

func TestComputeMonthlySummaryCalendar(t *testing.T) {
	txns := []Transaction{
		tx("2025-01-25", "Salaire fixe", "Revenus", 370000, ""),
		tx("2025-01-05", "Loyers, charges", "Logement", -100050, ""),
		tx("2025-01-12", "Courses", "Alimentation", -35000, ""),
		// internal transfer, must not count as expense
		tx("2025-01-15", "Virement épargne", "Mouvements internes débiteurs", -50000, ""),
		// non-salary credit, no effect on salary or expenses
		tx("2025-01-20", "Remboursement de frais", "Autres rentrées", 2000, ""),
	}

	got, err := ComputeMonthlySummary(txns, CalendarGrouper{}, DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	row := got[0]
	want := MonthlySummary{
		Period:                    "2025-01",
		TotalSalary:               3700,
		TotalExpenses:             1350.50,
		NbExpenseOperations:       2,
		TotalSavings:              2349.50,
		TotalSavingsVsTheoretical: 2349.50,
	}
	if row != want {
		t.Fatalf("got %+v, want %+v", row, want)
	}
}

func TestComputeMonthlySummarySalaryCycle(t *testing.T) {
	txns := []Transaction{
		// before the first salary date
		tx("2025-01-10", "Courses", "Alimentation", -2000, ""),
		tx("2025-01-25", "Salaire fixe", "Revenus", 370000, ""),
		tx("2025-02-10", "Courses", "Alimentation", -10000, ""),
		tx("2025-02-25", "Salaire fixe", "Revenus", 370000, ""),
		tx("2025-03-05", "Courses", "Alimentation", -5000, ""),
	}
	g := NewSalaryCycleGrouper(txns, "Salaire fixe")

	got, err := ComputeMonthlySummary(txns, g, DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}

	if got[0].Period != "2025-01-25 to 2025-02-24" || got[0].TotalSalary != 3700 || got[0].TotalExpenses != 100 {
		t.Fatalf("unexpected first period row: %+v", got[0])
	}
	if got[1].Period != "2025-02-25 to 2025-03-05" || got[1].TotalSalary != 3700 || got[1].TotalExpenses != 50 {
		t.Fatalf("unexpected second period row: %+v", got[1])
	}
	// the pre-salary expense falls into the sentinel bucket, sorted last
	if got[2].Period != OutsidePeriodsLabel || got[2].TotalExpenses != 20 || got[2].TotalSalary != 0 {
		t.Fatalf("unexpected sentinel row: %+v", got[2])
	}
}

func TestComputeMonthlySummarySalaryMatchIsCaseSensitive(t *testing.T) {
	txns := []Transaction{
		tx("2025-01-25", "SALAIRE FIXE", "Revenus", 370000, ""),
		tx("2025-01-05", "Courses", "Alimentation", -1000, ""),
	}
	got, err := ComputeMonthlySummary(txns, CalendarGrouper{}, DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	if got[0].TotalSalary != 0 {
		t.Fatalf("upper-cased category must not count as salary: %+v", got[0])
	}
}
