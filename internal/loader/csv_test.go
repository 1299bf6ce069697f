package loader

import (
	"strings"
	"testing"
)

const sampleCSV = "\uFEFFdateOp;dateVal;label;category;categoryParent;supplierFound;amount\n" +
	"2025-01-25;2025-01-25;VIREMENT EMPLOYEUR;Salaire fixe;Revenus;;3 700,00\n" +
	"2025-01-05;2025-01-05;PRLV LOYER;Loyers, charges;Logement;;-1000,50\n" +
	"2025-01-10;2025-01-10;CB LECLERC;Courses;Alimentation;E.LECLERC PARIS;-30,00\n" +
	"bad-date;;;Courses;Alimentation;;-1,00\n" +
	"2025-01-11;;;Courses;Alimentation;;not-a-number\n"

func TestLoad(t *testing.T) {
	txns, err := LoadString(sampleCSV)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}

	salary := txns[0]
	if salary.DateOp.ISO() != "2025-01-25" || salary.Month != "2025-01" {
		t.Fatalf("unexpected salary row: %+v", salary)
	}
	if salary.Category != "Salaire fixe" || salary.Amount.Cents != 370000 {
		t.Fatalf("unexpected salary row: %+v", salary)
	}

	rent := txns[1]
	if rent.Category != "Loyers, charges" || rent.Amount.Cents != -100050 {
		t.Fatalf("unexpected rent row: %+v", rent)
	}

	groceries := txns[2]
	if groceries.Supplier != "E.LECLERC PARIS" || groceries.Message != "CB LECLERC" {
		t.Fatalf("unexpected groceries row: %+v", groceries)
	}
}

func TestLoadNonBreakingSpaces(t *testing.T) {
	csv := "dateOp;category;categoryParent;supplierFound;amount\n" +
		"2025-01-05;Courses ;Alimentation ;;-12,34\n"
	txns, err := LoadString(csv)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Category != "Courses" || txns[0].CategoryParent != "Alimentation" {
		t.Fatalf("NBSP not normalized: %+v", txns[0])
	}
}

func TestLoadEmptyInput(t *testing.T) {
	txns, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected no transactions, got %d", len(txns))
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	txns, err := LoadString("dateOp;category;amount\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected no transactions, got %d", len(txns))
	}
}

func TestLoadMissingColumns(t *testing.T) {
	// short records must not panic, they are simply dropped or partial
	csv := "dateOp;category;categoryParent;supplierFound;amount\n" +
		"2025-01-05;Courses\n"
	txns, err := LoadString(csv)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected row without amount to be dropped, got %+v", txns)
	}
}
