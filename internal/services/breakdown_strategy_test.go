package services

import (
	"testing"

	"bilan/internal/core"
)

func TestGetBreakdownCalculator(t *testing.T) {
	tests := []struct {
		name    string
		style   string
		wantErr bool
	}{
		{name: "default style", style: BreakdownDefault},
		{name: "enhanced style", style: BreakdownEnhanced},
		{name: "unknown style", style: "fancy", wantErr: true},
		{name: "empty style", style: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := GetBreakdownCalculator(tt.style)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for style %q", tt.style)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if calc == nil {
				t.Fatal("expected a calculator, got nil")
			}
		})
	}
}

type stubCalculator struct{}

func (stubCalculator) Compute(_ []core.Transaction, _ core.BudgetPolicy, _ core.CategoryRules) ([]core.CategoryBreakdown, error) {
	return []core.CategoryBreakdown{{Label: "stub", Total: 1}}, nil
}

func TestRegisterBreakdownCalculator(t *testing.T) {
	RegisterBreakdownCalculator("stub", stubCalculator{})
	defer delete(breakdownStrategies, "stub")

	calc, err := GetBreakdownCalculator("stub")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := calc.Compute(nil, core.DefaultPolicy(), core.DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Label != "stub" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestCalculators_Dispatch(t *testing.T) {
	policy := core.DefaultPolicy()
	rules := core.DefaultRules()
	txns := []core.Transaction{
		{
			DateOp:         mustDate(t, "2025-01-05"),
			Month:          "2025-01",
			Category:       "Courses",
			CategoryParent: "Vie quotidienne",
			Amount:         core.Money{Cents: -1000},
		},
	}

	def, err := GetBreakdownCalculator(BreakdownDefault)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := def.Compute(txns, policy, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Label != "Vie quotidienne" {
		t.Fatalf("default calculator should group by parent, got %+v", rows)
	}

	enh, err := GetBreakdownCalculator(BreakdownEnhanced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err = enh.Compute(txns, policy, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Label != "Courses" || rows[0].Kind != core.KindOther {
		t.Fatalf("enhanced calculator should classify by kind, got %+v", rows)
	}
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}
