package core

import "testing"

func TestParseSignedDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"-1.005", -101, true},
		{" 2.50 ", 250, true},
		{"-150,50", -15050, true},
		{"+3700", 370000, true},
		{"3 700,00", 370000, true},
		{"3 700,00", 370000, true}, // NBSP grouping
		{"\"-12.346\"", -1235, true},
		{"0", 0, true},
		{"-0,00", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"--1", 0, false},
		{"12e3", 0, false},
		{"", 0, false},
		{"\"\"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseSignedDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyEuros(t *testing.T) {
	cases := []struct {
		cents int64
		euros float64
	}{
		{0, 0},
		{123456, 1234.56},
		{-15050, -150.50},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Euros(); got != tc.euros {
			t.Fatalf("Euros(%d) = %v, want %v", tc.cents, got, tc.euros)
		}
	}
}

func TestMoneyIsExpense(t *testing.T) {
	if (Money{Cents: -1}).IsExpense() != true {
		t.Fatal("negative amount should be an expense")
	}
	if (Money{Cents: 0}).IsExpense() {
		t.Fatal("zero is not an expense")
	}
	if (Money{Cents: 100}).IsExpense() {
		t.Fatal("credit is not an expense")
	}
}
