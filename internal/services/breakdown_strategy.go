// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for category breakdown styles.
// Each style ("default", "enhanced") has its own calculator that encapsulates
// the grouping logic.

package services

import (
	"fmt"

	"bilan/internal/core"
)

// BreakdownCalculator is the strategy interface for computing a category
// breakdown over a transaction set.
type BreakdownCalculator interface {
	Compute(txns []core.Transaction, policy core.BudgetPolicy, rules core.CategoryRules) ([]core.CategoryBreakdown, error)
}

// Breakdown style names accepted by GetBreakdownCalculator.
const (
	BreakdownDefault  = "default"
	BreakdownEnhanced = "enhanced"
)

// DefaultCalculator groups expenses by category parent.
type DefaultCalculator struct{}

func (DefaultCalculator) Compute(txns []core.Transaction, policy core.BudgetPolicy, _ core.CategoryRules) ([]core.CategoryBreakdown, error) {
	return core.ComputeParentBreakdown(txns, policy)
}

// EnhancedCalculator classifies transactions through the exclusive cascade
// (salary, mandatory, supplier, other, reimbursements).
type EnhancedCalculator struct{}

func (EnhancedCalculator) Compute(txns []core.Transaction, policy core.BudgetPolicy, rules core.CategoryRules) ([]core.CategoryBreakdown, error) {
	return core.ComputeEnhancedBreakdown(txns, policy, rules)
}

// breakdownStrategies maps style names to their calculators.
var breakdownStrategies = map[string]BreakdownCalculator{
	BreakdownDefault:  DefaultCalculator{},
	BreakdownEnhanced: EnhancedCalculator{},
}

// GetBreakdownCalculator returns the calculator for a breakdown style.
// Returns an error if the style is not registered.
func GetBreakdownCalculator(style string) (BreakdownCalculator, error) {
	calc, ok := breakdownStrategies[style]
	if !ok {
		return nil, fmt.Errorf("unknown breakdown style: %s", style)
	}
	return calc, nil
}

// RegisterBreakdownCalculator allows registering custom calculators for new
// breakdown styles.
func RegisterBreakdownCalculator(style string, calc BreakdownCalculator) {
	breakdownStrategies[style] = calc
}
