package core

import "sort"

// CategoryProgress reports how one category's spending compares with its
// budget target for the month. Percent is unbounded: values above 100
// signal overspend and are rendered distinctly, never clamped.
type CategoryProgress struct {
	Category string
	Budgeted Money
	Spent    Money
	Percent  float64
	IsOver   bool
}

// BudgetProgress is the result of comparing a monthly summary against the
// month's budget document. TotalPercent is nil when no total target is set,
// which is different from a target of zero spent.
type BudgetProgress struct {
	TotalPercent *float64
	OverTotal    bool
	PerCategory  []CategoryProgress
}

// ComputeBudgetProgress compares the per-category spending of summary
// against the targets of budget. Only categories with a positive target are
// reported; spending in categories without a target counts toward the total
// but produces no per-category row. Rows are ordered by category name so
// the output is deterministic.
func ComputeBudgetProgress(budget Budget, summary MonthlySummary) BudgetProgress {
	var progress BudgetProgress

	if budget.TotalTarget.Cents > 0 {
		percent := float64(summary.TotalExpense.Cents) / float64(budget.TotalTarget.Cents) * 100
		progress.TotalPercent = &percent
		progress.OverTotal = summary.TotalExpense.Cents > budget.TotalTarget.Cents
	}

	names := make([]string, 0, len(budget.ByCategory))
	for name, target := range budget.ByCategory {
		if target.Cents > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		budgeted := budget.ByCategory[name]
		spent := summary.ByCategory[name]
		progress.PerCategory = append(progress.PerCategory, CategoryProgress{
			Category: name,
			Budgeted: budgeted,
			Spent:    spent,
			Percent:  float64(spent.Cents) / float64(budgeted.Cents) * 100,
			IsOver:   spent.Cents > budgeted.Cents,
		})
	}

	return progress
}

// DeriveTotalFromCategories returns the implied total budget as the sum of
// all category targets. Used at save time when the user left the explicit
// total empty.
func DeriveTotalFromCategories(byCategory map[string]Money) Money {
	var total Money
	for _, target := range byCategory {
		total = total.Add(target)
	}
	return total
}
