package core

import "sort"

// MonthlySummary is the aggregate view of one family's records for one
// calendar month. TotalPending is always derived as TotalExpense minus
// TotalPaid, never stored, so it cannot drift from the records it
// summarizes.
type MonthlySummary struct {
	TotalIncome     Money
	TotalExpense    Money
	TotalPaid       Money
	TotalPending    Money
	TotalSplit      Money
	TotalCreditCard Money
	TotalCash       Money
	ByCategory      map[string]Money
	PendingList     []Expense
}

// Balance returns income minus expense for the month.
func (s MonthlySummary) Balance() Money {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// ComputeMonthlySummary reduces the expense and income sets of a single
// family and month into a MonthlySummary. Inputs are treated as an
// immutable snapshot: the function reads each record exactly once and never
// mutates its arguments, so recomputing over the same snapshot yields an
// identical result.
//
// An empty input is not an error; it produces a zero-valued summary.
// Expenses without a category land in the Uncategorized bucket.
func ComputeMonthlySummary(expenses []Expense, incomes []Income) MonthlySummary {
	summary := MonthlySummary{
		ByCategory: make(map[string]Money, len(expenses)),
	}

	for _, e := range expenses {
		summary.TotalExpense = summary.TotalExpense.Add(e.Amount)

		category := e.Category
		if category == "" {
			category = Uncategorized
		}
		summary.ByCategory[category] = summary.ByCategory[category].Add(e.Amount)

		if e.Paid {
			summary.TotalPaid = summary.TotalPaid.Add(e.Amount)
		} else {
			summary.PendingList = append(summary.PendingList, e)
		}
		if e.Split {
			summary.TotalSplit = summary.TotalSplit.Add(e.Amount)
		}
		if e.PaymentMethod.IsCredit() {
			summary.TotalCreditCard = summary.TotalCreditCard.Add(e.Amount)
		} else {
			summary.TotalCash = summary.TotalCash.Add(e.Amount)
		}
	}

	for _, i := range incomes {
		summary.TotalIncome = summary.TotalIncome.Add(i.Amount)
	}

	summary.TotalPending = summary.TotalExpense.Sub(summary.TotalPaid)

	// Date ascending; ID breaks ties so the order is deterministic.
	sort.SliceStable(summary.PendingList, func(a, b int) bool {
		pa, pb := summary.PendingList[a], summary.PendingList[b]
		if pa.Date.Equal(pb.Date) {
			return pa.ID < pb.ID
		}
		return pa.Date.Before(pb.Date)
	})

	return summary
}
