package core

import "testing"

func TestComputeBudgetProgressOverspend(t *testing.T) {
	budget := Budget{
		FamilyID: "fam1",
		Month:    Month{2026, 8},
		ByCategory: map[string]Money{
			"Food": {Cents: 10000},
		},
	}
	summary := MonthlySummary{
		TotalExpense: Money{Cents: 12000},
		ByCategory:   map[string]Money{"Food": {Cents: 12000}},
	}

	p := ComputeBudgetProgress(budget, summary)

	if p.TotalPercent != nil {
		t.Fatalf("no total target set: TotalPercent must be nil, got %v", *p.TotalPercent)
	}
	if len(p.PerCategory) != 1 {
		t.Fatalf("expected 1 category row, got %d", len(p.PerCategory))
	}
	row := p.PerCategory[0]
	if row.Category != "Food" || row.Budgeted.Cents != 10000 || row.Spent.Cents != 12000 {
		t.Fatalf("unexpected row %+v", row)
	}
	if row.Percent != 120 {
		t.Fatalf("percent must be unclamped: expected 120, got %v", row.Percent)
	}
	if !row.IsOver {
		t.Fatalf("overspent category must be flagged")
	}
}

func TestComputeBudgetProgressTotal(t *testing.T) {
	budget := Budget{
		FamilyID:    "fam1",
		Month:       Month{2026, 8},
		TotalTarget: Money{Cents: 200000},
	}
	summary := MonthlySummary{TotalExpense: Money{Cents: 50000}}

	p := ComputeBudgetProgress(budget, summary)

	if p.TotalPercent == nil || *p.TotalPercent != 25 {
		t.Fatalf("expected total percent 25, got %v", p.TotalPercent)
	}
	if p.OverTotal {
		t.Fatalf("under budget must not be flagged over")
	}

	summary.TotalExpense = Money{Cents: 200001}
	p = ComputeBudgetProgress(budget, summary)
	if !p.OverTotal {
		t.Fatalf("spending above the total target must be flagged over")
	}
}

func TestComputeBudgetProgressSkipsZeroTargets(t *testing.T) {
	budget := Budget{
		FamilyID: "fam1",
		Month:    Month{2026, 8},
		ByCategory: map[string]Money{
			"Food":      {Cents: 10000},
			"Transport": {Cents: 0},
		},
	}
	summary := MonthlySummary{
		ByCategory: map[string]Money{
			"Food":      {Cents: 100},
			"Transport": {Cents: 9999},
		},
	}

	p := ComputeBudgetProgress(budget, summary)
	if len(p.PerCategory) != 1 || p.PerCategory[0].Category != "Food" {
		t.Fatalf("zero-target categories must be excluded, got %+v", p.PerCategory)
	}
}

func TestComputeBudgetProgressDeterministicOrder(t *testing.T) {
	budget := Budget{
		FamilyID: "fam1",
		Month:    Month{2026, 8},
		ByCategory: map[string]Money{
			"Transport": {Cents: 100},
			"Food":      {Cents: 100},
			"Housing":   {Cents: 100},
		},
	}
	p := ComputeBudgetProgress(budget, MonthlySummary{})
	want := []string{"Food", "Housing", "Transport"}
	for i, name := range want {
		if p.PerCategory[i].Category != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, p.PerCategory[i].Category)
		}
	}
}

func TestDeriveTotalFromCategories(t *testing.T) {
	total := DeriveTotalFromCategories(map[string]Money{
		"Food":      {Cents: 10000},
		"Transport": {Cents: 5000},
	})
	if total.Cents != 15000 {
		t.Fatalf("expected 15000, got %d", total.Cents)
	}
	if DeriveTotalFromCategories(nil).Cents != 0 {
		t.Fatalf("empty targets must derive a zero total")
	}
}
