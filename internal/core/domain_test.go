package core

import (
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: 0}).ValidateTarget(); err != nil {
		t.Fatalf("zero target must be valid, got %v", err)
	}
	if err := (Money{Cents: -1}).ValidateTarget(); err == nil {
		t.Fatalf("expected error for negative target")
	}
}

func TestExpenseValidate(t *testing.T) {
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	good := Expense{
		FamilyID:      "fam1",
		Description:   "groceries",
		Amount:        Money{Cents: 100},
		Category:      "Food",
		Date:          date,
		PaymentMethod: PaymentPix,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Description: "a", Amount: Money{Cents: 1}, Date: date, PaymentMethod: PaymentCash},                                // no family
		{FamilyID: "f", Description: "", Amount: Money{Cents: 1}, Date: date, PaymentMethod: PaymentCash},                  // empty description
		{FamilyID: "f", Description: "a", Amount: Money{Cents: 0}, Date: date, PaymentMethod: PaymentCash},                 // zero amount
		{FamilyID: "f", Description: "a", Amount: Money{Cents: 1}, PaymentMethod: PaymentCash},                             // zero date
		{FamilyID: "f", Description: "a", Amount: Money{Cents: 1}, Date: date, PaymentMethod: PaymentMethod("barter")},     // bad method
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestIncomeValidate(t *testing.T) {
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	good := Income{FamilyID: "fam1", Description: "salary", Amount: Money{Cents: 100}, Date: date}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Income{FamilyID: "fam1", Description: "salary", Amount: Money{Cents: 100}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{
		FamilyID:    "fam1",
		Month:       Month{2026, 8},
		TotalTarget: Money{Cents: 0},
		ByCategory:  map[string]Money{"Food": {Cents: 100}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.ByCategory = map[string]Money{"Food": {Cents: -1}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for negative category target")
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	good := SavingsGoal{FamilyID: "fam1", Name: "emergency fund", Status: GoalPaused}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.Status = GoalStatus("archived")
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
