package services

import (
	"context"
	"fmt"

	"github.com/alessandrotostes/controle-de-gastos/internal/amqp"
	"github.com/alessandrotostes/controle-de-gastos/internal/core"
	"github.com/alessandrotostes/controle-de-gastos/internal/storage"
)

// BudgetService orchestrates monthly budget documents.
type BudgetService struct {
	storage *storage.SQLiteRepository
	sink    changeSink

	// When set, a save with no explicit total gets the sum of its
	// category targets as total.
	deriveTotal bool
}

func NewBudgetService(storage *storage.SQLiteRepository, publisher ChangePublisher, notifier ChangeNotifier, deriveTotal bool) *BudgetService {
	return &BudgetService{
		storage:     storage,
		sink:        changeSink{publisher: publisher, notifier: notifier},
		deriveTotal: deriveTotal,
	}
}

// Save replaces the family's budget document for the month.
func (s *BudgetService) Save(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if s.deriveTotal && b.TotalTarget.Cents == 0 {
		b.TotalTarget = core.DeriveTotalFromCategories(b.ByCategory)
	}
	if err := s.storage.SaveBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	s.sink.recordChanged(ctx, b.FamilyID, amqp.CollectionBudgets, b.Month)
	return b, nil
}

// Get returns the family's budget for the month. A month with no saved
// budget yields an empty document.
func (s *BudgetService) Get(ctx context.Context, familyID string, month core.Month) (core.Budget, error) {
	return s.storage.GetBudget(ctx, familyID, month)
}

// Progress compares the month's spending against its budget.
func (s *BudgetService) Progress(ctx context.Context, familyID string, month core.Month) (core.BudgetProgress, error) {
	budget, err := s.storage.GetBudget(ctx, familyID, month)
	if err != nil {
		return core.BudgetProgress{}, fmt.Errorf("get budget: %w", err)
	}
	expenses, err := s.storage.ListExpenses(ctx, familyID, month)
	if err != nil {
		return core.BudgetProgress{}, fmt.Errorf("list expenses: %w", err)
	}
	summary := core.ComputeMonthlySummary(expenses, nil)
	return core.ComputeBudgetProgress(budget, summary), nil
}
