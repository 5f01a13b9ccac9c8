package services

import (
	"context"
	"fmt"

	"github.com/alessandrotostes/controle-de-gastos/internal/amqp"
	"github.com/alessandrotostes/controle-de-gastos/internal/core"
	"github.com/alessandrotostes/controle-de-gastos/internal/storage"
)

// LedgerService orchestrates expense, income and category operations across
// SQLite and the change sinks.
type LedgerService struct {
	storage *storage.SQLiteRepository
	sink    changeSink
}

func NewLedgerService(storage *storage.SQLiteRepository, publisher ChangePublisher, notifier ChangeNotifier) *LedgerService {
	return &LedgerService{
		storage: storage,
		sink:    changeSink{publisher: publisher, notifier: notifier},
	}
}

func (s *LedgerService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	created, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	s.sink.recordChanged(ctx, created.FamilyID, amqp.CollectionExpenses, core.MonthOf(created.Date))
	return created, nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	old, err := s.storage.GetExpense(ctx, e.FamilyID, e.ID)
	if err != nil {
		return fmt.Errorf("load expense: %w", err)
	}
	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	// A date moved across months touches both monthly views.
	newMonth := core.MonthOf(e.Date)
	s.sink.recordChanged(ctx, e.FamilyID, amqp.CollectionExpenses, newMonth)
	if oldMonth := core.MonthOf(old.Date); oldMonth != newMonth {
		s.sink.recordChanged(ctx, e.FamilyID, amqp.CollectionExpenses, oldMonth)
	}
	return nil
}

func (s *LedgerService) SetExpensePaid(ctx context.Context, familyID, id string, paid bool) error {
	e, err := s.storage.GetExpense(ctx, familyID, id)
	if err != nil {
		return fmt.Errorf("load expense: %w", err)
	}
	if err := s.storage.SetExpensePaid(ctx, familyID, id, paid); err != nil {
		return fmt.Errorf("set expense paid: %w", err)
	}
	s.sink.recordChanged(ctx, familyID, amqp.CollectionExpenses, core.MonthOf(e.Date))
	return nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, familyID, id string) error {
	e, err := s.storage.GetExpense(ctx, familyID, id)
	if err != nil {
		return fmt.Errorf("load expense: %w", err)
	}
	if err := s.storage.DeleteExpense(ctx, familyID, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.sink.recordChanged(ctx, familyID, amqp.CollectionExpenses, core.MonthOf(e.Date))
	return nil
}

func (s *LedgerService) ListExpenses(ctx context.Context, familyID string, month core.Month) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, familyID, month)
}

func (s *LedgerService) GetExpense(ctx context.Context, familyID, id string) (core.Expense, error) {
	return s.storage.GetExpense(ctx, familyID, id)
}

func (s *LedgerService) CreateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	if err := i.Validate(); err != nil {
		return core.Income{}, err
	}
	created, err := s.storage.CreateIncome(ctx, i)
	if err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}
	s.sink.recordChanged(ctx, created.FamilyID, amqp.CollectionIncomes, core.MonthOf(created.Date))
	return created, nil
}

func (s *LedgerService) UpdateIncome(ctx context.Context, i core.Income) error {
	if err := i.Validate(); err != nil {
		return err
	}
	old, err := s.storage.GetIncome(ctx, i.FamilyID, i.ID)
	if err != nil {
		return fmt.Errorf("load income: %w", err)
	}
	if err := s.storage.UpdateIncome(ctx, i); err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	// A date moved across months touches both monthly views.
	newMonth := core.MonthOf(i.Date)
	s.sink.recordChanged(ctx, i.FamilyID, amqp.CollectionIncomes, newMonth)
	if oldMonth := core.MonthOf(old.Date); oldMonth != newMonth {
		s.sink.recordChanged(ctx, i.FamilyID, amqp.CollectionIncomes, oldMonth)
	}
	return nil
}

func (s *LedgerService) DeleteIncome(ctx context.Context, familyID, id string) error {
	i, err := s.storage.GetIncome(ctx, familyID, id)
	if err != nil {
		return fmt.Errorf("load income: %w", err)
	}
	if err := s.storage.DeleteIncome(ctx, familyID, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	s.sink.recordChanged(ctx, familyID, amqp.CollectionIncomes, core.MonthOf(i.Date))
	return nil
}

func (s *LedgerService) GetIncome(ctx context.Context, familyID, id string) (core.Income, error) {
	return s.storage.GetIncome(ctx, familyID, id)
}

func (s *LedgerService) ListIncomes(ctx context.Context, familyID string, month core.Month) ([]core.Income, error) {
	return s.storage.ListIncomes(ctx, familyID, month)
}

func (s *LedgerService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	created, err := s.storage.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	s.sink.recordChanged(ctx, created.FamilyID, amqp.CollectionCategories, core.CurrentMonth())
	return created, nil
}

func (s *LedgerService) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateCategory(ctx, c); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	s.sink.recordChanged(ctx, c.FamilyID, amqp.CollectionCategories, core.CurrentMonth())
	return nil
}

func (s *LedgerService) DeleteCategory(ctx context.Context, familyID, id string) error {
	if err := s.storage.DeleteCategory(ctx, familyID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.sink.recordChanged(ctx, familyID, amqp.CollectionCategories, core.CurrentMonth())
	return nil
}

func (s *LedgerService) ListCategories(ctx context.Context, familyID string) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, familyID)
}

// MonthlySummary loads the month's records and aggregates them.
func (s *LedgerService) MonthlySummary(ctx context.Context, familyID string, month core.Month) (core.MonthlySummary, error) {
	expenses, err := s.storage.ListExpenses(ctx, familyID, month)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list expenses: %w", err)
	}
	incomes, err := s.storage.ListIncomes(ctx, familyID, month)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list incomes: %w", err)
	}
	return core.ComputeMonthlySummary(expenses, incomes), nil
}
