package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
	"github.com/alessandrotostes/controle-de-gastos/internal/storage"
)

type publishedChange struct {
	familyID   string
	collection string
	month      string
}

type fakePublisher struct {
	mu      sync.Mutex
	changes []publishedChange
}

func (f *fakePublisher) PublishRecordChange(_ context.Context, familyID, collection, month string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, publishedChange{familyID, collection, month})
	return nil
}

func (f *fakePublisher) published() []publishedChange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedChange(nil), f.changes...)
}

func testStorage(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "gastos.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLedgerService_CreateExpensePublishesChange(t *testing.T) {
	repo := testStorage(t)
	pub := &fakePublisher{}
	svc := NewLedgerService(repo, pub, nil)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, core.Expense{
		FamilyID:      "fam1",
		Description:   "groceries",
		Amount:        core.Money{Cents: 1234},
		Date:          time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		PaymentMethod: core.PaymentPix,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}

	changes := pub.published()
	if len(changes) != 1 {
		t.Fatalf("expected 1 published change, got %d", len(changes))
	}
	want := publishedChange{"fam1", "expenses", "2026-08"}
	if changes[0] != want {
		t.Fatalf("published %+v, want %+v", changes[0], want)
	}
}

func TestLedgerService_CreateExpenseRejectsInvalid(t *testing.T) {
	repo := testStorage(t)
	pub := &fakePublisher{}
	svc := NewLedgerService(repo, pub, nil)

	_, err := svc.CreateExpense(context.Background(), core.Expense{
		FamilyID:      "fam1",
		Description:   "bad",
		Amount:        core.Money{Cents: 0},
		Date:          time.Now(),
		PaymentMethod: core.PaymentCash,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(pub.published()) != 0 {
		t.Fatalf("rejected write must not publish")
	}
}

func TestLedgerService_UpdateAcrossMonthsNotifiesBoth(t *testing.T) {
	repo := testStorage(t)
	pub := &fakePublisher{}
	svc := NewLedgerService(repo, pub, nil)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, core.Expense{
		FamilyID:      "fam1",
		Description:   "rent",
		Amount:        core.Money{Cents: 150000},
		Date:          time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: core.PaymentDebit,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Date = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if err := svc.UpdateExpense(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	months := map[string]bool{}
	for _, c := range pub.published()[1:] {
		months[c.month] = true
	}
	if !months["2026-08"] || !months["2026-09"] {
		t.Fatalf("cross-month update must notify both months, got %v", months)
	}
}

func TestLedgerService_IncomeUpdateAcrossMonthsNotifiesBoth(t *testing.T) {
	repo := testStorage(t)
	pub := &fakePublisher{}
	svc := NewLedgerService(repo, pub, nil)
	ctx := context.Background()

	created, err := svc.CreateIncome(ctx, core.Income{
		FamilyID:    "fam1",
		Description: "salary",
		Amount:      core.Money{Cents: 500000},
		Date:        time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Date = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	if err := svc.UpdateIncome(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	months := map[string]bool{}
	for _, c := range pub.published()[1:] {
		months[c.month] = true
	}
	if !months["2026-08"] || !months["2026-09"] {
		t.Fatalf("cross-month update must notify both months, got %v", months)
	}
}

func TestLedgerService_DeleteIncomeNotifiesRecordMonth(t *testing.T) {
	repo := testStorage(t)
	pub := &fakePublisher{}
	svc := NewLedgerService(repo, pub, nil)
	ctx := context.Background()

	created, err := svc.CreateIncome(ctx, core.Income{
		FamilyID:    "fam1",
		Description: "bonus",
		Amount:      core.Money{Cents: 100000},
		Date:        time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The month comes from the stored record, not from the caller.
	if err := svc.DeleteIncome(ctx, "fam1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	changes := pub.published()
	want := publishedChange{"fam1", "incomes", "2026-03"}
	if changes[len(changes)-1] != want {
		t.Fatalf("published %+v, want %+v", changes[len(changes)-1], want)
	}
}

func TestLedgerService_MonthlySummary(t *testing.T) {
	repo := testStorage(t)
	svc := NewLedgerService(repo, nil, nil)
	ctx := context.Background()

	if _, err := svc.CreateExpense(ctx, core.Expense{
		FamilyID:      "fam1",
		Description:   "groceries",
		Amount:        core.Money{Cents: 20000},
		Category:      "Food",
		Date:          time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
		Paid:          true,
		PaymentMethod: core.PaymentCash,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if _, err := svc.CreateIncome(ctx, core.Income{
		FamilyID:    "fam1",
		Description: "salary",
		Amount:      core.Money{Cents: 500000},
		Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create income: %v", err)
	}

	summary, err := svc.MonthlySummary(ctx, "fam1", core.Month{Year: 2026, Month: 8})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalIncome.Cents != 500000 || summary.TotalExpense.Cents != 20000 {
		t.Fatalf("unexpected totals %+v", summary)
	}
	if summary.Balance().Cents != 480000 {
		t.Fatalf("balance = %d, want 480000", summary.Balance().Cents)
	}
	if summary.ByCategory["Food"].Cents != 20000 {
		t.Fatalf("category bucket missing: %+v", summary.ByCategory)
	}
}

func TestBudgetService_SaveDerivesTotal(t *testing.T) {
	repo := testStorage(t)
	svc := NewBudgetService(repo, nil, nil, true)
	ctx := context.Background()
	month := core.Month{Year: 2026, Month: 8}

	saved, err := svc.Save(ctx, core.Budget{
		FamilyID: "fam1",
		Month:    month,
		ByCategory: map[string]core.Money{
			"Food":      {Cents: 100000},
			"Transport": {Cents: 50000},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.TotalTarget.Cents != 150000 {
		t.Fatalf("derived total = %d, want 150000", saved.TotalTarget.Cents)
	}

	got, err := svc.Get(ctx, "fam1", month)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalTarget.Cents != 150000 {
		t.Fatalf("persisted total = %d, want 150000", got.TotalTarget.Cents)
	}
}

func TestBudgetService_SaveKeepsExplicitTotal(t *testing.T) {
	repo := testStorage(t)
	svc := NewBudgetService(repo, nil, nil, true)

	saved, err := svc.Save(context.Background(), core.Budget{
		FamilyID:    "fam1",
		Month:       core.Month{Year: 2026, Month: 8},
		TotalTarget: core.Money{Cents: 999999},
		ByCategory:  map[string]core.Money{"Food": {Cents: 100000}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.TotalTarget.Cents != 999999 {
		t.Fatalf("explicit total must win, got %d", saved.TotalTarget.Cents)
	}
}

func TestBudgetService_Progress(t *testing.T) {
	repo := testStorage(t)
	ledger := NewLedgerService(repo, nil, nil)
	budgets := NewBudgetService(repo, nil, nil, false)
	ctx := context.Background()
	month := core.Month{Year: 2026, Month: 8}

	if _, err := budgets.Save(ctx, core.Budget{
		FamilyID:    "fam1",
		Month:       month,
		TotalTarget: core.Money{Cents: 200000},
		ByCategory:  map[string]core.Money{"Food": {Cents: 50000}},
	}); err != nil {
		t.Fatalf("save budget: %v", err)
	}
	if _, err := ledger.CreateExpense(ctx, core.Expense{
		FamilyID:      "fam1",
		Description:   "groceries",
		Amount:        core.Money{Cents: 60000},
		Category:      "Food",
		Date:          time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		PaymentMethod: core.PaymentCash,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	progress, err := budgets.Progress(ctx, "fam1", month)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(progress.PerCategory) != 1 {
		t.Fatalf("expected one category row, got %+v", progress.PerCategory)
	}
	row := progress.PerCategory[0]
	if row.Percent != 120 || !row.IsOver {
		t.Fatalf("expected 120%% over budget, got %+v", row)
	}
	if progress.TotalPercent == nil || *progress.TotalPercent != 30 {
		t.Fatalf("unexpected total percent %+v", progress.TotalPercent)
	}
}

func TestGoalService_ContributeAndStatus(t *testing.T) {
	repo := testStorage(t)
	svc := NewGoalService(repo, nil, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, core.SavingsGoal{
		FamilyID:     "fam1",
		Name:         "emergency",
		TargetAmount: core.Money{Cents: 100000},
		Status:       core.GoalActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, core.SavingsGoal{
		FamilyID:     "fam1",
		Name:         "vacation",
		TargetAmount: core.Money{Cents: 500000},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.Status != core.GoalPaused {
		t.Fatalf("default status must be paused, got %v", second.Status)
	}

	updated, err := svc.Contribute(ctx, "fam1", first.ID, core.Money{Cents: 25000})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if updated.CurrentAmount.Cents != 25000 {
		t.Fatalf("contribution not applied: %+v", updated)
	}
	if _, err := svc.Contribute(ctx, "fam1", first.ID, core.Money{Cents: -1}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("negative contribution must fail, got %v", err)
	}

	if err := svc.SetStatus(ctx, "fam1", second.ID, core.GoalActive); err != nil {
		t.Fatalf("set status: %v", err)
	}
	goals, _ := svc.List(ctx, "fam1")
	for _, g := range goals {
		switch g.ID {
		case first.ID:
			if g.Status != core.GoalPaused {
				t.Fatalf("previous active goal must be demoted, got %v", g.Status)
			}
		case second.ID:
			if g.Status != core.GoalActive {
				t.Fatalf("target goal must be active, got %v", g.Status)
			}
		}
	}
}

func TestGoalService_Reset(t *testing.T) {
	repo := testStorage(t)
	svc := NewGoalService(repo, nil, nil)
	ctx := context.Background()

	goal, err := svc.Create(ctx, core.SavingsGoal{
		FamilyID:     "fam1",
		Name:         "car",
		TargetAmount: core.Money{Cents: 10000},
		Status:       core.GoalActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Contribute(ctx, "fam1", goal.ID, core.Money{Cents: 10000}); err != nil {
		t.Fatalf("contribute: %v", err)
	}

	if err := svc.Reset(ctx, "fam1", goal.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, err := svc.Get(ctx, "fam1", goal.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CurrentAmount.Cents != 0 || got.Status != core.GoalPaused {
		t.Fatalf("reset must zero and pause, got %+v", got)
	}
}
