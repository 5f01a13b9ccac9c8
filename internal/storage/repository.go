package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// SQLiteRepository persists all record kinds. Every query is scoped by
// family, dated records additionally by an inclusive month range.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- Expenses ---

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, family_id, description, amount_cents, category, date_unix_ns, split, paid, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.FamilyID, e.Description, e.Amount.Cents, e.Category,
		e.Date.UnixNano(), e.Split, e.Paid, string(e.PaymentMethod))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"family_id", e.FamilyID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)

	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET description = ?, amount_cents = ?, category = ?, date_unix_ns = ?, split = ?, paid = ?, payment_method = ?
		WHERE id = ? AND family_id = ?`,
		e.Description, e.Amount.Cents, e.Category, e.Date.UnixNano(),
		e.Split, e.Paid, string(e.PaymentMethod), e.ID, e.FamilyID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res, "expense", e.ID)
}

// SetExpensePaid flips only the paid flag, the cheapest of the edit paths.
func (r *SQLiteRepository) SetExpensePaid(ctx context.Context, familyID, id string, paid bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET paid = ? WHERE id = ? AND family_id = ?`,
		paid, id, familyID)
	if err != nil {
		return fmt.Errorf("set expense paid: %w", err)
	}
	return requireRow(res, "expense", id)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, familyID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res, "expense", id)
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, familyID, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, family_id, description, amount_cents, category, date_unix_ns, split, paid, payment_method
		FROM expenses WHERE id = ? AND family_id = ?`, id, familyID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns the family's expenses inside the month's inclusive
// date range, newest first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, familyID string, month core.Month) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, family_id, description, amount_cents, category, date_unix_ns, split, paid, payment_method
		FROM expenses
		WHERE family_id = ? AND date_unix_ns BETWEEN ? AND ?
		ORDER BY date_unix_ns DESC, id`,
		familyID, month.Start().UnixNano(), month.End().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e      core.Expense
		dateNs int64
		method string
	)
	err := row.Scan(&e.ID, &e.FamilyID, &e.Description, &e.Amount.Cents,
		&e.Category, &dateNs, &e.Split, &e.Paid, &method)
	if err != nil {
		return core.Expense{}, err
	}
	e.Date = time.Unix(0, dateNs).UTC()
	e.PaymentMethod = core.PaymentMethod(method)
	return e, nil
}

// --- Incomes ---

func (r *SQLiteRepository) CreateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO incomes (id, family_id, description, amount_cents, date_unix_ns)
		VALUES (?, ?, ?, ?, ?)`,
		i.ID, i.FamilyID, i.Description, i.Amount.Cents, i.Date.UnixNano())
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"id", i.ID,
		"family_id", i.FamilyID,
		"amount_cents", i.Amount.Cents)

	return i, nil
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, i core.Income) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE incomes SET description = ?, amount_cents = ?, date_unix_ns = ?
		WHERE id = ? AND family_id = ?`,
		i.Description, i.Amount.Cents, i.Date.UnixNano(), i.ID, i.FamilyID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(res, "income", i.ID)
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, familyID, id string) (core.Income, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, family_id, description, amount_cents, date_unix_ns
		FROM incomes WHERE id = ? AND family_id = ?`, id, familyID)
	var (
		i      core.Income
		dateNs int64
	)
	err := row.Scan(&i.ID, &i.FamilyID, &i.Description, &i.Amount.Cents, &dateNs)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, fmt.Errorf("income %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	i.Date = time.Unix(0, dateNs).UTC()
	return i, nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, familyID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM incomes WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireRow(res, "income", id)
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, familyID string, month core.Month) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, family_id, description, amount_cents, date_unix_ns
		FROM incomes
		WHERE family_id = ? AND date_unix_ns BETWEEN ? AND ?
		ORDER BY date_unix_ns DESC, id`,
		familyID, month.Start().UnixNano(), month.End().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		var (
			i      core.Income
			dateNs int64
		)
		if err := rows.Scan(&i.ID, &i.FamilyID, &i.Description, &i.Amount.Cents, &dateNs); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		i.Date = time.Unix(0, dateNs).UTC()
		incomes = append(incomes, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return incomes, nil
}

// --- Categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, family_id, name, color) VALUES (?, ?, ?, ?)`,
		c.ID, c.FamilyID, c.Name, c.Color)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ? WHERE id = ? AND family_id = ?`,
		c.Name, c.Color, c.ID, c.FamilyID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, "category", c.ID)
}

// DeleteCategory removes only the category document. Expenses referencing
// the category by name keep their label; the aggregator buckets them under
// the original name regardless.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, familyID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "category", id)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, familyID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, family_id, name, color FROM categories WHERE family_id = ? ORDER BY name`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// --- Budgets ---

// SaveBudget overwrites the family's budget document for the month
// wholesale: the previous category targets are replaced, not merged.
func (r *SQLiteRepository) SaveBudget(ctx context.Context, b core.Budget) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin budget save: %w", err)
	}
	defer tx.Rollback()

	monthKey := b.Month.String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO budgets (family_id, month, total_target_cents, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (family_id, month)
		DO UPDATE SET total_target_cents = excluded.total_target_cents, updated_at = CURRENT_TIMESTAMP`,
		b.FamilyID, monthKey, b.TotalTarget.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM budget_categories WHERE family_id = ? AND month = ?`,
		b.FamilyID, monthKey)
	if err != nil {
		return fmt.Errorf("clear budget categories: %w", err)
	}

	for name, target := range b.ByCategory {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO budget_categories (family_id, month, category, target_cents) VALUES (?, ?, ?, ?)`,
			b.FamilyID, monthKey, name, target.Cents)
		if err != nil {
			return fmt.Errorf("insert budget category %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit budget save: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"family_id", b.FamilyID,
		"month", monthKey,
		"total_target_cents", b.TotalTarget.Cents,
		"categories", len(b.ByCategory))

	return nil
}

// GetBudget returns the budget document for the month. A family that never
// saved a budget gets an empty document, not an error.
func (r *SQLiteRepository) GetBudget(ctx context.Context, familyID string, month core.Month) (core.Budget, error) {
	b := core.Budget{
		FamilyID:   familyID,
		Month:      month,
		ByCategory: make(map[string]core.Money),
	}

	err := r.db.QueryRowContext(ctx,
		`SELECT total_target_cents FROM budgets WHERE family_id = ? AND month = ?`,
		familyID, month.String()).Scan(&b.TotalTarget.Cents)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, target_cents FROM budget_categories WHERE family_id = ? AND month = ?`,
		familyID, month.String())
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return core.Budget{}, fmt.Errorf("scan budget category: %w", err)
		}
		b.ByCategory[name] = core.Money{Cents: cents}
	}
	if err := rows.Err(); err != nil {
		return core.Budget{}, fmt.Errorf("get budget categories: %w", err)
	}

	return b, nil
}

// --- Savings goals ---

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, family_id, name, target_cents, current_cents, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.FamilyID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		string(g.Status), g.CreatedAt)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.SavingsGoal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals SET name = ?, target_cents = ?, current_cents = ?, status = ?
		WHERE id = ? AND family_id = ?`,
		g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, string(g.Status),
		g.ID, g.FamilyID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res, "goal", g.ID)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, familyID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res, "goal", id)
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, familyID, id string) (core.SavingsGoal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, family_id, name, target_cents, current_cents, status, created_at
		FROM goals WHERE id = ? AND family_id = ?`, id, familyID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, core.ErrGoalNotFound)
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, familyID string) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, family_id, name, target_cents, current_cents, status, created_at
		FROM goals WHERE family_id = ? ORDER BY created_at DESC, id`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func scanGoal(row rowScanner) (core.SavingsGoal, error) {
	var (
		g      core.SavingsGoal
		status string
	)
	err := row.Scan(&g.ID, &g.FamilyID, &g.Name, &g.TargetAmount.Cents,
		&g.CurrentAmount.Cents, &status, &g.CreatedAt)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	g.Status = core.GoalStatus(status)
	return g, nil
}

// ApplyGoalStatusChanges applies a batched goal write in one transaction.
// Either every change lands or none does; a partially applied batch could
// leave a family with two active goals.
func (r *SQLiteRepository) ApplyGoalStatusChanges(ctx context.Context, familyID string, changes []core.GoalStatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin goal batch: %w", err)
	}
	defer tx.Rollback()

	for _, ch := range changes {
		var res sql.Result
		if ch.ResetCurrent {
			res, err = tx.ExecContext(ctx,
				`UPDATE goals SET status = ?, current_cents = 0 WHERE id = ? AND family_id = ?`,
				string(ch.Status), ch.GoalID, familyID)
		} else {
			res, err = tx.ExecContext(ctx,
				`UPDATE goals SET status = ? WHERE id = ? AND family_id = ?`,
				string(ch.Status), ch.GoalID, familyID)
		}
		if err != nil {
			return fmt.Errorf("update goal %s: %w", ch.GoalID, err)
		}
		if err := requireRow(res, "goal", ch.GoalID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit goal batch: %w", err)
	}

	slog.InfoContext(ctx, "Goal status batch applied",
		"family_id", familyID,
		"changes", len(changes))

	return nil
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: rows affected: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
