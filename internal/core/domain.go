package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentDebit      PaymentMethod = "debit"
	PaymentPix        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
)

const (
	GoalActive    GoalStatus = "active"
	GoalPaused    GoalStatus = "paused"
	GoalCompleted GoalStatus = "completed"
)

// Uncategorized is the implicit bucket for expenses whose category name is
// empty or whose category was deleted after the fact.
const Uncategorized = "uncategorized"

type (
	PaymentMethod string

	GoalStatus string

	Money struct {
		Cents int64
	}

	Expense struct {
		ID            string
		FamilyID      string
		Description   string
		Amount        Money
		Category      string // referenced by name, not by ID
		Date          time.Time
		Split         bool
		Paid          bool
		PaymentMethod PaymentMethod
	}

	Income struct {
		ID          string
		FamilyID    string
		Description string
		Amount      Money
		Date        time.Time
	}

	Category struct {
		ID       string
		FamilyID string
		Name     string
		Color    string
	}

	// Budget is the monthly budget document for one family, keyed by
	// (FamilyID, Month). Saved wholesale: a save replaces all category
	// targets at once.
	Budget struct {
		FamilyID    string
		Month       Month
		TotalTarget Money
		ByCategory  map[string]Money
	}

	SavingsGoal struct {
		ID            string
		FamilyID      string
		Name          string
		TargetAmount  Money // zero means "no target"
		CurrentAmount Money
		Status        GoalStatus
		CreatedAt     time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyFamily      = errors.New("empty family id")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrUnknownPayment   = errors.New("unknown payment method")
	ErrUnknownStatus    = errors.New("unknown goal status")
	ErrGoalNotFound     = errors.New("goal not found")
)

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCash, PaymentDebit, PaymentPix, PaymentCreditCard:
		return nil
	}
	return ErrUnknownPayment
}

// IsCredit reports whether the method settles through a credit card rather
// than immediately.
func (m PaymentMethod) IsCredit() bool {
	return m == PaymentCreditCard
}

func (s GoalStatus) Validate() error {
	switch s {
	case GoalActive, GoalPaused, GoalCompleted:
		return nil
	}
	return ErrUnknownStatus
}

// Validate checks that the amount is strictly positive. Targets, which may
// legitimately be zero, use ValidateTarget instead.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateTarget checks that the amount is non-negative.
func (m Money) ValidateTarget() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.FamilyID) == "" {
		return ErrEmptyFamily
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := e.PaymentMethod.Validate(); err != nil {
		return err
	}
	return nil
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.FamilyID) == "" {
		return ErrEmptyFamily
	}
	if len(strings.TrimSpace(i.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(i.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if i.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.FamilyID) == "" {
		return ErrEmptyFamily
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.FamilyID) == "" {
		return ErrEmptyFamily
	}
	if err := b.Month.Validate(); err != nil {
		return err
	}
	if err := b.TotalTarget.ValidateTarget(); err != nil {
		return err
	}
	for _, target := range b.ByCategory {
		if err := target.ValidateTarget(); err != nil {
			return err
		}
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.FamilyID) == "" {
		return ErrEmptyFamily
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.TargetAmount.ValidateTarget(); err != nil {
		return err
	}
	if err := g.CurrentAmount.ValidateTarget(); err != nil {
		return err
	}
	return g.Status.Validate()
}
