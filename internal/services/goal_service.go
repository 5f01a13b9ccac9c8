package services

import (
	"context"
	"fmt"

	"github.com/alessandrotostes/controle-de-gastos/internal/amqp"
	"github.com/alessandrotostes/controle-de-gastos/internal/core"
	"github.com/alessandrotostes/controle-de-gastos/internal/storage"
)

// GoalService orchestrates savings goal operations. Status transitions go
// through a planned batch so a family never ends up with two active goals.
type GoalService struct {
	storage *storage.SQLiteRepository
	sink    changeSink
}

func NewGoalService(storage *storage.SQLiteRepository, publisher ChangePublisher, notifier ChangeNotifier) *GoalService {
	return &GoalService{
		storage: storage,
		sink:    changeSink{publisher: publisher, notifier: notifier},
	}
}

func (s *GoalService) Create(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if g.Status == "" {
		g.Status = core.GoalPaused
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	created, err := s.storage.CreateGoal(ctx, g)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save goal: %w", err)
	}
	s.goalsChanged(ctx, created.FamilyID)
	return created, nil
}

func (s *GoalService) Update(ctx context.Context, g core.SavingsGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateGoal(ctx, g); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	s.goalsChanged(ctx, g.FamilyID)
	return nil
}

func (s *GoalService) Delete(ctx context.Context, familyID, id string) error {
	if err := s.storage.DeleteGoal(ctx, familyID, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	s.goalsChanged(ctx, familyID)
	return nil
}

func (s *GoalService) List(ctx context.Context, familyID string) ([]core.SavingsGoal, error) {
	return s.storage.ListGoals(ctx, familyID)
}

func (s *GoalService) Get(ctx context.Context, familyID, id string) (core.SavingsGoal, error) {
	return s.storage.GetGoal(ctx, familyID, id)
}

// Contribute adds a positive amount to the goal's saved total.
func (s *GoalService) Contribute(ctx context.Context, familyID, id string, amount core.Money) (core.SavingsGoal, error) {
	goal, err := s.storage.GetGoal(ctx, familyID, id)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("load goal: %w", err)
	}
	updated, err := core.Contribute(goal, amount)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	if err := s.storage.UpdateGoal(ctx, updated); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save contribution: %w", err)
	}
	s.goalsChanged(ctx, familyID)
	return updated, nil
}

// SetStatus moves the goal to the requested status. Activating a goal
// demotes the family's currently active goals in the same transaction.
func (s *GoalService) SetStatus(ctx context.Context, familyID, id string, status core.GoalStatus) error {
	goals, err := s.storage.ListGoals(ctx, familyID)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}
	changes, err := core.PlanStatusChange(goals, id, status)
	if err != nil {
		return err
	}
	if err := s.storage.ApplyGoalStatusChanges(ctx, familyID, changes); err != nil {
		return fmt.Errorf("apply status change: %w", err)
	}
	s.goalsChanged(ctx, familyID)
	return nil
}

// Reset zeroes the goal's progress and pauses it.
func (s *GoalService) Reset(ctx context.Context, familyID, id string) error {
	goal, err := s.storage.GetGoal(ctx, familyID, id)
	if err != nil {
		return fmt.Errorf("load goal: %w", err)
	}
	change := core.PlanReset(goal)
	if err := s.storage.ApplyGoalStatusChanges(ctx, familyID, []core.GoalStatusChange{change}); err != nil {
		return fmt.Errorf("apply reset: %w", err)
	}
	s.goalsChanged(ctx, familyID)
	return nil
}

// Goals are not month scoped, changes are reported against the current
// month so open dashboards refresh.
func (s *GoalService) goalsChanged(ctx context.Context, familyID string) {
	s.sink.recordChanged(ctx, familyID, amqp.CollectionGoals, core.CurrentMonth())
}
