package core

// GoalStatusChange is one entry of a batched goal write. All changes of a
// plan must be applied by the store as a single atomic write: a partially
// applied plan would leave the family with zero or two active goals.
type GoalStatusChange struct {
	GoalID string
	Status GoalStatus

	// ResetCurrent zeroes the accumulated amount alongside the status
	// change (used by reset, never by plain status transitions).
	ResetCurrent bool
}

// Contribute returns a copy of goal with amount added to its accumulated
// value. The amount must be strictly positive; nothing is mutated on error.
// Overshooting the target is permitted: the displayed percentage simply
// exceeds 100.
func Contribute(goal SavingsGoal, amount Money) (SavingsGoal, error) {
	if amount.Cents <= 0 {
		return SavingsGoal{}, ErrInvalidAmount
	}
	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	return goal, nil
}

// ProgressPercent returns the goal's completion percentage, unclamped.
// A goal without a target (zero TargetAmount) has no meaningful percentage
// and reports zero.
func (g SavingsGoal) ProgressPercent() float64 {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	return float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
}

// PlanStatusChange builds the batched write that moves the goal identified
// by targetID to status. Activating a goal demotes every currently active
// sibling to paused in the same batch, preserving the invariant that at
// most one goal per family is active. Transitions to paused or completed
// touch only the target.
func PlanStatusChange(goals []SavingsGoal, targetID string, status GoalStatus) ([]GoalStatusChange, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	found := false
	for _, g := range goals {
		if g.ID == targetID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrGoalNotFound
	}

	var changes []GoalStatusChange
	if status == GoalActive {
		for _, g := range goals {
			if g.ID != targetID && g.Status == GoalActive {
				changes = append(changes, GoalStatusChange{GoalID: g.ID, Status: GoalPaused})
			}
		}
	}
	changes = append(changes, GoalStatusChange{GoalID: targetID, Status: status})
	return changes, nil
}

// PlanReset builds the write that restarts a goal's progress: accumulated
// amount back to zero and status to paused. Resetting never auto-activates.
func PlanReset(goal SavingsGoal) GoalStatusChange {
	return GoalStatusChange{GoalID: goal.ID, Status: GoalPaused, ResetCurrent: true}
}
