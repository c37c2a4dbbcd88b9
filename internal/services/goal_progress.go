package services

import (
	"errors"
	"math"
	"time"

	"github.com/forge-app/forge-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInvalidGoalStatus = errors.New("invalid goal status")

// GoalState is the derived part of a goal that milestone edits can change.
type GoalState struct {
	Progress    int
	Status      string
	CompletedAt *time.Time
}

// MilestoneProgress is the rounded percentage of completed milestones, 0 when
// there are none.
func MilestoneProgress(milestones []models.Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	completed := 0
	for _, m := range milestones {
		if m.Completed {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(milestones))))
}

// UpdateMilestones recomputes progress for a new milestone list. Reaching 100
// completes the goal; dropping below 100 leaves the status alone.
func UpdateMilestones(state GoalState, milestones []models.Milestone, now time.Time) GoalState {
	next := state
	next.Progress = MilestoneProgress(milestones)
	if next.Progress == 100 && state.Status != models.GoalStatusCompleted {
		next.Status = models.GoalStatusCompleted
		completedAt := now
		next.CompletedAt = &completedAt
	}
	return next
}

// SetGoalStatus applies a manual status change.
func SetGoalStatus(state GoalState, status string, now time.Time) (GoalState, error) {
	next := state
	switch status {
	case models.GoalStatusActive:
		next.Status = status
		next.CompletedAt = nil
	case models.GoalStatusCompleted:
		next.Status = status
		if next.CompletedAt == nil {
			completedAt := now
			next.CompletedAt = &completedAt
		}
	case models.GoalStatusArchived:
		next.Status = status
	default:
		return state, ErrInvalidGoalStatus
	}
	return next, nil
}

// StateOf extracts the derived state of a goal.
func StateOf(g *models.Goal) GoalState {
	return GoalState{Progress: g.Progress, Status: g.Status, CompletedAt: g.CompletedAt}
}

// Apply writes state back onto g.
func (s GoalState) Apply(g *models.Goal) {
	g.Progress = s.Progress
	g.Status = s.Status
	g.CompletedAt = s.CompletedAt
}

// ActualSpend sums the expenses linked to each goal. Goals without expenses
// map to zero.
func ActualSpend(db *gorm.DB, userID uuid.UUID, goalIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	totals := make(map[uuid.UUID]decimal.Decimal, len(goalIDs))
	for _, id := range goalIDs {
		totals[id] = decimal.Zero
	}
	if len(goalIDs) == 0 {
		return totals, nil
	}

	var expenses []models.Transaction
	if err := db.Where("user_id = ? AND type = ? AND goal_id IN ?", userID, models.TransactionExpense, goalIDs).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if e.GoalID == nil {
			continue
		}
		totals[*e.GoalID] = totals[*e.GoalID].Add(e.Amount)
	}
	return totals, nil
}
