package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusArchived  = "archived"
)

type Milestone struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Goal struct {
	ID           uuid.UUID                       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID                       `json:"userId" gorm:"type:uuid;index;not null"`
	Title        string                          `json:"title" gorm:"not null"`
	Description  *string                         `json:"description"`
	Category     *string                         `json:"category"`
	Status       string                          `json:"status" gorm:"not null;default:'active'"`
	Progress     int                             `json:"progress" gorm:"default:0"`
	Milestones   datatypes.JSONType[[]Milestone] `json:"milestones"`
	TargetDate   *string                         `json:"targetDate"`
	TargetAmount *decimal.Decimal                `json:"targetAmount" gorm:"type:decimal(20,4)"`
	CompletedAt  *time.Time                      `json:"completedAt"`
	CreatedAt    time.Time                       `json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt                  `json:"-" gorm:"index"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// GoalView is a goal as returned by the API; ActualSpend is summed from the
// linked expense transactions on every read.
type GoalView struct {
	Goal
	ActualSpend decimal.Decimal `json:"actualSpend"`
}

// Goal DTOs
type CreateGoalRequest struct {
	Title        string           `json:"title" validate:"required"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	TargetDate   *string          `json:"targetDate"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	Milestones   []string         `json:"milestones"`
}

type UpdateGoalRequest struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	TargetDate   *string          `json:"targetDate"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
}

type MilestoneInput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type UpdateMilestonesRequest struct {
	Milestones []MilestoneInput `json:"milestones"`
}

type UpdateGoalStatusRequest struct {
	Status string `json:"status"`
}
