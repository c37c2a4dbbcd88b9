package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActivityHabitCompleted = "habit_completed"
	ActivityTaskCompleted  = "task_completed"
	ActivityGoalCompleted  = "goal_completed"
	ActivityPrayerLogged   = "prayer_logged"
	ActivityLevelUp        = "level_up"
)

type Activity struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	ActionType string         `json:"actionType" gorm:"not null"` // habit_completed, task_completed, goal_completed, prayer_logged, level_up
	TargetID   *uuid.UUID     `json:"targetId" gorm:"type:uuid"`  // habit, task or goal ID depending on action
	XP         int            `json:"xp" gorm:"default:0"`
	Metadata   *string        `json:"metadata"` // JSON string for extra context
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
