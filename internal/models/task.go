package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	GoalID      *uuid.UUID     `json:"goalId" gorm:"type:uuid;index"`
	Title       string         `json:"title" gorm:"not null"`
	Notes       *string        `json:"notes"`
	Status      string         `json:"status" gorm:"not null;default:'todo'"` // todo, in_progress, completed
	Priority    string         `json:"priority" gorm:"not null;default:'medium'"`
	DueDate     *string        `json:"dueDate"`
	CompletedAt *time.Time     `json:"completedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Task DTOs
type CreateTaskRequest struct {
	Title    string     `json:"title" validate:"required"`
	Notes    *string    `json:"notes"`
	Priority string     `json:"priority"`
	DueDate  *string    `json:"dueDate"`
	GoalID   *uuid.UUID `json:"goalId"`
}

type UpdateTaskRequest struct {
	Title    *string    `json:"title"`
	Notes    *string    `json:"notes"`
	Status   *string    `json:"status"`
	Priority *string    `json:"priority"`
	DueDate  *string    `json:"dueDate"`
	GoalID   *uuid.UUID `json:"goalId"`
}
