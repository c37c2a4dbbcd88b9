package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Schedule narrows the days a habit is due. Weekdays use 0=Sunday..6=Saturday,
// month days use 1..31. An empty list means every day.
type Schedule struct {
	DaysOfWeek  []int `json:"daysOfWeek,omitempty"`
	DaysOfMonth []int `json:"daysOfMonth,omitempty"`
}

type Habit struct {
	ID          uuid.UUID                    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID                    `json:"userId" gorm:"type:uuid;index;not null"`
	Name        string                       `json:"name" gorm:"not null"`
	Description *string                      `json:"description"`
	Icon        *string                      `json:"icon"`
	Color       *string                      `json:"color"`
	Frequency   string                       `json:"frequency" gorm:"not null;default:'daily'"`
	Schedule    datatypes.JSONType[Schedule] `json:"schedule"`
	Streak      int                          `json:"streak" gorm:"default:0"`
	BestStreak  int                          `json:"bestStreak" gorm:"default:0"`
	Archived    bool                         `json:"archived" gorm:"default:false"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt               `json:"-" gorm:"index"`
	Logs        []HabitLog                   `json:"logs,omitempty" gorm:"foreignKey:HabitID"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// HabitLog is one calendar day of a habit. Date is a YYYY-MM-DD key already
// normalized to the client's local day; (habit_id, date) is unique.
type HabitLog struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	HabitID   uuid.UUID `json:"habitId" gorm:"type:uuid;not null;uniqueIndex:idx_habit_log_day"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Date      string    `json:"date" gorm:"size:10;not null;uniqueIndex:idx_habit_log_day"`
	Completed bool      `json:"completed" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *HabitLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Habit DTOs
type CreateHabitRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	Color       *string   `json:"color"`
	Frequency   string    `json:"frequency"`
	Schedule    *Schedule `json:"schedule"`
}

type UpdateHabitRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	Color       *string   `json:"color"`
	Frequency   *string   `json:"frequency"`
	Schedule    *Schedule `json:"schedule"`
	Archived    *bool     `json:"archived"`
}

// LogHabitRequest sets the completion of one local day. Completed nil flips
// the current state. TZOffset follows JavaScript's getTimezoneOffset (UTC
// minus local, in minutes).
type LogHabitRequest struct {
	Date      string `json:"date"`
	TZOffset  *int   `json:"tzOffset"`
	Completed *bool  `json:"completed"`
}

type LogHabitResponse struct {
	Habit     Habit    `json:"habit"`
	Log       HabitLog `json:"log"`
	XPAwarded int      `json:"xpAwarded"`
	LeveledUp bool     `json:"leveledUp"`
	Level     int      `json:"level,omitempty"`
}

type TodayHabit struct {
	Habit
	Due       bool `json:"due"`
	Completed bool `json:"completed"`
}
