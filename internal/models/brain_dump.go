package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BrainDump is a freeform capture waiting to be turned into a task, habit or goal.
type BrainDump struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Content     string         `json:"content" gorm:"not null"`
	Processed   bool           `json:"processed" gorm:"default:false"`
	ConvertedTo *string        `json:"convertedTo"` // task, habit, goal
	ConvertedID *uuid.UUID     `json:"convertedId" gorm:"type:uuid"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (b *BrainDump) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type CreateBrainDumpRequest struct {
	Content string `json:"content" validate:"required"`
}

type UpdateBrainDumpRequest struct {
	Content   *string `json:"content"`
	Processed *bool   `json:"processed"`
}

type ConvertBrainDumpRequest struct {
	To string `json:"to"`
}
