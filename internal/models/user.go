package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-"`
	Name      string         `json:"name"`
	AvatarURL string         `json:"avatarUrl"`
	TZOffset  int            `json:"tzOffset" gorm:"default:0"`
	Level     int            `json:"level" gorm:"not null;default:1"`
	XP        int            `json:"xp" gorm:"not null;default:0"`
	TotalXP   int            `json:"totalXp" gorm:"not null;default:0"`
	FCMToken  string         `json:"-" gorm:"column:fcm_token"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// XPToNextLevel is the XP still missing before the current level advances.
func (u *User) XPToNextLevel() int {
	return u.Level*100 - u.XP
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Level < 1 {
		u.Level = 1
	}
	return nil
}

// Auth DTOs
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
	TZOffset  *int    `json:"tzOffset"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
