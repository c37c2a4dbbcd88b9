package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PrayerStatusPending = "pending"
	PrayerStatusOnTime  = "on_time"
	PrayerStatusLate    = "late"
	PrayerStatusMissed  = "missed"
)

const (
	PrayerTypeNormal    = "normal"
	PrayerTypeJamm      = "jamm"
	PrayerTypeKasar     = "kasar"
	PrayerTypeJammKasar = "jamm_kasar"
)

// PrayerNames are the five canonical daily prayers in day order.
var PrayerNames = []string{"fajr", "dhuhr", "asr", "maghrib", "isha"}

// PrayerRecord is one prayer on one day. A missing record reads as pending.
type PrayerRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_prayer_day"`
	Name      string    `json:"name" gorm:"size:16;not null;uniqueIndex:idx_prayer_day"`
	Date      string    `json:"date" gorm:"size:10;not null;uniqueIndex:idx_prayer_day"`
	Status    string    `json:"status" gorm:"not null;default:'pending'"`
	Type      string    `json:"type" gorm:"not null;default:'normal'"`
	XPAwarded bool      `json:"-" gorm:"default:false"` // set once the record has paid out
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *PrayerRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type UpsertPrayerRequest struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Status string `json:"status"`
	Type   string `json:"type"`
}

func IsPrayerName(name string) bool {
	return slices.Contains(PrayerNames, name)
}
