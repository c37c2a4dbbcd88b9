package services

import (
	"context"
	"errors"

	"github.com/forge-app/forge-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrayerXP is the award for reaching status.
func PrayerXP(status string) int {
	switch status {
	case models.PrayerStatusOnTime:
		return XPPrayerOnTime
	case models.PrayerStatusLate:
		return XPPrayerLate
	default:
		return 0
	}
}

// PrayerAward is the XP for setting a prayer to next. A record pays out once:
// after awarded is set, moving back to pending and forward again earns nothing.
func PrayerAward(awarded bool, next string) int {
	if awarded {
		return 0
	}
	return PrayerXP(next)
}

// DayPrayers returns the five canonical prayers of date in day order. Prayers
// without a record are reported pending.
func DayPrayers(userID uuid.UUID, date string, records []models.PrayerRecord) []models.PrayerRecord {
	byName := make(map[string]models.PrayerRecord, len(records))
	for _, r := range records {
		if r.Date == date {
			byName[r.Name] = r
		}
	}

	out := make([]models.PrayerRecord, 0, len(models.PrayerNames))
	for _, name := range models.PrayerNames {
		if r, ok := byName[name]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, models.PrayerRecord{
			UserID: userID,
			Name:   name,
			Date:   date,
			Status: models.PrayerStatusPending,
			Type:   models.PrayerTypeNormal,
		})
	}
	return out
}

// SweepMissedPrayers marks every canonical prayer of date that is absent or
// still pending as missed and returns how many were marked. Callers pass a day
// that has already ended.
func SweepMissedPrayers(ctx context.Context, db *gorm.DB, userID uuid.UUID, date string) (int, error) {
	marked := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range models.PrayerNames {
			var record models.PrayerRecord
			err := tx.Where("user_id = ? AND name = ? AND date = ?", userID, name, date).First(&record).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				record = models.PrayerRecord{
					UserID: userID,
					Name:   name,
					Date:   date,
					Status: models.PrayerStatusMissed,
					Type:   models.PrayerTypeNormal,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				marked++
			case err != nil:
				return err
			case record.Status == models.PrayerStatusPending:
				if err := tx.Model(&record).Update("status", models.PrayerStatusMissed).Error; err != nil {
					return err
				}
				marked++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}
