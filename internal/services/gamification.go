package services

import (
	"github.com/forge-app/forge-api/internal/logger"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XP awarded per event.
const (
	XPHabitCompleted = 20
	XPTaskCompleted  = 50
	XPGoalCompleted  = 100
	XPPrayerOnTime   = 10
	XPPrayerLate     = 5
)

// XPForLevel is the XP needed inside level to advance to the next one.
func XPForLevel(level int) int {
	return level * 100
}

// ApplyXP adds amount to xp and carries the overflow through as many level
// ups as it pays for.
func ApplyXP(level, xp, amount int) (int, int) {
	if level < 1 {
		level = 1
	}
	xp += amount
	for xp >= XPForLevel(level) {
		xp -= XPForLevel(level)
		level++
	}
	return level, xp
}

type XPResult struct {
	OldLevel  int  `json:"oldLevel"`
	NewLevel  int  `json:"newLevel"`
	XP        int  `json:"xp"`
	TotalXP   int  `json:"totalXp"`
	LeveledUp bool `json:"leveledUp"`
	Applied   bool `json:"applied"`
}

// AwardXP credits amount to the user. A missing user or a failed write leaves
// the result unapplied and is only logged, so the action that earned the XP
// still succeeds.
func AwardXP(db *gorm.DB, userID uuid.UUID, amount int) XPResult {
	if amount <= 0 {
		return XPResult{}
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		logger.Log.Warn().Err(err).Str("user", userID.String()).Int("amount", amount).Msg("XP award skipped")
		return XPResult{}
	}

	oldLevel := user.Level
	if oldLevel < 1 {
		oldLevel = 1
	}
	level, xp := ApplyXP(oldLevel, user.XP, amount)
	totalXP := user.TotalXP + amount

	if err := db.Model(&user).Updates(map[string]interface{}{
		"level":    level,
		"xp":       xp,
		"total_xp": totalXP,
	}).Error; err != nil {
		logger.Log.Warn().Err(err).Str("user", userID.String()).Msg("XP award not saved")
		return XPResult{OldLevel: oldLevel, NewLevel: oldLevel, XP: user.XP, TotalXP: user.TotalXP}
	}

	return XPResult{
		OldLevel:  oldLevel,
		NewLevel:  level,
		XP:        xp,
		TotalXP:   totalXP,
		LeveledUp: level > oldLevel,
		Applied:   true,
	}
}
