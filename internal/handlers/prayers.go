package handlers

import (
	"errors"
	"fmt"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/logger"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func validPrayerStatus(s string) bool {
	switch s {
	case models.PrayerStatusPending, models.PrayerStatusOnTime, models.PrayerStatusLate, models.PrayerStatusMissed:
		return true
	}
	return false
}

func validPrayerType(t string) bool {
	switch t {
	case models.PrayerTypeNormal, models.PrayerTypeJamm, models.PrayerTypeKasar, models.PrayerTypeJammKasar:
		return true
	}
	return false
}

// GetPrayers returns the five prayers of ?date=, the client's today by default.
func GetPrayers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	tz, err := tzOffset(c, userID)
	if err != nil {
		return err
	}

	date, err := services.NormalizeDay(c.Query("date"), tz, now())
	if err != nil {
		return badRequest("Invalid date")
	}

	var records []models.PrayerRecord
	if err := database.DB.Where("user_id = ? AND date = ?", userID, date).Find(&records).Error; err != nil {
		return storageError("load prayers", err)
	}

	return c.JSON(fiber.Map{
		"date":    date,
		"prayers": services.DayPrayers(userID, date, records),
	})
}

// UpsertPrayer records the status of one prayer. The first move from pending
// or missed to on_time or late earns XP.
func UpsertPrayer(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.UpsertPrayerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if !models.IsPrayerName(req.Name) {
		return badRequest("Name must be fajr, dhuhr, asr, maghrib or isha")
	}
	if !validPrayerStatus(req.Status) {
		return badRequest("Status must be pending, on_time, late or missed")
	}
	if req.Type == "" {
		req.Type = models.PrayerTypeNormal
	}
	if !validPrayerType(req.Type) {
		return badRequest("Type must be normal, jamm, kasar or jamm_kasar")
	}

	tz, err := tzOffset(c, userID)
	if err != nil {
		return err
	}
	date, err := services.NormalizeDay(req.Date, tz, now())
	if err != nil {
		return badRequest("Invalid date")
	}
	if date > services.DayKey(services.ClientDay(now(), tz)) {
		return badRequest("Cannot record a prayer for a future day")
	}

	var record models.PrayerRecord
	err = database.DB.Where("user_id = ? AND name = ? AND date = ?", userID, req.Name, date).First(&record).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		return storageError("load prayer", err)
	}

	if isNew {
		record = models.PrayerRecord{UserID: userID, Name: req.Name, Date: date}
	}
	record.Status = req.Status
	record.Type = req.Type

	if isNew {
		err = database.DB.Create(&record).Error
	} else {
		err = database.DB.Model(&record).Updates(map[string]interface{}{
			"status": record.Status,
			"type":   record.Type,
		}).Error
	}
	if err != nil {
		return storageError("save prayer", err)
	}

	xpAwarded := 0
	if amount := services.PrayerAward(record.XPAwarded, record.Status); amount > 0 {
		if res := awardXP(userID, amount); res.Applied {
			xpAwarded = amount
			record.XPAwarded = true
			if err := database.DB.Model(&record).Update("xp_awarded", true).Error; err != nil {
				logger.Log.Warn().Err(err).Str("prayer", record.ID.String()).Msg("prayer award flag not saved")
			}
		}
		LogActivity(userID, models.ActivityPrayerLogged, &record.ID, xpAwarded, map[string]interface{}{
			"name":   record.Name,
			"date":   record.Date,
			"status": record.Status,
		})
	}

	WS.Send(userID, WSEvent{Type: EventPrayerUpdated, Data: record})
	return c.JSON(fiber.Map{
		"prayer":    record,
		"xpAwarded": xpAwarded,
	})
}

// SweepPrayers marks the prayers of a past day that were never recorded as
// missed. The day defaults to the client's yesterday.
func SweepPrayers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req struct {
		Date string `json:"date"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest("Invalid request body")
		}
	}

	tz, err := tzOffset(c, userID)
	if err != nil {
		return err
	}
	today := services.ClientDay(now(), tz)
	date := services.DayKey(today.AddDate(0, 0, -1))
	if req.Date != "" {
		d, err := services.ParseDay(req.Date)
		if err != nil {
			return badRequest("Invalid date")
		}
		date = services.DayKey(d)
	}
	if date >= services.DayKey(today) {
		return badRequest("Only past days can be swept")
	}

	missed, err := services.SweepMissedPrayers(c.UserContext(), database.DB, userID, date)
	if err != nil {
		return storageError("sweep prayers", err)
	}

	if missed > 0 {
		CreateNotification(userID, models.NotificationPrayersMissed,
			"Missed prayers",
			fmt.Sprintf("%d prayer(s) were missed on %s", missed, date),
			map[string]interface{}{"date": date, "missed": missed},
		)
	}

	return c.JSON(fiber.Map{
		"date":   date,
		"missed": missed,
	})
}
