package handlers

import (
	"errors"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const habitHistoryDays = 90

func validFrequency(f string) bool {
	return f == models.FrequencyDaily || f == models.FrequencyWeekly || f == models.FrequencyMonthly
}

func validSchedule(s models.Schedule) bool {
	for _, d := range s.DaysOfWeek {
		if d < 0 || d > 6 {
			return false
		}
	}
	for _, d := range s.DaysOfMonth {
		if d < 1 || d > 31 {
			return false
		}
	}
	return true
}

// recomputeStreak refreshes the cached streak and best streak of habit from
// all of its logs.
func recomputeStreak(tx *gorm.DB, habit *models.Habit, tz int) error {
	var logs []models.HabitLog
	if err := tx.Where("habit_id = ?", habit.ID).Find(&logs).Error; err != nil {
		return err
	}

	habit.Streak = services.HabitStreak(*habit, logs, services.ClientDay(now(), tz))
	if habit.Streak > habit.BestStreak {
		habit.BestStreak = habit.Streak
	}

	return tx.Model(habit).Updates(map[string]interface{}{
		"streak":      habit.Streak,
		"best_streak": habit.BestStreak,
	}).Error
}

func GetHabits(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if c.Query("archived") != "true" {
		query = query.Where("archived = ?", false)
	}

	var habits []models.Habit
	if err := query.Order("created_at ASC").Find(&habits).Error; err != nil {
		return storageError("load habits", err)
	}

	return c.JSON(habits)
}

// GetHabit returns a habit with its logs of the last 90 days.
func GetHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := parseID(c, "id", "habit")
	if err != nil {
		return err
	}

	var habit models.Habit
	if err := findOwned(&habit, habitID, userID, "Habit"); err != nil {
		return err
	}

	tz, err := tzOffset(c, userID)
	if err != nil {
		return err
	}
	days := services.DayRange(services.ClientDay(now(), tz), habitHistoryDays)
	if err := database.DB.Where("habit_id = ? AND date >= ?", habit.ID, days[0]).
		Order("date DESC").
		Find(&habit.Logs).Error; err != nil {
		return storageError("load habit logs", err)
	}

	return c.JSON(habit)
}

func CreateHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if req.Name == "" {
		return badRequest("Name is required")
	}
	if req.Frequency == "" {
		req.Frequency = models.FrequencyDaily
	}
	if !validFrequency(req.Frequency) {
		return badRequest("Frequency must be daily, weekly or monthly")
	}

	var schedule models.Schedule
	if req.Schedule != nil {
		schedule = *req.Schedule
	}
	if !validSchedule(schedule) {
		return badRequest("Invalid schedule")
	}

	habit := models.Habit{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Frequency:   req.Frequency,
		Schedule:    datatypes.NewJSONType(schedule),
	}
	if err := database.DB.Create(&habit).Error; err != nil {
		return storageError("create habit", err)
	}

	WS.Send(userID, WSEvent{Type: EventHabitUpdated, Data: habit})
	return c.Status(fiber.StatusCreated).JSON(habit)
}

func UpdateHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := parseID(c, "id", "habit")
	if err != nil {
		return err
	}

	var habit models.Habit
	if err := findOwned(&habit, habitID, userID, "Habit"); err != nil {
		return err
	}

	var req models.UpdateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	rescheduled := false
	if req.Name != nil {
		if *req.Name == "" {
			return badRequest("Name is required")
		}
		habit.Name = *req.Name
	}
	if req.Description != nil {
		habit.Description = req.Description
	}
	if req.Icon != nil {
		habit.Icon = req.Icon
	}
	if req.Color != nil {
		habit.Color = req.Color
	}
	if req.Frequency != nil {
		if !validFrequency(*req.Frequency) {
			return badRequest("Frequency must be daily, weekly or monthly")
		}
		habit.Frequency = *req.Frequency
		rescheduled = true
	}
	if req.Schedule != nil {
		if !validSchedule(*req.Schedule) {
			return badRequest("Invalid schedule")
		}
		habit.Schedule = datatypes.NewJSONType(*req.Schedule)
		rescheduled = true
	}
	if req.Archived != nil {
		habit.Archived = *req.Archived
	}

	tz, err := tzOffset(c, userID)
	if err != nil {
		return err
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&habit).Error; err != nil {
			return err
		}
		if rescheduled {
			return recomputeStreak(tx, &habit, tz)
		}
		return nil
	})
	if err != nil {
		return storageError("update habit", err)
	}

	WS.Send(userID, WSEvent{Type: EventHabitUpdated, Data: habit})
	return c.JSON(habit)
}

func DeleteHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := parseID(c, "id", "habit")
	if err != nil {
		return err
	}

	var habit models.Habit
	if err := findOwned(&habit, habitID, userID, "Habit"); err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", habit.ID).Delete(&models.HabitLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&habit).Error
	})
	if err != nil {
		return storageError("delete habit", err)
	}

	WS.Send(userID, WSEvent{Type: EventHabitDeleted, Data: fiber.Map{"id": habit.ID}})
	return c.JSON(fiber.Map{"message": "Habit deleted"})
}

// LogHabit sets the completion of one local day of a habit and refreshes its
// streak. Omitting completed flips the day. Completing a day that was not yet
// complete earns XP.
func LogHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := parseID(c, "id", "habit")
	if err != nil {
		return err
	}

	var habit models.Habit
	if err := findOwned(&habit, habitID, userID, "Habit"); err != nil {
		return err
	}

	var req models.LogHabitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest("Invalid request body")
		}
	}

	tz := userTZOffset(userID)
	if req.TZOffset != nil {
		if tz, err = checkTZOffset(*req.TZOffset); err != nil {
			return err
		}
	}

	day, err := services.NormalizeDay(req.Date, tz, now())
	if err != nil {
		return badRequest("Invalid date")
	}
	if day > services.DayKey(services.ClientDay(now(), tz)) {
		return badRequest("Cannot log a future day")
	}

	var (
		entry        models.HabitLog
		wasCompleted bool
	)
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("habit_id = ? AND date = ?", habit.ID, day).First(&entry).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = models.HabitLog{HabitID: habit.ID, UserID: userID, Date: day}
		case err != nil:
			return err
		}

		wasCompleted = entry.Completed
		next := !entry.Completed
		if req.Completed != nil {
			next = *req.Completed
		}
		entry.Completed = next

		if entry.ID == uuid.Nil {
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		} else if err := tx.Model(&entry).Update("completed", next).Error; err != nil {
			return err
		}

		return recomputeStreak(tx, &habit, tz)
	})
	if err != nil {
		return storageError("log habit", err)
	}

	resp := models.LogHabitResponse{Habit: habit, Log: entry}
	if !wasCompleted && entry.Completed {
		res := awardXP(userID, services.XPHabitCompleted)
		if res.Applied {
			resp.XPAwarded = services.XPHabitCompleted
			resp.LeveledUp = res.LeveledUp
			resp.Level = res.NewLevel
		}
		LogActivity(userID, models.ActivityHabitCompleted, &habit.ID, resp.XPAwarded, map[string]interface{}{
			"name":   habit.Name,
			"date":   day,
			"streak": habit.Streak,
		})
	}

	WS.Send(userID, WSEvent{Type: EventHabitUpdated, Data: resp})
	return c.JSON(resp)
}

// GetTodayHabits lists the habits due on the client's current day with their
// completion for that day. ?all=true also lists habits that are not due.
func GetTodayHabits(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	tz, err := tzOffset(c, userID)
	if err != nil {
		return err
	}
	today := services.ClientDay(now(), tz)
	todayKey := services.DayKey(today)

	var habits []models.Habit
	if err := database.DB.Where("user_id = ? AND archived = ?", userID, false).
		Order("created_at ASC").
		Find(&habits).Error; err != nil {
		return storageError("load habits", err)
	}

	var logs []models.HabitLog
	if err := database.DB.Where("user_id = ? AND date = ? AND completed = ?", userID, todayKey, true).
		Find(&logs).Error; err != nil {
		return storageError("load habit logs", err)
	}
	done := make(map[uuid.UUID]bool, len(logs))
	for _, l := range logs {
		done[l.HabitID] = true
	}

	all := c.Query("all") == "true"
	result := make([]models.TodayHabit, 0, len(habits))
	for _, h := range habits {
		due := services.IsDue(h.Frequency, h.Schedule.Data(), today)
		if !due && !all {
			continue
		}
		result = append(result, models.TodayHabit{Habit: h, Due: due, Completed: done[h.ID]})
	}

	return c.JSON(fiber.Map{
		"date":   todayKey,
		"habits": result,
	})
}
