package handlers

import (
	"strconv"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	defaultTrendDays = 7
	minTrendDays     = 7
	maxTrendDays     = 90
)

func trendDays(c *fiber.Ctx) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return defaultTrendDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < minTrendDays || days > maxTrendDays {
		return 0, badRequest("days must be between 7 and 90")
	}
	return days, nil
}

func GetTrend(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	days, err := trendDays(c)
	if err != nil {
		return err
	}

	tz, err := tzOffset(c, userID)
	if err != nil {
		return err
	}
	today := services.ClientDay(now(), tz)
	points, err := services.NewAnalyticsService(database.DB).Trend(c.UserContext(), userID, days, today)
	if err != nil {
		return storageError("load trend", err)
	}

	return c.JSON(fiber.Map{
		"days":   days,
		"points": points,
	})
}

// GetTrendChart renders the same series as GetTrend as a PNG line chart.
func GetTrendChart(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	days, err := trendDays(c)
	if err != nil {
		return err
	}

	tz, err := tzOffset(c, userID)
	if err != nil {
		return err
	}
	today := services.ClientDay(now(), tz)
	points, err := services.NewAnalyticsService(database.DB).Trend(c.UserContext(), userID, days, today)
	if err != nil {
		return storageError("load trend", err)
	}

	png, err := services.RenderTrendChart(points)
	if err != nil {
		return storageError("render trend chart", err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// GetDashboard summarizes the client's today next to the last week's trend.
func GetDashboard(c *fiber.Ctx) error {
	user, err := loadUser(c)
	if err != nil {
		return err
	}

	tz, err := tzOffset(c, user.ID)
	if err != nil {
		return err
	}
	today := services.ClientDay(now(), tz)
	todayKey := services.DayKey(today)

	var habits []models.Habit
	if err := database.DB.Where("user_id = ? AND archived = ?", user.ID, false).Find(&habits).Error; err != nil {
		return storageError("load habits", err)
	}

	var doneIDs []uuid.UUID
	if err := database.DB.Model(&models.HabitLog{}).
		Where("user_id = ? AND date = ? AND completed = ?", user.ID, todayKey, true).
		Pluck("habit_id", &doneIDs).Error; err != nil {
		return storageError("load habit logs", err)
	}
	done := make(map[uuid.UUID]bool, len(doneIDs))
	for _, id := range doneIDs {
		done[id] = true
	}

	habitsDue, habitsDone, bestStreak := 0, 0, 0
	for _, h := range habits {
		if h.Streak > bestStreak {
			bestStreak = h.Streak
		}
		if !services.IsDue(h.Frequency, h.Schedule.Data(), today) {
			continue
		}
		habitsDue++
		if done[h.ID] {
			habitsDone++
		}
	}

	var records []models.PrayerRecord
	if err := database.DB.Where("user_id = ? AND date = ?", user.ID, todayKey).Find(&records).Error; err != nil {
		return storageError("load prayers", err)
	}

	var openTasks int64
	if err := database.DB.Model(&models.Task{}).
		Where("user_id = ? AND status <> ?", user.ID, models.TaskStatusCompleted).
		Count(&openTasks).Error; err != nil {
		return storageError("count tasks", err)
	}
	completedToday, err := completedTasksOn(user.ID, today, tz)
	if err != nil {
		return storageError("count tasks", err)
	}

	var activeGoals int64
	if err := database.DB.Model(&models.Goal{}).
		Where("user_id = ? AND status = ?", user.ID, models.GoalStatusActive).
		Count(&activeGoals).Error; err != nil {
		return storageError("count goals", err)
	}

	trend, err := services.NewAnalyticsService(database.DB).Trend(c.UserContext(), user.ID, defaultTrendDays, today)
	if err != nil {
		return storageError("load trend", err)
	}

	return c.JSON(fiber.Map{
		"date":    todayKey,
		"profile": profile(user),
		"habits": fiber.Map{
			"due":           habitsDue,
			"completed":     habitsDone,
			"longestStreak": bestStreak,
		},
		"prayers": services.DayPrayers(user.ID, todayKey, records),
		"tasks": fiber.Map{
			"open":           openTasks,
			"completedToday": completedToday,
		},
		"activeGoals": activeGoals,
		"trend":       trend,
	})
}
