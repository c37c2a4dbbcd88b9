package handlers

import (
	"encoding/json"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/logger"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActivity returns the current user's activity feed, newest first.
// ?type= narrows it to one action type.
func GetActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	page, limit, offset := pagination(c)

	actionType := c.Query("type")
	feed := func() *gorm.DB {
		q := database.DB.Model(&models.Activity{}).Where("user_id = ?", userID)
		if actionType != "" {
			q = q.Where("action_type = ?", actionType)
		}
		return q
	}

	var total int64
	if err := feed().Count(&total).Error; err != nil {
		return storageError("load activity", err)
	}

	var activities []models.Activity
	if err := feed().Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error; err != nil {
		return storageError("load activity", err)
	}

	return c.JSON(fiber.Map{
		"activities": activities,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

// LogActivity is a helper to create activity entries from other handlers
func LogActivity(userID uuid.UUID, actionType string, targetID *uuid.UUID, xp int, metadata map[string]interface{}) {
	activity := models.Activity{
		UserID:     userID,
		ActionType: actionType,
		TargetID:   targetID,
		XP:         xp,
	}

	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			s := string(data)
			activity.Metadata = &s
		}
	}

	if err := database.DB.Create(&activity).Error; err != nil {
		logger.Log.Warn().Err(err).Str("user", userID.String()).Str("action", actionType).Msg("activity not saved")
	}
}
