package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/logger"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetNotifications returns paginated notifications for the current user
func GetNotifications(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	page, limit, offset := pagination(c)

	var notifications []models.Notification
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return storageError("load notifications", err)
	}

	var total int64
	if err := database.DB.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return storageError("count notifications", err)
	}

	var unread int64
	if err := database.DB.Model(&models.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&unread).Error; err != nil {
		return storageError("count notifications", err)
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"total":         total,
		"unread":        unread,
		"page":          page,
		"limit":         limit,
	})
}

// MarkNotificationRead marks a single notification as read
func MarkNotificationRead(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	notifID, err := parseID(c, "id", "notification")
	if err != nil {
		return err
	}

	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notifID, userID).
		Update("read", true)
	if result.Error != nil {
		return storageError("update notification", result.Error)
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Notification not found")
	}

	return c.JSON(fiber.Map{"success": true})
}

// MarkAllRead marks all notifications as read for the current user
func MarkAllRead(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return storageError("update notifications", err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// RegisterDeviceToken saves the FCM token for push notifications
func RegisterDeviceToken(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return badRequest("Token is required")
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", req.Token).Error; err != nil {
		return storageError("save device token", err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// CreateNotification stores an in-app notification, pushes it to the user's
// sessions and sends it to their device. Failures are logged only.
func CreateNotification(userID uuid.UUID, notifType, title, body string, metadata map[string]interface{}) {
	notif := models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	}

	pushData := map[string]string{"type": notifType}
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			s := string(data)
			notif.Metadata = &s
		}
		for k, v := range metadata {
			pushData[k] = fmt.Sprintf("%v", v)
		}
	}

	if err := database.DB.Create(&notif).Error; err != nil {
		logger.Log.Warn().Err(err).Str("user", userID.String()).Str("type", notifType).Msg("notification not saved")
		return
	}

	WS.Send(userID, WSEvent{Type: EventNotification, Data: notif})

	if services.Push.Enabled() {
		go services.Push.SendToUser(context.Background(), userID, title, body, pushData)
	}
}
