package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/logger"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// now is the clock used by handlers; tests pin it.
var now = time.Now

// ErrorHandler renders errors returned from handlers as {"error": message}.
// Anything that is not a *fiber.Error becomes a 500 with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		logger.Log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func parseID(c *fiber.Ctx, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+what+" ID")
	}
	return id, nil
}

// findOwned loads the record with id owned by userID into dest. Records of
// other users read as not found.
func findOwned(dest interface{}, id, userID uuid.UUID, what string) error {
	err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, what+" not found")
	}
	if err != nil {
		return storageError("load "+what, err)
	}
	return nil
}

// storageError logs a failed database call and hides the cause from the client.
func storageError(action string, err error) error {
	logger.Log.Error().Err(err).Msg("failed to " + action)
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to "+action)
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// tzOffset reads ?tzOffset= and falls back to the user's saved preference.
func tzOffset(c *fiber.Ctx, userID uuid.UUID) (int, error) {
	raw := c.Query("tzOffset")
	if raw == "" {
		return userTZOffset(userID), nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("Invalid tzOffset")
	}
	return checkTZOffset(v)
}

func checkTZOffset(v int) (int, error) {
	if !services.ValidTZOffset(v) {
		return 0, badRequest("tzOffset must be between -840 and 720 minutes")
	}
	return v, nil
}

func userTZOffset(userID uuid.UUID) int {
	var user models.User
	if err := database.DB.Select("tz_offset").First(&user, "id = ?", userID).Error; err != nil {
		return 0
	}
	return user.TZOffset
}

func pagination(c *fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}
