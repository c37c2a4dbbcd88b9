package handlers

import (
	"testing"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type notificationList struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
}

func TestNotifications(t *testing.T) {
	env := setupApp(t)
	u, token := env.user("notify@forge.test", 1, 0)
	_, otherToken := env.user("other@forge.test", 1, 0)

	CreateNotification(u.ID, models.NotificationLevelUp, "Level up!", "You reached level 2", map[string]interface{}{"level": 2})
	CreateNotification(u.ID, models.NotificationPrayersMissed, "Prayers missed", "2 prayers were marked missed", nil)

	var list notificationList
	require.Equal(t, fiber.StatusOK, env.do("GET", "/api/notifications", token, "", &list))
	require.Len(t, list.Notifications, 2)
	require.EqualValues(t, 2, list.Total)
	require.EqualValues(t, 2, list.Unread)

	var levelUp models.Notification
	for _, n := range list.Notifications {
		if n.Type == models.NotificationLevelUp {
			levelUp = n
		}
	}
	require.NotNil(t, levelUp.Metadata)
	require.JSONEq(t, `{"level":2}`, *levelUp.Metadata)

	t.Run("other users see nothing", func(t *testing.T) {
		var other notificationList
		require.Equal(t, fiber.StatusOK, env.do("GET", "/api/notifications", otherToken, "", &other))
		require.Empty(t, other.Notifications)
		require.Equal(t, fiber.StatusNotFound, env.do("PUT", "/api/notifications/"+levelUp.ID.String()+"/read", otherToken, "", nil))
	})

	t.Run("mark one read", func(t *testing.T) {
		require.Equal(t, fiber.StatusOK, env.do("PUT", "/api/notifications/"+levelUp.ID.String()+"/read", token, "", nil))

		var after notificationList
		require.Equal(t, fiber.StatusOK, env.do("GET", "/api/notifications", token, "", &after))
		require.EqualValues(t, 1, after.Unread)
	})

	t.Run("mark all read", func(t *testing.T) {
		require.Equal(t, fiber.StatusOK, env.do("POST", "/api/notifications/read-all", token, "", nil))

		var after notificationList
		require.Equal(t, fiber.StatusOK, env.do("GET", "/api/notifications", token, "", &after))
		require.EqualValues(t, 0, after.Unread)
		require.EqualValues(t, 2, after.Total)
	})

	t.Run("bad id", func(t *testing.T) {
		require.Equal(t, fiber.StatusBadRequest, env.do("PUT", "/api/notifications/nope/read", token, "", nil))
	})
}

func TestRegisterDeviceToken(t *testing.T) {
	env := setupApp(t)
	u, token := env.user("device@forge.test", 1, 0)

	require.Equal(t, fiber.StatusBadRequest, env.do("POST", "/api/device-token", token, `{}`, nil))
	require.Equal(t, fiber.StatusOK, env.do("POST", "/api/device-token", token, `{"token":"fcm-abc"}`, nil))

	var stored models.User
	require.NoError(t, database.DB.First(&stored, "id = ?", u.ID).Error)
	require.Equal(t, "fcm-abc", stored.FCMToken)
}

func TestNotificationsCountFailure(t *testing.T) {
	env := setupApp(t)
	u, token := env.user("count@forge.test", 1, 0)
	CreateNotification(u.ID, models.NotificationLevelUp, "Level up!", "You reached level 2", nil)

	failCounts(t)

	var body map[string]string
	require.Equal(t, fiber.StatusInternalServerError, env.do("GET", "/api/notifications", token, "", &body))
	require.Equal(t, "Failed to count notifications", body["error"])
}
