package handlers

import (
	"testing"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type dayPrayers struct {
	Date    string                `json:"date"`
	Prayers []models.PrayerRecord `json:"prayers"`
}

type prayerResult struct {
	Prayer    models.PrayerRecord `json:"prayer"`
	XPAwarded int                 `json:"xpAwarded"`
}

func TestPrayers(t *testing.T) {
	env := setupApp(t)
	user, token := env.user("prayers@example.com", 1, 0)

	t.Run("empty day reads pending", func(t *testing.T) {
		var day dayPrayers
		require.Equal(t, fiber.StatusOK, env.do("GET", "/api/prayers", token, "", &day))
		require.Equal(t, "2026-10-16", day.Date)
		require.Len(t, day.Prayers, 5)
		for i, p := range day.Prayers {
			require.Equal(t, models.PrayerNames[i], p.Name)
			require.Equal(t, models.PrayerStatusPending, p.Status)
		}
	})

	t.Run("on time earns XP once", func(t *testing.T) {
		var res prayerResult
		require.Equal(t, fiber.StatusOK, env.do("PUT", "/api/prayers", token, `{"name":"fajr","status":"on_time"}`, &res))
		require.Equal(t, 10, res.XPAwarded)
		require.Equal(t, models.PrayerTypeNormal, res.Prayer.Type)

		env.do("PUT", "/api/prayers", token, `{"name":"fajr","status":"late","type":"jamm"}`, &res)
		require.Zero(t, res.XPAwarded)
		require.Equal(t, models.PrayerTypeJamm, res.Prayer.Type)

		var count int64
		database.DB.Model(&models.PrayerRecord{}).Where("user_id = ?", user.ID).Count(&count)
		require.EqualValues(t, 1, count)
		require.Equal(t, 10, reloadUser(t, user).XP)
	})

	t.Run("late earns half", func(t *testing.T) {
		var res prayerResult
		env.do("PUT", "/api/prayers", token, `{"name":"dhuhr","status":"late","date":"2026-10-16"}`, &res)
		require.Equal(t, 5, res.XPAwarded)
	})

	t.Run("validation", func(t *testing.T) {
		require.Equal(t, fiber.StatusBadRequest, env.do("PUT", "/api/prayers", token, `{"name":"tahajjud","status":"on_time"}`, nil))
		require.Equal(t, fiber.StatusBadRequest, env.do("PUT", "/api/prayers", token, `{"name":"asr","status":"early"}`, nil))
		require.Equal(t, fiber.StatusBadRequest, env.do("PUT", "/api/prayers", token, `{"name":"asr","status":"late","type":"double"}`, nil))
		require.Equal(t, fiber.StatusBadRequest, env.do("PUT", "/api/prayers", token, `{"name":"asr","status":"late","date":"2026-10-18"}`, nil))
	})

	t.Run("sweep marks yesterday missed", func(t *testing.T) {
		env.do("PUT", "/api/prayers", token, `{"name":"isha","status":"on_time","date":"2026-10-15"}`, nil)

		var res struct {
			Date   string `json:"date"`
			Missed int    `json:"missed"`
		}
		require.Equal(t, fiber.StatusOK, env.do("POST", "/api/prayers/sweep", token, "", &res))
		require.Equal(t, "2026-10-15", res.Date)
		require.Equal(t, 4, res.Missed)

		var day dayPrayers
		env.do("GET", "/api/prayers?date=2026-10-15", token, "", &day)
		for _, p := range day.Prayers {
			if p.Name == "isha" {
				require.Equal(t, models.PrayerStatusOnTime, p.Status)
				continue
			}
			require.Equal(t, models.PrayerStatusMissed, p.Status)
		}

		var notif models.Notification
		require.NoError(t, database.DB.Where("user_id = ? AND type = ?", user.ID, models.NotificationPrayersMissed).First(&notif).Error)
	})

	t.Run("today cannot be swept", func(t *testing.T) {
		require.Equal(t, fiber.StatusBadRequest, env.do("POST", "/api/prayers/sweep", token, `{"date":"2026-10-16"}`, nil))
	})
}

func TestPrayerStatusCyclePaysOnce(t *testing.T) {
	env := setupApp(t)
	user, token := env.user("cycle@example.com", 1, 0)

	paid := 0
	for i := 0; i < 3; i++ {
		var res prayerResult
		require.Equal(t, fiber.StatusOK, env.do("PUT", "/api/prayers", token, `{"name":"fajr","status":"on_time"}`, &res))
		paid += res.XPAwarded
		require.Equal(t, fiber.StatusOK, env.do("PUT", "/api/prayers", token, `{"name":"fajr","status":"pending"}`, &res))
		paid += res.XPAwarded
	}

	var res prayerResult
	require.Equal(t, fiber.StatusOK, env.do("PUT", "/api/prayers", token, `{"name":"fajr","status":"late"}`, &res))
	paid += res.XPAwarded

	require.Equal(t, 10, paid)
	require.Equal(t, 10, reloadUser(t, user).TotalXP)

	var record models.PrayerRecord
	require.NoError(t, database.DB.Where("user_id = ? AND name = ?", user.ID, "fajr").First(&record).Error)
	require.True(t, record.XPAwarded)
}
