package services

import (
	"context"
	"testing"

	"github.com/forge-app/forge-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPrayerAward(t *testing.T) {
	tests := []struct {
		name    string
		awarded bool
		next    string
		want    int
	}{
		{"on time", false, models.PrayerStatusOnTime, XPPrayerOnTime},
		{"late", false, models.PrayerStatusLate, XPPrayerLate},
		{"missed", false, models.PrayerStatusMissed, 0},
		{"pending", false, models.PrayerStatusPending, 0},
		{"on time after payout", true, models.PrayerStatusOnTime, 0},
		{"late after payout", true, models.PrayerStatusLate, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, PrayerAward(tt.awarded, tt.next))
		})
	}
}

func TestDayPrayers(t *testing.T) {
	userID := uuid.New()
	records := []models.PrayerRecord{
		{Name: "asr", Date: "2026-10-16", Status: models.PrayerStatusLate},
		{Name: "fajr", Date: "2026-10-16", Status: models.PrayerStatusOnTime},
		{Name: "fajr", Date: "2026-10-15", Status: models.PrayerStatusMissed},
	}

	day := DayPrayers(userID, "2026-10-16", records)
	require.Len(t, day, 5)

	got := make([]string, len(day))
	for i, p := range day {
		got[i] = p.Name + ":" + p.Status
	}
	require.Equal(t, []string{
		"fajr:on_time",
		"dhuhr:pending",
		"asr:late",
		"maghrib:pending",
		"isha:pending",
	}, got)
}

func TestSweepMissedPrayers(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, 1, 0)
	ctx := context.Background()

	existing := []models.PrayerRecord{
		{UserID: user.ID, Name: "fajr", Date: "2026-10-15", Status: models.PrayerStatusOnTime, Type: models.PrayerTypeNormal},
		{UserID: user.ID, Name: "dhuhr", Date: "2026-10-15", Status: models.PrayerStatusPending, Type: models.PrayerTypeNormal},
		{UserID: user.ID, Name: "asr", Date: "2026-10-15", Status: models.PrayerStatusLate, Type: models.PrayerTypeJamm},
	}
	require.NoError(t, db.Create(&existing).Error)

	marked, err := SweepMissedPrayers(ctx, db, user.ID, "2026-10-15")
	require.NoError(t, err)
	require.Equal(t, 3, marked)

	var records []models.PrayerRecord
	require.NoError(t, db.Where("user_id = ? AND date = ?", user.ID, "2026-10-15").Find(&records).Error)
	require.Len(t, records, 5)

	status := make(map[string]string)
	for _, r := range records {
		status[r.Name] = r.Status
	}
	require.Equal(t, map[string]string{
		"fajr":    models.PrayerStatusOnTime,
		"dhuhr":   models.PrayerStatusMissed,
		"asr":     models.PrayerStatusLate,
		"maghrib": models.PrayerStatusMissed,
		"isha":    models.PrayerStatusMissed,
	}, status)

	t.Run("second sweep changes nothing", func(t *testing.T) {
		marked, err := SweepMissedPrayers(ctx, db, user.ID, "2026-10-15")
		require.NoError(t, err)
		require.Zero(t, marked)
	})
}
