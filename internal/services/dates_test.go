package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientDay(t *testing.T) {
	instant := time.Date(2026, 10, 16, 22, 30, 0, 0, time.UTC)

	require.Equal(t, "2026-10-17", DayKey(ClientDay(instant, -180)))
	require.Equal(t, "2026-10-16", DayKey(ClientDay(instant, 0)))
	require.Equal(t, "2026-10-16", DayKey(ClientDay(instant, 300)))
}

func TestNormalizeDay(t *testing.T) {
	now := time.Date(2026, 10, 16, 22, 30, 0, 0, time.UTC)

	t.Run("empty means client today", func(t *testing.T) {
		day, err := NormalizeDay("", -180, now)
		require.NoError(t, err)
		require.Equal(t, "2026-10-17", day)
	})

	t.Run("day key passes through", func(t *testing.T) {
		day, err := NormalizeDay("2026-10-01", -180, now)
		require.NoError(t, err)
		require.Equal(t, "2026-10-01", day)
	})

	t.Run("instant moves into client zone", func(t *testing.T) {
		day, err := NormalizeDay("2026-10-17T02:00:00Z", 300, now)
		require.NoError(t, err)
		require.Equal(t, "2026-10-16", day)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NormalizeDay("yesterday", 0, now)
		require.Error(t, err)

		_, err = NormalizeDay("2026-13-40", 0, now)
		require.Error(t, err)
	})
}

func TestDayRange(t *testing.T) {
	today := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)

	require.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01"}, DayRange(today, 3))
	require.Equal(t, []string{"2026-03-01"}, DayRange(today, 1))
	require.Empty(t, DayRange(today, 0))
}

func TestValidTZOffset(t *testing.T) {
	require.True(t, ValidTZOffset(0))
	require.True(t, ValidTZOffset(-840))
	require.True(t, ValidTZOffset(720))
	require.False(t, ValidTZOffset(-841))
	require.False(t, ValidTZOffset(721))
	require.False(t, ValidTZOffset(-1440))
}
