package services

import (
	"fmt"
	"time"
)

// DayLayout is the canonical calendar-day key format.
const DayLayout = "2006-01-02"

// Offsets outside UTC-12..UTC+14 do not exist.
const (
	MinTZOffset = -14 * 60
	MaxTZOffset = 12 * 60
)

// ValidTZOffset reports whether tzOffset is a real timezone offset.
func ValidTZOffset(tzOffset int) bool {
	return tzOffset >= MinTZOffset && tzOffset <= MaxTZOffset
}

// DayKey formats t as a calendar-day key using t's own year, month and day.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a day key into midnight UTC of that day.
func ParseDay(key string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, key, time.UTC)
}

// ClientDay returns the client's calendar day at instant t as midnight UTC.
// tzOffset follows JavaScript's getTimezoneOffset: UTC minus local time, in
// minutes, so UTC+3 is -180.
func ClientDay(t time.Time, tzOffset int) time.Time {
	local := t.UTC().Add(-time.Duration(tzOffset) * time.Minute)
	return dayStart(local)
}

// NormalizeDay turns a client supplied date into a day key. Empty input means
// the client's today, a YYYY-MM-DD value is taken as is and an RFC 3339
// instant is moved into the client's timezone first.
func NormalizeDay(raw string, tzOffset int, now time.Time) (string, error) {
	if raw == "" {
		return DayKey(ClientDay(now, tzOffset)), nil
	}
	if len(raw) == len(DayLayout) {
		d, err := ParseDay(raw)
		if err != nil {
			return "", fmt.Errorf("invalid date %q: %w", raw, err)
		}
		return DayKey(d), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return DayKey(ClientDay(t, tzOffset)), nil
}

// DayRange lists the day keys from the day windowDays-1 before today up to
// today, oldest first.
func DayRange(today time.Time, windowDays int) []string {
	if windowDays < 1 {
		return nil
	}
	start := dayStart(today).AddDate(0, 0, -(windowDays - 1))
	keys := make([]string, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		keys = append(keys, DayKey(start.AddDate(0, 0, i)))
	}
	return keys
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
