package services

import (
	"slices"
	"time"

	"github.com/forge-app/forge-api/internal/models"
)

// LogEntry is the part of a habit log the streak calculation looks at.
type LogEntry struct {
	Date      string
	Completed bool
}

// ComputeStreak counts consecutive completed calendar days ending at the most
// recent completed day. The streak is already broken, and 0 is returned, when
// that day lies before yesterday. Days after today are ignored. Input order
// does not matter and repeated days count once.
func ComputeStreak(logs []LogEntry, today time.Time) int {
	today = dayStart(today)
	days := slices.DeleteFunc(completedDays(logs), func(d time.Time) bool { return d.After(today) })
	if len(days) == 0 {
		return 0
	}

	yesterday := today.AddDate(0, 0, -1)
	if days[0].Before(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			break
		}
		streak++
	}
	return streak
}

// ComputeScheduledStreak counts completed due days walking back from today,
// skipping days that are not due. Today only extends the streak, it never
// breaks it while the day is still running.
func ComputeScheduledStreak(logs []LogEntry, today time.Time, isDue func(time.Time) bool) int {
	days := completedDays(logs)
	if len(days) == 0 {
		return 0
	}

	done := make(map[string]bool, len(days))
	for _, d := range days {
		done[DayKey(d)] = true
	}
	earliest := days[len(days)-1]

	today = dayStart(today)
	streak := 0
	if isDue(today) && done[DayKey(today)] {
		streak++
	}
	for d := today.AddDate(0, 0, -1); !d.Before(earliest); d = d.AddDate(0, 0, -1) {
		if !isDue(d) {
			continue
		}
		if !done[DayKey(d)] {
			break
		}
		streak++
	}
	return streak
}

// IsDue reports whether a habit with the given frequency and schedule is due
// on day. A missing schedule means every day.
func IsDue(frequency string, schedule models.Schedule, day time.Time) bool {
	switch frequency {
	case models.FrequencyMonthly:
		if len(schedule.DaysOfMonth) == 0 {
			return true
		}
		return slices.Contains(schedule.DaysOfMonth, day.Day())
	default:
		if len(schedule.DaysOfWeek) == 0 {
			return true
		}
		return slices.Contains(schedule.DaysOfWeek, int(day.Weekday()))
	}
}

// FilterDue drops entries whose day is not due, so off-schedule completions
// never take part in gap detection.
func FilterDue(logs []LogEntry, isDue func(time.Time) bool) []LogEntry {
	out := make([]LogEntry, 0, len(logs))
	for _, l := range logs {
		d, err := ParseDay(l.Date)
		if err != nil || !isDue(d) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// HabitStreak recomputes the cached streak of a habit from its logs.
func HabitStreak(habit models.Habit, logs []models.HabitLog, today time.Time) int {
	schedule := habit.Schedule.Data()
	isDue := func(d time.Time) bool { return IsDue(habit.Frequency, schedule, d) }

	entries := make([]LogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, LogEntry{Date: l.Date, Completed: l.Completed})
	}
	entries = FilterDue(entries, isDue)

	if habit.Frequency == models.FrequencyDaily && len(schedule.DaysOfWeek) == 0 {
		return ComputeStreak(entries, today)
	}
	return ComputeScheduledStreak(entries, today, isDue)
}

// completedDays returns the distinct completed days, newest first.
func completedDays(logs []LogEntry) []time.Time {
	seen := make(map[string]bool)
	var days []time.Time
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		d, err := ParseDay(l.Date)
		if err != nil || seen[DayKey(d)] {
			continue
		}
		seen[DayKey(d)] = true
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })
	return days
}
