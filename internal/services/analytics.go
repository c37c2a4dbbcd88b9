package services

import (
	"context"
	"math"
	"time"

	"github.com/forge-app/forge-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HabitDays holds the completed day keys of one habit.
type HabitDays struct {
	HabitID   uuid.UUID
	Completed map[string]bool
}

// PrayerDay is one prayer record reduced to what the rollup scores.
type PrayerDay struct {
	Name   string
	Date   string
	Status string
}

type TrendPoint struct {
	Date         string `json:"date"`
	HabitScore   int    `json:"habitScore"`
	PrayerScore  int    `json:"prayerScore"`
	OverallScore int    `json:"overallScore"`
}

// PrayerPoints scores one prayer: on time 1, late 0.5, anything else 0.
func PrayerPoints(status string) float64 {
	switch status {
	case models.PrayerStatusOnTime:
		return 1
	case models.PrayerStatusLate:
		return 0.5
	default:
		return 0
	}
}

// BuildTrend scores every day of the window ending today, oldest first.
// The habit score counts every habit on every day whether or not it was due.
func BuildTrend(habits []HabitDays, prayers []PrayerDay, windowDays int, today time.Time) []TrendPoint {
	days := DayRange(today, windowDays)
	if len(days) == 0 {
		return []TrendPoint{}
	}

	byDay := make(map[string]map[string]string)
	for _, p := range prayers {
		if !models.IsPrayerName(p.Name) {
			continue
		}
		if byDay[p.Date] == nil {
			byDay[p.Date] = make(map[string]string)
		}
		byDay[p.Date][p.Name] = p.Status
	}

	points := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		habitScore := 0
		if len(habits) > 0 {
			done := 0
			for _, h := range habits {
				if h.Completed[day] {
					done++
				}
			}
			habitScore = int(math.Round(100 * float64(done) / float64(len(habits))))
		}

		sum := 0.0
		for _, name := range models.PrayerNames {
			sum += PrayerPoints(byDay[day][name])
		}
		prayerScore := int(math.Round(100 * sum / float64(len(models.PrayerNames))))

		points = append(points, TrendPoint{
			Date:         day,
			HabitScore:   habitScore,
			PrayerScore:  prayerScore,
			OverallScore: int(math.Round(float64(habitScore+prayerScore) / 2)),
		})
	}
	return points
}

type AnalyticsService struct{ db *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{db: db} }

// Trend loads the user's habit and prayer logs for the window and rolls them up.
func (s *AnalyticsService) Trend(ctx context.Context, userID uuid.UUID, windowDays int, today time.Time) ([]TrendPoint, error) {
	days := DayRange(today, windowDays)
	if len(days) == 0 {
		return []TrendPoint{}, nil
	}
	from, to := days[0], days[len(days)-1]

	var habits []models.Habit
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND archived = ?", userID, false).
		Find(&habits).Error; err != nil {
		return nil, err
	}

	var logs []models.HabitLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND completed = ? AND date BETWEEN ? AND ?", userID, true, from, to).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int, len(habits))
	habitDays := make([]HabitDays, len(habits))
	for i, h := range habits {
		index[h.ID] = i
		habitDays[i] = HabitDays{HabitID: h.ID, Completed: map[string]bool{}}
	}
	for _, l := range logs {
		if i, ok := index[l.HabitID]; ok {
			habitDays[i].Completed[l.Date] = true
		}
	}

	var records []models.PrayerRecord
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Find(&records).Error; err != nil {
		return nil, err
	}
	prayerDays := make([]PrayerDay, len(records))
	for i, r := range records {
		prayerDays[i] = PrayerDay{Name: r.Name, Date: r.Date, Status: r.Status}
	}

	return BuildTrend(habitDays, prayerDays, windowDays, today), nil
}
