package services

import (
	"fmt"

	"github.com/go-analyze/charts"
)

// RenderTrendChart draws the habit, prayer and overall scores as a PNG line chart.
func RenderTrendChart(points []TrendPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no trend points to chart")
	}

	habit := make([]float64, len(points))
	prayer := make([]float64, len(points))
	overall := make([]float64, len(points))
	for i, p := range points {
		habit[i] = float64(p.HabitScore)
		prayer[i] = float64(p.PrayerScore)
		overall[i] = float64(p.OverallScore)
	}

	p, err := charts.LineRender(
		[][]float64{habit, prayer, overall},
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Consistency %s to %s", points[0].Date, points[len(points)-1].Date),
		}),
		charts.LegendLabelsOptionFunc([]string{"Habits", "Prayers", "Overall"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
