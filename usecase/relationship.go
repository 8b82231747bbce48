package usecase

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

// ScatterPoint is one day of the metric relationship view: the per-day means
// of the two selected metrics.
type ScatterPoint struct {
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Date       time.Time `json:"date"`
	ElapseDays int       `json:"elapseDays"`
}

// Relationship turns the day-grouped averages coming from the store into
// scatter points and computes the Pearson correlation across the two per-day
// series. Days missing either metric are skipped. The correlation is nil
// below 2 usable days, never an error.
//
// The store emits the rows sorted ascending by day, which is preserved here.
func Relationship(days []schema.DailyAverage, start time.Time) ([]ScatterPoint, *float64) {
	points := make([]ScatterPoint, 0, len(days))
	xs := make([]float64, 0, len(days))
	ys := make([]float64, 0, len(days))
	for _, day := range days {
		if day.AvgX == nil || day.AvgY == nil {
			continue
		}
		date, err := schema.ParseDay(day.Day)
		if err != nil {
			continue
		}
		x := round2(*day.AvgX)
		y := round2(*day.AvgY)
		points = append(points, ScatterPoint{
			X:          x,
			Y:          y,
			Date:       date,
			ElapseDays: schema.WholeDaysBetween(start, date),
		})
		xs = append(xs, x)
		ys = append(ys, y)
	}

	var correlation *float64
	if len(points) >= 2 {
		if r, err := stats.Pearson(xs, ys); err == nil {
			correlation = &r
		}
	}
	return points, correlation
}
