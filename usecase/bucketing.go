package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

// ProgressionPoint is one time bucket of a metric progression: the bucket
// mean, its sample standard deviation and the representative date of the
// bucket.
type ProgressionPoint struct {
	Value float64   `json:"value"`
	Std   float64   `json:"std"`
	Date  time.Time `json:"date"`
}

type bucket struct {
	values   []float64
	earliest time.Time
	latest   time.Time
}

// BucketProgression groups the measurements of one metric into fixed-width
// time buckets relative to the range start and aggregates each bucket.
//
// Bucket index is floor(wholeDays(ts - start) / widthDays); with a width of
// 15 days a sample on day 30 lands in bucket 2. The standard deviation is
// the sample standard deviation, reported as 0 below 2 points. The
// representative date of a bucket is the midpoint of its earliest and latest
// samples, clamped to the range end; the end itself clamps down to the last
// observed sample's day when data stops before it.
//
// Returns ErrEmptyResult when no record in range carries the metric.
func BucketProgression(records []schema.Measurement, metric schema.Metric, timeRange schema.TimeRange, widthDays int) ([]ProgressionPoint, error) {
	buckets := make(map[int]*bucket)
	maxTime := time.Time{}
	for _, rec := range records {
		if !timeRange.Contains(rec.MeasureTime) {
			continue
		}
		value := metric.ValueOf(rec)
		if value == nil {
			continue
		}
		index := schema.WholeDaysBetween(timeRange.Start, rec.MeasureTime) / widthDays
		b, present := buckets[index]
		if !present {
			b = &bucket{earliest: rec.MeasureTime, latest: rec.MeasureTime}
			buckets[index] = b
		}
		b.values = append(b.values, *value)
		b.earliest = schema.TimeMin(b.earliest, rec.MeasureTime)
		b.latest = schema.TimeMax(b.latest, rec.MeasureTime)
		maxTime = schema.TimeMax(maxTime, rec.MeasureTime)
	}
	if len(buckets) == 0 {
		return nil, ErrEmptyResult
	}

	end := timeRange.End
	if maxTime.Before(end) {
		end = schema.TruncateDay(maxTime)
	}

	indexes := make([]int, 0, len(buckets))
	for index := range buckets {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	points := make([]ProgressionPoint, 0, len(buckets))
	for _, index := range indexes {
		b := buckets[index]
		mean, _ := stats.Mean(b.values)
		std := float64(0)
		if len(b.values) >= 2 {
			std, _ = stats.StandardDeviationSample(b.values)
		}
		date := schema.Midpoint(b.earliest, b.latest)
		if date.After(end) {
			date = end
		}
		points = append(points, ProgressionPoint{
			Value: round2(mean),
			Std:   round2(std),
			Date:  date,
		})
	}
	return points, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
