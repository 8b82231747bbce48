package usecase

import (
	"math"
	"sort"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

// VariationCard compares the net gain of one metric over the requested range
// against the immediately preceding equal-length range.
type VariationCard struct {
	Metric       schema.Metric `json:"metric"`
	DisplayName  string        `json:"displayName"`
	Unit         string        `json:"unit"`
	CurrentGain  float64       `json:"currentGain"`
	PreviousGain float64       `json:"previousGain"`
	Variation    float64       `json:"variation"`
	IsFavorable  bool          `json:"isFavorable"`
}

// VariationCards computes one card per metric with data in the current
// range. The current range is [start, end] inclusive, the previous range is
// the equal-length [start-days, start) window right before it. Net gain is
// the last chronological value minus the first within the window. A metric
// without current-range data is skipped, a missing previous gain counts as
// 0, and the percentage variation of a 0 previous gain is 0 or ±100
// following the sign of the current gain.
//
// Returns ErrInvalidDateRange for empty or inverted ranges and ErrNoData
// when no metric produced a card.
func VariationCards(records []schema.Measurement, timeRange schema.TimeRange, weightHigherIsBetter bool) ([]VariationCard, error) {
	if timeRange.Days() <= 0 {
		return nil, ErrInvalidDateRange
	}
	previousRange := timeRange.Previous()

	sorted := make([]schema.Measurement, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MeasureTime.Before(sorted[j].MeasureTime)
	})

	cards := make([]VariationCard, 0, len(schema.Metrics))
	for _, metric := range schema.Metrics {
		currentGain, ok := netGain(sorted, metric, timeRange)
		if !ok {
			continue
		}
		previousGain, _ := netGain(sorted, metric, previousRange)

		var variation float64
		switch {
		case previousGain == 0 && currentGain == 0:
			variation = 0
		case previousGain == 0:
			variation = math.Copysign(100, currentGain)
		default:
			variation = (currentGain - previousGain) / math.Abs(previousGain) * 100
		}

		higherIsBetter := metric.HigherIsBetter()
		if metric == schema.MetricWeight {
			higherIsBetter = weightHigherIsBetter
		}

		cards = append(cards, VariationCard{
			Metric:       metric,
			DisplayName:  metric.DisplayName(),
			Unit:         metric.Unit(),
			CurrentGain:  round2(currentGain),
			PreviousGain: round2(previousGain),
			Variation:    round2(variation),
			IsFavorable:  (variation > 0) == higherIsBetter,
		})
	}
	if len(cards) == 0 {
		return nil, ErrNoData
	}
	return cards, nil
}

// netGain is the last minus first chronological value of the metric within
// the range; ok is false when the range holds no value.
func netGain(sorted []schema.Measurement, metric schema.Metric, timeRange schema.TimeRange) (float64, bool) {
	var first, last *float64
	for _, rec := range sorted {
		if !timeRange.Contains(rec.MeasureTime) {
			continue
		}
		value := metric.ValueOf(rec)
		if value == nil {
			continue
		}
		if first == nil {
			first = value
		}
		last = value
	}
	if first == nil {
		return 0, false
	}
	return *last - *first, true
}
