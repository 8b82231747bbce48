package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

func variationRange() schema.TimeRange {
	return schema.NewTimeRange(
		time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
	)
}

func TestVariationCardsZeroPreviousGain(t *testing.T) {
	timeRange := variationRange()
	records := []schema.Measurement{
		weightAt(timeRange.Start, "scale-1", 70),
		weightAt(timeRange.End, "scale-1", 75),
	}

	cards, err := VariationCards(records, timeRange, true)
	assert.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, schema.MetricWeight, cards[0].Metric)
	assert.Equal(t, 5.0, cards[0].CurrentGain)
	assert.Equal(t, 0.0, cards[0].PreviousGain)
	// A zero previous gain caps the variation at the sign of the current one
	assert.Equal(t, 100.0, cards[0].Variation)
	assert.True(t, cards[0].IsFavorable)
}

func TestVariationCardsBothGainsZero(t *testing.T) {
	timeRange := variationRange()
	records := []schema.Measurement{
		weightAt(timeRange.Start, "scale-1", 70),
		weightAt(timeRange.End, "scale-1", 70),
	}

	cards, err := VariationCards(records, timeRange, true)
	assert.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, 0.0, cards[0].Variation)
	assert.False(t, cards[0].IsFavorable)
}

func TestVariationCardsSignFlip(t *testing.T) {
	timeRange := variationRange()
	previous := timeRange.Previous()
	records := []schema.Measurement{
		// Previous window loses 10, current window gains 10
		weightAt(previous.Start, "scale-1", 80),
		weightAt(previous.Start.AddDate(0, 0, 5), "scale-1", 70),
		weightAt(timeRange.Start, "scale-1", 70),
		weightAt(timeRange.End, "scale-1", 80),
	}

	cards, err := VariationCards(records, timeRange, true)
	assert.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, 10.0, cards[0].CurrentGain)
	assert.Equal(t, -10.0, cards[0].PreviousGain)
	assert.Equal(t, 200.0, cards[0].Variation)
}

func TestVariationCardsWeightPolarity(t *testing.T) {
	timeRange := variationRange()
	records := []schema.Measurement{
		weightAt(timeRange.Start, "scale-1", 70),
		weightAt(timeRange.End, "scale-1", 75),
	}

	cards, err := VariationCards(records, timeRange, false)
	assert.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, 100.0, cards[0].Variation)
	// Gaining weight is unfavorable when the lower polarity is configured
	assert.False(t, cards[0].IsFavorable)
}

func TestVariationCardsFatMassPolarity(t *testing.T) {
	timeRange := variationRange()
	records := []schema.Measurement{
		{MeasureTime: timeRange.Start, DeviceID: "scale-1", BodyFatMass: fptr(20)},
		{MeasureTime: timeRange.End, DeviceID: "scale-1", BodyFatMass: fptr(18)},
	}

	cards, err := VariationCards(records, timeRange, true)
	assert.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, -2.0, cards[0].CurrentGain)
	assert.Equal(t, -100.0, cards[0].Variation)
	// Losing fat mass is favorable
	assert.True(t, cards[0].IsFavorable)
}

func TestVariationCardsSkipsMetricsWithoutData(t *testing.T) {
	timeRange := variationRange()
	records := []schema.Measurement{
		weightAt(timeRange.Start, "scale-1", 70),
		weightAt(timeRange.End, "scale-1", 71),
		{MeasureTime: timeRange.Start, DeviceID: "scale-1", MuscleMass: fptr(30)},
	}

	cards, err := VariationCards(records, timeRange, true)
	assert.NoError(t, err)
	assert.Len(t, cards, 2)
	metrics := []schema.Metric{cards[0].Metric, cards[1].Metric}
	assert.Contains(t, metrics, schema.MetricWeight)
	assert.Contains(t, metrics, schema.MetricMuscleMass)
}

func TestVariationCardsErrors(t *testing.T) {
	timeRange := variationRange()

	_, err := VariationCards(nil, timeRange, true)
	assert.ErrorIs(t, err, ErrNoData)

	// Records exist but all before the current window
	records := []schema.Measurement{
		weightAt(timeRange.Start.AddDate(0, 0, -5), "scale-1", 70),
	}
	_, err = VariationCards(records, timeRange, true)
	assert.ErrorIs(t, err, ErrNoData)

	day := time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC)
	_, err = VariationCards(records, schema.NewTimeRange(day, day), true)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
