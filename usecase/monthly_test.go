package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

func normalizedWeight(measureTime time.Time, weight float64) NormalizedRecord {
	return NormalizedRecord{
		Measurement: weightAt(measureTime, "scale-1", weight),
	}
}

func TestMonthlyStatsRollup(t *testing.T) {
	records := []NormalizedRecord{
		normalizedWeight(time.Date(2025, time.January, 5, 8, 0, 0, 0, time.UTC), 70),
		normalizedWeight(time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC), 72),
		normalizedWeight(time.Date(2025, time.February, 5, 8, 0, 0, 0, time.UTC), 73),
		normalizedWeight(time.Date(2025, time.February, 15, 8, 0, 0, 0, time.UTC), 75),
	}

	rollup := MonthlyStats(records)
	assert.Len(t, rollup, 2)
	assert.Equal(t, "2025-01", rollup[0].Month)
	assert.Equal(t, "2025-02", rollup[1].Month)
	assert.Equal(t, 2, rollup[0].RecordCount)

	january := rollup[0].Metrics[schema.MetricWeight]
	assert.NotNil(t, january)
	assert.Equal(t, 71.0, january.Mean)
	assert.Equal(t, 1.41, january.StdDev)
	// The first month carrying a metric has no month-over-month delta
	assert.Nil(t, january.Variation)

	february := rollup[1].Metrics[schema.MetricWeight]
	assert.NotNil(t, february)
	assert.Equal(t, 74.0, february.Mean)
	assert.NotNil(t, february.Variation)
	assert.Equal(t, 3.0, *february.Variation)
}

func TestMonthlyStatsSingleValueMonth(t *testing.T) {
	records := []NormalizedRecord{
		normalizedWeight(time.Date(2025, time.January, 5, 8, 0, 0, 0, time.UTC), 70),
	}

	rollup := MonthlyStats(records)
	assert.Len(t, rollup, 1)
	stat := rollup[0].Metrics[schema.MetricWeight]
	assert.NotNil(t, stat)
	assert.Equal(t, 70.0, stat.Mean)
	assert.Equal(t, 0.0, stat.StdDev)
	assert.Equal(t, 0.0, stat.IQR)
}

func TestMonthlyStatsMetricAbsentFromMonth(t *testing.T) {
	records := []NormalizedRecord{
		normalizedWeight(time.Date(2025, time.January, 5, 8, 0, 0, 0, time.UTC), 70),
		{
			Measurement: schema.Measurement{
				MeasureTime: time.Date(2025, time.February, 5, 8, 0, 0, 0, time.UTC),
				DeviceID:    "scale-1",
				MuscleMass:  fptr(30),
			},
		},
	}

	rollup := MonthlyStats(records)
	assert.Len(t, rollup, 2)
	assert.Contains(t, rollup[0].Metrics, schema.MetricWeight)
	assert.NotContains(t, rollup[0].Metrics, schema.MetricMuscleMass)
	assert.NotContains(t, rollup[1].Metrics, schema.MetricWeight)
	assert.Contains(t, rollup[1].Metrics, schema.MetricMuscleMass)
}

func TestMonthlyStatsEmpty(t *testing.T) {
	rollup := MonthlyStats(nil)
	assert.Empty(t, rollup)
}
