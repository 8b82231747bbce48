package usecase

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/bodycomp-io/bodycomp-api/infrastructure"
	"github.com/bodycomp-io/bodycomp-api/schema"
)

func chartFixture(repo *infrastructure.MockMeasurementRepository) *ChartData {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewChartDataUseCase(logger, repo, true)
}

func TestGetScatter(t *testing.T) {
	repo := infrastructure.NewMockMeasurementRepository()
	repo.DailyAverages = []schema.DailyAverage{
		{Day: "2025-01-01", AvgX: fptr(70.0), AvgY: fptr(30.0)},
		{Day: "2025-01-02", AvgX: fptr(70.5), AvgY: fptr(30.2)},
	}
	chartData := chartFixture(repo)

	chart, detailedErr := chartData.GetScatter(context.Background(), "trace-1", "2025-01-01", "2025-01-31", "weight", "muscleMass")
	assert.Nil(t, detailedErr)
	assert.Equal(t, "Weight vs Muscle Mass (total records: 2)", chart.Title)
	assert.Equal(t, "Weight (kg)", chart.XAxisTitle)
	assert.Equal(t, "Muscle Mass (kg)", chart.YAxisTitle)
	assert.Len(t, chart.DataPoints, 2)
	assert.NotNil(t, chart.Correlation)
}

func TestGetScatterNoData(t *testing.T) {
	chartData := chartFixture(infrastructure.NewMockMeasurementRepository())

	chart, detailedErr := chartData.GetScatter(context.Background(), "trace-1", "2025-01-01", "2025-01-31", "weight", "muscleMass")
	assert.Nil(t, detailedErr)
	// An empty scatter is a valid chart with a null correlation
	assert.Empty(t, chart.DataPoints)
	assert.Nil(t, chart.Correlation)
}

func TestGetScatterInvalidField(t *testing.T) {
	chartData := chartFixture(infrastructure.NewMockMeasurementRepository())

	_, detailedErr := chartData.GetScatter(context.Background(), "trace-1", "2025-01-01", "2025-01-31", "height", "muscleMass")
	assert.NotNil(t, detailedErr)
	assert.Equal(t, "invalid_field", detailedErr.Code)
	assert.Equal(t, http.StatusBadRequest, detailedErr.Status)
}

func TestGetScatterInvalidDates(t *testing.T) {
	chartData := chartFixture(infrastructure.NewMockMeasurementRepository())

	_, detailedErr := chartData.GetScatter(context.Background(), "trace-1", "01/01/2025", "2025-01-31", "weight", "muscleMass")
	assert.NotNil(t, detailedErr)
	assert.Equal(t, "invalid_date_format", detailedErr.Code)

	_, detailedErr = chartData.GetScatter(context.Background(), "trace-1", "2025-01-31", "2025-01-01", "weight", "muscleMass")
	assert.NotNil(t, detailedErr)
	assert.Equal(t, "invalid_date_range", detailedErr.Code)
}

func TestGetScatterStoreError(t *testing.T) {
	repo := infrastructure.NewMockMeasurementRepository()
	repo.QueryError = true
	chartData := chartFixture(repo)

	_, detailedErr := chartData.GetScatter(context.Background(), "trace-1", "2025-01-01", "2025-01-31", "weight", "muscleMass")
	assert.NotNil(t, detailedErr)
	assert.Equal(t, "data_store_error", detailedErr.Code)
	assert.Equal(t, http.StatusInternalServerError, detailedErr.Status)
}

func TestGetTimeProgression(t *testing.T) {
	repo := infrastructure.NewMockMeasurementRepository()
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 20; day++ {
		repo.Measurements = append(repo.Measurements, weightAt(start.AddDate(0, 0, day), "scale-1", 70))
	}
	chartData := chartFixture(repo)

	chart, detailedErr := chartData.GetTimeProgression(context.Background(), "trace-1", "2025-01-01", "2025-01-20", "weight", 7)
	assert.Nil(t, detailedErr)
	assert.Equal(t, "Weight Progression (grouped by 7 days, 3 periods)", chart.Title)
	assert.Equal(t, "Date", chart.XAxisTitle)
	assert.Equal(t, "Weight (kg)", chart.YAxisTitle)
	assert.Len(t, chart.DataPoints, 3)
}

func TestGetTimeProgressionEmptyResult(t *testing.T) {
	chartData := chartFixture(infrastructure.NewMockMeasurementRepository())

	_, detailedErr := chartData.GetTimeProgression(context.Background(), "trace-1", "2025-01-01", "2025-01-31", "weight", 7)
	assert.NotNil(t, detailedErr)
	assert.Equal(t, "empty_result", detailedErr.Code)
	assert.Equal(t, http.StatusNotFound, detailedErr.Status)
}

func TestGetVariationCards(t *testing.T) {
	repo := infrastructure.NewMockMeasurementRepository()
	repo.Measurements = []schema.Measurement{
		// Previous window
		weightAt(time.Date(2025, time.January, 2, 8, 0, 0, 0, time.UTC), "scale-1", 71),
		weightAt(time.Date(2025, time.January, 9, 8, 0, 0, 0, time.UTC), "scale-1", 70),
		// Current window
		weightAt(time.Date(2025, time.January, 11, 8, 0, 0, 0, time.UTC), "scale-1", 70),
		weightAt(time.Date(2025, time.January, 19, 8, 0, 0, 0, time.UTC), "scale-1", 72),
	}
	chartData := chartFixture(repo)

	cards, detailedErr := chartData.GetVariationCards(context.Background(), "trace-1", "2025-01-11", "2025-01-20")
	assert.Nil(t, detailedErr)
	assert.Len(t, cards, 1)
	assert.Equal(t, schema.MetricWeight, cards[0].Metric)
	assert.Equal(t, 2.0, cards[0].CurrentGain)
	assert.Equal(t, -1.0, cards[0].PreviousGain)
	assert.Equal(t, 300.0, cards[0].Variation)
	assert.True(t, cards[0].IsFavorable)
}

func TestGetVariationCardsNoData(t *testing.T) {
	chartData := chartFixture(infrastructure.NewMockMeasurementRepository())

	_, detailedErr := chartData.GetVariationCards(context.Background(), "trace-1", "2025-01-11", "2025-01-20")
	assert.NotNil(t, detailedErr)
	assert.Equal(t, "no_data", detailedErr.Code)
	assert.Equal(t, http.StatusNotFound, detailedErr.Status)
}

func TestGetVariationCardsSameDay(t *testing.T) {
	chartData := chartFixture(infrastructure.NewMockMeasurementRepository())

	_, detailedErr := chartData.GetVariationCards(context.Background(), "trace-1", "2025-01-11", "2025-01-11")
	assert.NotNil(t, detailedErr)
	assert.Equal(t, "invalid_date_range", detailedErr.Code)
}

func TestGetMonthlyStats(t *testing.T) {
	repo := infrastructure.NewMockMeasurementRepository()
	repo.Measurements = []schema.Measurement{
		weightAt(time.Date(2025, time.January, 5, 8, 0, 0, 0, time.UTC), "scale-1", 70),
		weightAt(time.Date(2025, time.January, 5, 20, 0, 0, 0, time.UTC), "scale-1", 72),
		weightAt(time.Date(2025, time.February, 5, 8, 0, 0, 0, time.UTC), "scale-1", 74),
	}
	chartData := chartFixture(repo)

	rollup, detailedErr := chartData.GetMonthlyStats(context.Background(), "trace-1", "2025-01-01", "2025-02-28")
	assert.Nil(t, detailedErr)
	assert.Len(t, rollup, 2)
	// Same-day samples collapse before the rollup
	assert.Equal(t, 1, rollup[0].RecordCount)
	assert.Equal(t, 71.0, rollup[0].Metrics[schema.MetricWeight].Mean)
	assert.Equal(t, 3.0, *rollup[1].Metrics[schema.MetricWeight].Variation)
}

func TestGetMonthlyStatsEmptyResult(t *testing.T) {
	chartData := chartFixture(infrastructure.NewMockMeasurementRepository())

	_, detailedErr := chartData.GetMonthlyStats(context.Background(), "trace-1", "2025-01-01", "2025-01-31")
	assert.NotNil(t, detailedErr)
	assert.Equal(t, "empty_result", detailedErr.Code)
}

func TestGetDataRange(t *testing.T) {
	repo := infrastructure.NewMockMeasurementRepository()
	timeRange := schema.NewTimeRange(
		time.Date(2025, time.January, 5, 8, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 5, 8, 0, 0, 0, time.UTC),
	)
	repo.DataRange = &timeRange
	chartData := chartFixture(repo)

	got, detailedErr := chartData.GetDataRange(context.Background(), "trace-1")
	assert.Nil(t, detailedErr)
	assert.Equal(t, timeRange.Start, got.Start)
	assert.Equal(t, timeRange.End, got.End)
}

func TestGetDataRangeEmptyStore(t *testing.T) {
	chartData := chartFixture(infrastructure.NewMockMeasurementRepository())

	_, detailedErr := chartData.GetDataRange(context.Background(), "trace-1")
	assert.NotNil(t, detailedErr)
	assert.Equal(t, "empty_result", detailedErr.Code)
}
