package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/bodycomp-io/bodycomp-api/common"
	"github.com/bodycomp-io/bodycomp-api/schema"
)

var (
	errorRunningQuery      = common.DetailedError{Status: http.StatusInternalServerError, Code: "data_store_error", Message: "internal server error"}
	errorInvalidDateFormat = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_date_format", Message: "dates must be in YYYY-MM-DD format"}
	errorInvalidDateRange  = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_date_range", Message: "startDate must be before endDate"}
	errorInvalidField      = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_field", Message: "invalid field selection"}
	errorEmptyResult       = common.DetailedError{Status: http.StatusNotFound, Code: "empty_result", Message: "no data found for the specified date range"}
	errorNoData            = common.DetailedError{Status: http.StatusNotFound, Code: "no_data", Message: "no metric could be analyzed over the specified date range"}
)

var storeQueryTimer = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:      "store_query_time",
	Help:      "A histogram for measurement store query execution time (ms)",
	Buckets:   prometheus.LinearBuckets(5, 5, 100),
	Subsystem: "bodycomp",
	Namespace: "bodycomp",
})

type (
	// MetricsRelationshipChart is the scatter+correlation payload of the
	// /measurements route.
	MetricsRelationshipChart struct {
		Title       string         `json:"title"`
		XAxisTitle  string         `json:"xAxisTitle"`
		YAxisTitle  string         `json:"yAxisTitle"`
		Correlation *float64       `json:"correlation"`
		DataPoints  []ScatterPoint `json:"dataPoints"`
	}

	// TimeProgressionChart is the bucketed progression payload of the
	// /time-progression route.
	TimeProgressionChart struct {
		Title      string             `json:"title"`
		XAxisTitle string             `json:"xAxisTitle"`
		YAxisTitle string             `json:"yAxisTitle"`
		DataPoints []ProgressionPoint `json:"dataPoints"`
	}
)

// ChartData serves the analytical views over the measurement store.
type ChartData struct {
	logger               *logrus.Logger
	repo                 MeasurementRepository
	weightHigherIsBetter bool
}

func NewChartDataUseCase(logger *logrus.Logger, repo MeasurementRepository, weightHigherIsBetter bool) *ChartData {
	return &ChartData{
		logger:               logger,
		repo:                 repo,
		weightHigherIsBetter: weightHigherIsBetter,
	}
}

// GetScatter builds the day-averaged scatter of two metrics with their
// Pearson correlation over the inclusive date range.
func (c *ChartData) GetScatter(ctx context.Context, traceID string, startDate string, endDate string, xField string, yField string) (*MetricsRelationshipChart, *common.DetailedError) {
	timeRange, detailedErr := parseDateRange(startDate, endDate)
	if detailedErr != nil {
		return nil, detailedErr
	}
	x, err := schema.ParseMetric(xField)
	if err != nil {
		e := errorInvalidField.SetInternalMessage(err)
		return nil, &e
	}
	y, err := schema.ParseMetric(yField)
	if err != nil {
		e := errorInvalidField.SetInternalMessage(err)
		return nil, &e
	}

	days, err := c.timedDailyAverages(ctx, traceID, *timeRange, x, y)
	if err != nil {
		e := errorRunningQuery.SetInternalMessage(err)
		return nil, &e
	}

	points, correlation := Relationship(days, timeRange.Start)
	return &MetricsRelationshipChart{
		Title:       fmt.Sprintf("%s vs %s (total records: %d)", x.DisplayName(), y.DisplayName(), len(points)),
		XAxisTitle:  x.AxisTitle(),
		YAxisTitle:  y.AxisTitle(),
		Correlation: correlation,
		DataPoints:  points,
	}, nil
}

// GetTimeProgression buckets one metric over the date range into groupTime
// wide intervals.
func (c *ChartData) GetTimeProgression(ctx context.Context, traceID string, startDate string, endDate string, measureField string, groupTime int) (*TimeProgressionChart, *common.DetailedError) {
	timeRange, detailedErr := parseDateRange(startDate, endDate)
	if detailedErr != nil {
		return nil, detailedErr
	}
	metric, err := schema.ParseMetric(measureField)
	if err != nil {
		e := errorInvalidField.SetInternalMessage(err)
		return nil, &e
	}

	records, err := c.timedMeasurements(ctx, traceID, *timeRange)
	if err != nil {
		e := errorRunningQuery.SetInternalMessage(err)
		return nil, &e
	}

	points, err := BucketProgression(records, metric, *timeRange, groupTime)
	if err != nil {
		if errors.Is(err, ErrEmptyResult) {
			e := errorEmptyResult.SetInternalMessage(err)
			return nil, &e
		}
		e := errorRunningQuery.SetInternalMessage(err)
		return nil, &e
	}
	return &TimeProgressionChart{
		Title:      fmt.Sprintf("%s Progression (grouped by %d days, %d periods)", metric.DisplayName(), groupTime, len(points)),
		XAxisTitle: "Date",
		YAxisTitle: metric.AxisTitle(),
		DataPoints: points,
	}, nil
}

// GetVariationCards compares the date range against the preceding
// equal-length window, one card per metric with data.
func (c *ChartData) GetVariationCards(ctx context.Context, traceID string, startDate string, endDate string) ([]VariationCard, *common.DetailedError) {
	timeRange, detailedErr := parseDateRange(startDate, endDate)
	if detailedErr != nil {
		return nil, detailedErr
	}
	if timeRange.Days() <= 0 {
		return nil, &errorInvalidDateRange
	}

	// One fetch covers both windows
	fetchRange := schema.TimeRange{
		Start:      timeRange.Previous().Start,
		End:        timeRange.End,
		IncludeEnd: true,
	}
	records, err := c.timedMeasurements(ctx, traceID, fetchRange)
	if err != nil {
		e := errorRunningQuery.SetInternalMessage(err)
		return nil, &e
	}

	cards, err := VariationCards(records, *timeRange, c.weightHigherIsBetter)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			e := errorNoData.SetInternalMessage(err)
			return nil, &e
		}
		if errors.Is(err, ErrInvalidDateRange) {
			return nil, &errorInvalidDateRange
		}
		e := errorRunningQuery.SetInternalMessage(err)
		return nil, &e
	}
	return cards, nil
}

// GetMonthlyStats normalizes the range to mean-of-day records and rolls
// them up by calendar month.
func (c *ChartData) GetMonthlyStats(ctx context.Context, traceID string, startDate string, endDate string) ([]MonthlyStat, *common.DetailedError) {
	timeRange, detailedErr := parseDateRange(startDate, endDate)
	if detailedErr != nil {
		return nil, detailedErr
	}

	records, err := c.timedMeasurements(ctx, traceID, *timeRange)
	if err != nil {
		e := errorRunningQuery.SetInternalMessage(err)
		return nil, &e
	}
	normalized, err := Normalize(records, NormalizeOptions{})
	if err != nil {
		e := errorRunningQuery.SetInternalMessage(err)
		return nil, &e
	}
	if len(normalized) == 0 {
		e := errorEmptyResult
		return nil, &e
	}
	return MonthlyStats(normalized), nil
}

// GetDataRange returns the first and last stored measurement times.
func (c *ChartData) GetDataRange(ctx context.Context, traceID string) (*schema.TimeRange, *common.DetailedError) {
	timeRange, err := c.repo.GetDataRange(ctx, traceID)
	if err != nil {
		e := errorRunningQuery.SetInternalMessage(err)
		return nil, &e
	}
	if timeRange == nil {
		e := errorEmptyResult
		return nil, &e
	}
	return timeRange, nil
}

func (c *ChartData) timedMeasurements(ctx context.Context, traceID string, timeRange schema.TimeRange) ([]schema.Measurement, error) {
	common.TimeIt(ctx, "getMeasurements")
	start := time.Now()
	records, err := c.repo.GetMeasurements(ctx, traceID, timeRange)
	storeQueryTimer.Observe(float64(time.Since(start).Milliseconds()))
	common.TimeEnd(ctx, "getMeasurements")
	return records, err
}

func (c *ChartData) timedDailyAverages(ctx context.Context, traceID string, timeRange schema.TimeRange, x schema.Metric, y schema.Metric) ([]schema.DailyAverage, error) {
	common.TimeIt(ctx, "getDailyAverages")
	start := time.Now()
	days, err := c.repo.GetDailyAverages(ctx, traceID, timeRange, x, y)
	storeQueryTimer.Observe(float64(time.Since(start).Milliseconds()))
	common.TimeEnd(ctx, "getDailyAverages")
	return days, err
}

func parseDateRange(startDate string, endDate string) (*schema.TimeRange, *common.DetailedError) {
	start, err := schema.ParseDay(startDate)
	if err != nil {
		e := errorInvalidDateFormat.SetInternalMessage(err)
		return nil, &e
	}
	end, err := schema.ParseDay(endDate)
	if err != nil {
		e := errorInvalidDateFormat.SetInternalMessage(err)
		return nil, &e
	}
	if end.Before(start) {
		return nil, &errorInvalidDateRange
	}
	timeRange := schema.NewTimeRange(start, end)
	return &timeRange, nil
}
