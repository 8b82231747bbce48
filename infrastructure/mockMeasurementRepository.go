package infrastructure

import (
	"context"
	"errors"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

// MockMeasurementRepository use for unit tests
type MockMeasurementRepository struct {
	Measurements  []schema.Measurement
	DailyAverages []schema.DailyAverage
	DataRange     *schema.TimeRange
	QueryError    bool

	Upserted []schema.Measurement
}

func NewMockMeasurementRepository() *MockMeasurementRepository {
	return &MockMeasurementRepository{}
}

// UpsertMeasurements replaces by (MeasureTime, DeviceID) key like the mongo
// repository, last write wins.
func (m *MockMeasurementRepository) UpsertMeasurements(ctx context.Context, records []schema.Measurement) (*schema.UpsertResult, error) {
	if m.QueryError {
		return nil, errors.New("mock store error")
	}
	result := &schema.UpsertResult{}
	for _, rec := range records {
		replaced := false
		for i, stored := range m.Upserted {
			if stored.MeasureTime.Equal(rec.MeasureTime) && stored.DeviceID == rec.DeviceID {
				m.Upserted[i] = rec
				replaced = true
				break
			}
		}
		if replaced {
			result.Updated++
		} else {
			m.Upserted = append(m.Upserted, rec)
			result.Inserted++
		}
	}
	return result, nil
}

func (m *MockMeasurementRepository) GetMeasurements(ctx context.Context, traceID string, timeRange schema.TimeRange) ([]schema.Measurement, error) {
	if m.QueryError {
		return nil, errors.New("mock store error")
	}
	return timeRange.Filter(m.Measurements), nil
}

func (m *MockMeasurementRepository) GetDailyAverages(ctx context.Context, traceID string, timeRange schema.TimeRange, xField schema.Metric, yField schema.Metric) ([]schema.DailyAverage, error) {
	if m.QueryError {
		return nil, errors.New("mock store error")
	}
	return m.DailyAverages, nil
}

func (m *MockMeasurementRepository) GetDataRange(ctx context.Context, traceID string) (*schema.TimeRange, error) {
	if m.QueryError {
		return nil, errors.New("mock store error")
	}
	return m.DataRange, nil
}

// MockDbAdapter use for unit tests
type MockDbAdapter struct {
	PingError bool
}

func (c *MockDbAdapter) Ping() error {
	if c.PingError {
		return errors.New("mock ping error")
	}
	return nil
}
