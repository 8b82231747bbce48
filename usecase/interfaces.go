package usecase

import (
	"bytes"
	"context"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

// MeasurementRepository is the measurement store as seen by the use cases.
type MeasurementRepository interface {
	UpsertMeasurements(ctx context.Context, records []schema.Measurement) (*schema.UpsertResult, error)
	GetMeasurements(ctx context.Context, traceID string, timeRange schema.TimeRange) ([]schema.Measurement, error)
	GetDailyAverages(ctx context.Context, traceID string, timeRange schema.TimeRange, xField schema.Metric, yField schema.Metric) ([]schema.DailyAverage, error)
	GetDataRange(ctx context.Context, traceID string) (*schema.TimeRange, error)
}

// Uploader pushes an export file to its destination bucket.
type Uploader interface {
	Upload(ctx context.Context, filename string, buffer *bytes.Buffer) error
}
