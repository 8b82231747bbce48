package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/bodycomp-io/bodycomp-api/infrastructure"
	"github.com/bodycomp-io/bodycomp-api/schema"
)

type uploadRecorder struct {
	filename string
	content  string
}

func (u *uploadRecorder) Upload(ctx context.Context, filename string, buffer *bytes.Buffer) error {
	u.filename = filename
	u.content = buffer.String()
	return nil
}

func TestExport(t *testing.T) {
	repo := infrastructure.NewMockMeasurementRepository()
	repo.Measurements = []schema.Measurement{
		weightAt(time.Date(2025, time.January, 5, 8, 30, 0, 0, time.UTC), "scale-1", 70.4),
		weightAt(time.Date(2025, time.January, 6, 8, 30, 0, 0, time.UTC), "scale-1", 71.2),
	}
	uploader := &uploadRecorder{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	exporter := NewExporter(logger, repo, uploader)

	exporter.Export("trace-1", "2025-01-01", "2025-01-31")

	assert.True(t, strings.HasPrefix(uploader.filename, "bodycomp_2025-01-01_2025-01-31_"))
	assert.True(t, strings.HasSuffix(uploader.filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(uploader.content), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "measureTime,deviceId,weight,muscleMass,bodyFatMass,basalMetabolicRate,totalBodyWater", lines[0])
	assert.Equal(t, "2025-01-05T08:30:00Z,scale-1,70.4,,,,", lines[1])
	assert.Equal(t, "2025-01-06T08:30:00Z,scale-1,71.2,,,,", lines[2])
}

func TestExportInvalidRange(t *testing.T) {
	uploader := &uploadRecorder{}
	var logOutput bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logOutput)
	exporter := NewExporter(logger, infrastructure.NewMockMeasurementRepository(), uploader)

	exporter.Export("trace-1", "2025-01-31", "2025-01-01")

	// Nothing reaches the uploader on an inverted range
	assert.Empty(t, uploader.filename)
	// The abort reason is visible in the log
	assert.Contains(t, logOutput.String(), "invalid_date_range")
	assert.Contains(t, logOutput.String(), "startDate must be before endDate")
}
