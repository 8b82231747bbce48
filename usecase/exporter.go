package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bodycomp-io/bodycomp-api/common"
	"github.com/bodycomp-io/bodycomp-api/schema"
)

// Exporter writes a CSV snapshot of stored measurements to the export
// bucket.
type Exporter struct {
	logger   *logrus.Logger
	repo     MeasurementRepository
	uploader Uploader
}

func NewExporter(logger *logrus.Logger, repo MeasurementRepository, uploader Uploader) Exporter {
	return Exporter{
		logger:   logger,
		repo:     repo,
		uploader: uploader,
	}
}

// Export fetches the measurements of the range, renders them as CSV and
// uploads the file. Meant to run detached from the request that triggered
// it; failures are logged, not returned.
func (e Exporter) Export(traceID string, startDate string, endDate string) {
	e.logger.Info("launching export process")
	timeRange, detailedErr := parseDateRange(startDate, endDate)
	if detailedErr != nil {
		e.logger.Errorf("export aborted, invalid range [%s][%s]: %s", detailedErr.Code, detailedErr.Message, detailedErr.InternalMessage)
		return
	}

	backgroundCtx := common.TimeItContext(context.Background())
	records, err := e.repo.GetMeasurements(backgroundCtx, traceID, *timeRange)
	if err != nil {
		e.logger.Errorf("get measurements failed: %v", err)
		return
	}

	var buffer bytes.Buffer
	if err := writeExportCSV(&buffer, records); err != nil {
		e.logger.Errorf("rendering export failed: %v", err)
		return
	}

	startExportTime := strings.ReplaceAll(time.Now().UTC().Round(time.Second).String(), " ", "_")
	filename := strings.Join([]string{"bodycomp", startDate, endDate, startExportTime}, "_") + ".csv"
	if err := e.uploader.Upload(backgroundCtx, filename, &buffer); err != nil {
		e.logger.Errorf("upload failed: %v", err)
		return
	}
	e.logger.Infof("export of %d measurements uploaded as %s", len(records), filename)
}

func writeExportCSV(buffer *bytes.Buffer, records []schema.Measurement) error {
	writer := csv.NewWriter(buffer)
	header := []string{"measureTime", "deviceId", "weight", "muscleMass", "bodyFatMass", "basalMetabolicRate", "totalBodyWater"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.MeasureTime.Format(time.RFC3339),
			rec.DeviceID,
		}
		for _, metric := range []schema.Metric{
			schema.MetricWeight, schema.MetricMuscleMass, schema.MetricBodyFatMass,
			schema.MetricBasalMetabolicRate, schema.MetricTotalBodyWater,
		} {
			value := metric.ValueOf(rec)
			if value == nil {
				row = append(row, "")
			} else {
				row = append(row, strconv.FormatFloat(*value, 'f', -1, 64))
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
