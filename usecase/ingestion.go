package usecase

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

// Column names of the body-composition export. The first line of the file is
// the export banner, the second the real header.
const (
	columnCreateTime         = "create_time"
	columnDeviceUUID         = "deviceuuid"
	columnTimeOffset         = "time_offset"
	columnWeight             = "weight"
	columnSkeletalMuscleMass = "skeletal_muscle_mass"
	columnBodyFatMass        = "body_fat_mass"
	columnBasalMetabolicRate = "basal_metabolic_rate"
	columnTotalBodyWater     = "total_body_water"
)

var metricColumns = map[string]schema.Metric{
	columnWeight:             schema.MetricWeight,
	columnSkeletalMuscleMass: schema.MetricMuscleMass,
	columnBodyFatMass:        schema.MetricBodyFatMass,
	columnBasalMetabolicRate: schema.MetricBasalMetabolicRate,
	columnTotalBodyWater:     schema.MetricTotalBodyWater,
}

var exportTimeLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// ParseExport reads a tabular export stream into measurements. Rows whose
// timestamp or device id cannot be parsed are dropped; numeric fields that
// fail to parse stay null. Returns ErrMalformedInput when a required column
// is missing from the header.
func ParseExport(r io.Reader) ([]schema.Measurement, error) {
	buffered := bufio.NewReader(r)
	// Discard the export banner line
	if _, err := buffered.ReadString('\n'); err != nil {
		return nil, fmt.Errorf("reading export banner: %w", ErrMalformedInput)
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1 // export lines can be ragged

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading export header: %w", ErrMalformedInput)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	required := []string{
		columnCreateTime, columnDeviceUUID,
		columnWeight, columnSkeletalMuscleMass, columnBodyFatMass,
		columnBasalMetabolicRate, columnTotalBodyWater,
	}
	for _, name := range required {
		if _, present := columns[name]; !present {
			return nil, fmt.Errorf("column %q: %w", name, ErrMalformedInput)
		}
	}

	records := make([]schema.Measurement, 0, 256)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A line the csv reader cannot make sense of is dropped, like
			// any other unparseable row
			continue
		}
		rec, ok := parseExportRow(row, columns)
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func parseExportRow(row []string, columns map[string]int) (schema.Measurement, bool) {
	rec := schema.Measurement{}

	rawTime := field(row, columns, columnCreateTime)
	if rawTime == "" {
		return rec, false
	}
	parsed := false
	for _, layout := range exportTimeLayouts {
		if t, err := time.Parse(layout, rawTime); err == nil {
			rec.MeasureTime = t
			parsed = true
			break
		}
	}
	if !parsed {
		return rec, false
	}

	rec.DeviceID = field(row, columns, columnDeviceUUID)
	if rec.DeviceID == "" {
		return rec, false
	}
	rec.TimeOffset = field(row, columns, columnTimeOffset)

	for column, metric := range metricColumns {
		raw := field(row, columns, column)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		rounded := metric.Round(value)
		metric.SetOn(&rec, &rounded)
	}
	return rec, true
}

func field(row []string, columns map[string]int, name string) string {
	index, present := columns[name]
	if !present || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// Ingester loads an export file into the measurement store.
type Ingester struct {
	logger *logrus.Logger
	repo   MeasurementRepository
}

func NewIngester(logger *logrus.Logger, repo MeasurementRepository) Ingester {
	return Ingester{
		logger: logger,
		repo:   repo,
	}
}

// IngestFile parses the export at path, applies the optional device/date
// filters, and bulk upserts the resulting measurements keyed by
// (measureTime, deviceId). Re-ingesting the same file is idempotent.
func (i Ingester) IngestFile(ctx context.Context, path string, opts NormalizeOptions) (*schema.UpsertResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer file.Close()

	records, err := ParseExport(file)
	if err != nil {
		return nil, err
	}
	i.logger.Infof("parsed %d measurement rows from %s", len(records), path)

	records, err = filterForIngest(records, opts)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &schema.UpsertResult{}, nil
	}

	result, err := i.repo.UpsertMeasurements(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("upsert measurements: %w", err)
	}
	i.logger.Infof("inserted: %d, updated: %d", result.Inserted, result.Updated)
	return result, nil
}

// filterForIngest applies the normalizer's device and date filters without
// the day deduplication: the store keeps every sample, keyed by time and
// device, and deduplication belongs to the analysis read path.
func filterForIngest(records []schema.Measurement, opts NormalizeOptions) ([]schema.Measurement, error) {
	if opts.DeviceID == "" && opts.DateFrom == "" && opts.DateTo == "" {
		return records, nil
	}
	var dateFrom, dateTo string
	if opts.DateFrom != "" {
		if _, err := schema.ParseDay(opts.DateFrom); err != nil {
			return nil, fmt.Errorf("dateFrom %q: %w", opts.DateFrom, ErrInvalidDateFormat)
		}
		dateFrom = opts.DateFrom
	}
	if opts.DateTo != "" {
		if _, err := schema.ParseDay(opts.DateTo); err != nil {
			return nil, fmt.Errorf("dateTo %q: %w", opts.DateTo, ErrInvalidDateFormat)
		}
		dateTo = opts.DateTo
	}
	kept := make([]schema.Measurement, 0, len(records))
	for _, rec := range records {
		if opts.DeviceID != "" && rec.DeviceID != opts.DeviceID {
			continue
		}
		day := rec.Day()
		if dateFrom != "" && day < dateFrom {
			continue
		}
		if dateTo != "" && day > dateTo {
			continue
		}
		kept = append(kept, rec)
	}
	return kept, nil
}
