package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

type (
	// NormalizeOptions are the optional filters of the normalizer. Zero
	// values disable the corresponding filter.
	NormalizeOptions struct {
		DeviceID string
		DateFrom string
		DateTo   string
	}

	// NormalizedRecord is a measurement with the number of whole days
	// elapsed since the first record of the normalized set.
	NormalizedRecord struct {
		schema.Measurement
		ElapseDays int `json:"elapseDays"`
	}
)

// Normalize filters measurements by device and inclusive date range,
// collapses same-day records into one mean-of-day record, and annotates each
// result with the days elapsed since the earliest remaining record.
//
// Day deduplication policy: every record of a calendar day is replaced by a
// single record carrying the per-field mean of the day's non-null values,
// re-rounded to the stored precision, under the first timestamp of the day.
func Normalize(records []schema.Measurement, opts NormalizeOptions) ([]NormalizedRecord, error) {
	var dateFrom, dateTo time.Time
	var err error
	if opts.DateFrom != "" {
		if dateFrom, err = schema.ParseDay(opts.DateFrom); err != nil {
			return nil, fmt.Errorf("dateFrom %q: %w", opts.DateFrom, ErrInvalidDateFormat)
		}
	}
	if opts.DateTo != "" {
		if dateTo, err = schema.ParseDay(opts.DateTo); err != nil {
			return nil, fmt.Errorf("dateTo %q: %w", opts.DateTo, ErrInvalidDateFormat)
		}
	}

	kept := make([]schema.Measurement, 0, len(records))
	for _, rec := range records {
		if opts.DeviceID != "" && rec.DeviceID != opts.DeviceID {
			continue
		}
		day := schema.TruncateDay(rec.MeasureTime)
		if !dateFrom.IsZero() && day.Before(dateFrom) {
			continue
		}
		if !dateTo.IsZero() && day.After(dateTo) {
			continue
		}
		kept = append(kept, rec)
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].MeasureTime.Before(kept[j].MeasureTime)
	})

	daily := meanOfDay(kept)
	if len(daily) == 0 {
		return []NormalizedRecord{}, nil
	}

	firstDay := schema.TruncateDay(daily[0].MeasureTime)
	normalized := make([]NormalizedRecord, 0, len(daily))
	for _, rec := range daily {
		normalized = append(normalized, NormalizedRecord{
			Measurement: rec,
			ElapseDays:  schema.WholeDaysBetween(firstDay, schema.TruncateDay(rec.MeasureTime)),
		})
	}
	return normalized, nil
}

// meanOfDay collapses chronologically sorted measurements into one record
// per calendar day.
func meanOfDay(records []schema.Measurement) []schema.Measurement {
	daily := make([]schema.Measurement, 0, len(records))
	for start := 0; start < len(records); {
		end := start + 1
		day := records[start].Day()
		for end < len(records) && records[end].Day() == day {
			end++
		}
		group := records[start:end]

		rec := schema.Measurement{
			MeasureTime: group[0].MeasureTime,
			DeviceID:    group[0].DeviceID,
			TimeOffset:  group[0].TimeOffset,
		}
		for _, metric := range schema.Metrics {
			var sum float64
			var count int
			for _, sample := range group {
				if v := metric.ValueOf(sample); v != nil {
					sum += *v
					count++
				}
			}
			if count > 0 {
				mean := metric.Round(sum / float64(count))
				metric.SetOn(&rec, &mean)
			}
		}
		daily = append(daily, rec)
		start = end
	}
	return daily
}
