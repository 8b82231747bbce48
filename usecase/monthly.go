package usecase

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/bodycomp-io/bodycomp-api/schema"
)

type (
	// MetricMonthlyStat aggregates one metric over one calendar month.
	// Variation is the delta of the mean against the previous month, nil
	// for the first month carrying the metric.
	MetricMonthlyStat struct {
		Mean      float64  `json:"mean"`
		StdDev    float64  `json:"stdDev"`
		IQR       float64  `json:"iqr"`
		Variation *float64 `json:"variation"`
	}

	// MonthlyStat is the rollup of one calendar month.
	MonthlyStat struct {
		Month       string                               `json:"month"`
		RecordCount int                                  `json:"recordCount"`
		Metrics     map[schema.Metric]*MetricMonthlyStat `json:"metrics"`
	}
)

const monthFormat = "2006-01"

// MonthlyStats groups normalized records by calendar month and computes per
// metric the mean, sample standard deviation, interquartile range, and
// month-over-month delta of the mean. Months come out sorted ascending; a
// metric with no value in a month is absent from that month's map.
func MonthlyStats(records []NormalizedRecord) []MonthlyStat {
	values := make(map[string]map[schema.Metric][]float64)
	counts := make(map[string]int)
	for _, rec := range records {
		month := rec.MeasureTime.Format(monthFormat)
		if values[month] == nil {
			values[month] = make(map[schema.Metric][]float64)
		}
		counts[month]++
		for _, metric := range schema.Metrics {
			if v := metric.ValueOf(rec.Measurement); v != nil {
				values[month][metric] = append(values[month][metric], *v)
			}
		}
	}

	months := make([]string, 0, len(values))
	for month := range values {
		months = append(months, month)
	}
	sort.Strings(months)

	rollup := make([]MonthlyStat, 0, len(months))
	previousMeans := make(map[schema.Metric]float64)
	for _, month := range months {
		stat := MonthlyStat{
			Month:       month,
			RecordCount: counts[month],
			Metrics:     make(map[schema.Metric]*MetricMonthlyStat),
		}
		for _, metric := range schema.Metrics {
			series := values[month][metric]
			if len(series) == 0 {
				continue
			}
			mean, _ := stats.Mean(series)
			mean = metric.Round(mean)
			std := float64(0)
			if len(series) >= 2 {
				std, _ = stats.StandardDeviationSample(series)
			}
			iqr, err := stats.InterQuartileRange(series)
			if err != nil {
				iqr = 0
			}
			metricStat := &MetricMonthlyStat{
				Mean:   mean,
				StdDev: round2(std),
				IQR:    round2(iqr),
			}
			if previousMean, present := previousMeans[metric]; present {
				delta := round2(mean - previousMean)
				metricStat.Variation = &delta
			}
			previousMeans[metric] = mean
			stat.Metrics[metric] = metricStat
		}
		rollup = append(rollup, stat)
	}
	return rollup
}
