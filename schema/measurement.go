package schema

import (
	"fmt"
	"math"
	"time"
)

type (
	// Measurement is one body-composition sample as stored in mongo.
	// At most one document exists per (measureTime, deviceId) pair,
	// ingestion upserts with last-write-wins.
	Measurement struct {
		MeasureTime        time.Time `bson:"measureTime" json:"measureTime"`
		DeviceID           string    `bson:"deviceId" json:"deviceId"`
		TimeOffset         string    `bson:"timeOffset,omitempty" json:"timeOffset,omitempty"`
		Weight             *float64  `bson:"weight" json:"weight"`
		MuscleMass         *float64  `bson:"muscleMass" json:"muscleMass"`
		BodyFatMass        *float64  `bson:"bodyFatMass" json:"bodyFatMass"`
		BasalMetabolicRate *float64  `bson:"basalMetabolicRate" json:"basalMetabolicRate"`
		TotalBodyWater     *float64  `bson:"totalBodyWater" json:"totalBodyWater"`
	}

	// Metric is the closed set of analyzable measurement fields. Using a
	// dedicated type instead of free strings keeps the field allow-list and
	// the column accessors in one place.
	Metric string
)

const (
	MetricWeight             Metric = "weight"
	MetricMuscleMass         Metric = "muscleMass"
	MetricBodyFatMass        Metric = "bodyFatMass"
	MetricBasalMetabolicRate Metric = "basalMetabolicRate"
	MetricTotalBodyWater     Metric = "totalBodyWater"
)

// Metrics lists every analyzable metric, in the order cards and rollups are
// reported.
var Metrics = []Metric{
	MetricWeight,
	MetricMuscleMass,
	MetricBodyFatMass,
	MetricBasalMetabolicRate,
	MetricTotalBodyWater,
}

// ParseMetric validates a field name received from the outside world against
// the metric allow-list.
func ParseMetric(field string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == field {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid field selection %q", field)
}

// ValueOf returns the value of this metric on a measurement, nil when the
// sample does not carry it.
func (m Metric) ValueOf(rec Measurement) *float64 {
	switch m {
	case MetricWeight:
		return rec.Weight
	case MetricMuscleMass:
		return rec.MuscleMass
	case MetricBodyFatMass:
		return rec.BodyFatMass
	case MetricBasalMetabolicRate:
		return rec.BasalMetabolicRate
	case MetricTotalBodyWater:
		return rec.TotalBodyWater
	}
	return nil
}

// SetOn stores a value for this metric on a measurement.
func (m Metric) SetOn(rec *Measurement, value *float64) {
	switch m {
	case MetricWeight:
		rec.Weight = value
	case MetricMuscleMass:
		rec.MuscleMass = value
	case MetricBodyFatMass:
		rec.BodyFatMass = value
	case MetricBasalMetabolicRate:
		rec.BasalMetabolicRate = value
	case MetricTotalBodyWater:
		rec.TotalBodyWater = value
	}
}

// DisplayName is the human readable name used in chart titles.
func (m Metric) DisplayName() string {
	switch m {
	case MetricWeight:
		return "Weight"
	case MetricMuscleMass:
		return "Muscle Mass"
	case MetricBodyFatMass:
		return "Body Fat Mass"
	case MetricBasalMetabolicRate:
		return "Basal Metabolic Rate"
	case MetricTotalBodyWater:
		return "Total Body Water"
	}
	return string(m)
}

// Unit of the metric values as labelled on chart axes.
func (m Metric) Unit() string {
	if m == MetricBasalMetabolicRate {
		return "Kcal"
	}
	return "kg"
}

// AxisTitle is the "<name> (<unit>)" label used on chart axes.
func (m Metric) AxisTitle() string {
	return fmt.Sprintf("%s (%s)", m.DisplayName(), m.Unit())
}

// HigherIsBetter is the default polarity of the metric: whether an increase
// counts as an improvement. The weight default can be overridden per
// deployment since it depends on the user goal.
func (m Metric) HigherIsBetter() bool {
	return m != MetricBodyFatMass
}

// Round normalizes a raw value to the stored precision of this metric:
// whole Kcal for the metabolic rate, 2 decimals for masses and water.
// Rounding is half away from zero, so 70.456 stores as 70.46.
func (m Metric) Round(value float64) float64 {
	if m == MetricBasalMetabolicRate {
		return math.Round(value)
	}
	return math.Round(value*100) / 100
}

// Day returns the measurement calendar day as YYYY-MM-DD.
func (rec Measurement) Day() string {
	return rec.MeasureTime.Format(DayFormat)
}
