package schema

import "time"

// TimeRange is a date range passed to the aggregators. IncludeEnd selects
// between the [start, end] ranges of the query path and the [start, end)
// previous window of the variation analyzer.
type TimeRange struct {
	Start      time.Time
	End        time.Time
	IncludeEnd bool
}

func NewTimeRange(start time.Time, end time.Time) TimeRange {
	return TimeRange{
		Start:      start,
		End:        end,
		IncludeEnd: true,
	}
}

// Days is the range length in whole days.
func (r TimeRange) Days() int {
	return WholeDaysBetween(r.Start, r.End)
}

// Contains reports whether t falls inside the range. An inclusive end
// covers the whole end day.
func (r TimeRange) Contains(t time.Time) bool {
	if t.Before(r.Start) {
		return false
	}
	if r.IncludeEnd {
		return t.Before(TruncateDay(r.End).Add(24 * time.Hour))
	}
	return t.Before(r.End)
}

// Previous returns the equal-length range immediately preceding this one,
// ending right before this range starts.
func (r TimeRange) Previous() TimeRange {
	length := r.End.Sub(r.Start)
	return TimeRange{
		Start:      r.Start.Add(-length),
		End:        r.Start,
		IncludeEnd: false,
	}
}

// Filter keeps the measurements falling inside the range, preserving order.
func (r TimeRange) Filter(records []Measurement) []Measurement {
	kept := make([]Measurement, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.MeasureTime) {
			kept = append(kept, rec)
		}
	}
	return kept
}
