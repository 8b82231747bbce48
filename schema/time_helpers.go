package schema

import "time"

// DayFormat is the wire format of every date parameter and day grouping key.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD date parameter into a UTC midnight instant.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// TruncateDay drops the time-of-day, keeping the calendar day at midnight.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WholeDaysBetween returns floor(days(t - start)), negative when t is before
// start.
func WholeDaysBetween(start time.Time, t time.Time) int {
	d := t.Sub(start)
	days := d / (24 * time.Hour)
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return int(days)
}

// Midpoint returns the instant halfway between t1 and t2.
func Midpoint(t1 time.Time, t2 time.Time) time.Time {
	return t1.Add(t2.Sub(t1) / 2)
}

func TimeBeforeOrEqual(t time.Time, t2 time.Time) bool {
	return t.Before(t2) || t.Equal(t2)
}

func TimeAfterOrEqual(t time.Time, t2 time.Time) bool {
	return t.After(t2) || t.Equal(t2)
}

func TimeMin(t1 time.Time, t2 time.Time) time.Time {
	if t2.Before(t1) {
		return t2
	}
	return t1
}

func TimeMax(t1 time.Time, t2 time.Time) time.Time {
	if t2.After(t1) {
		return t2
	}
	return t1
}
