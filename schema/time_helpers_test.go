package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWholeDaysBetween(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, WholeDaysBetween(start, start))
	assert.Equal(t, 0, WholeDaysBetween(start, start.Add(23*time.Hour)))
	assert.Equal(t, 1, WholeDaysBetween(start, start.Add(24*time.Hour)))
	assert.Equal(t, 1, WholeDaysBetween(start, start.Add(47*time.Hour)))
	assert.Equal(t, 30, WholeDaysBetween(start, time.Date(2025, time.January, 31, 8, 30, 0, 0, time.UTC)))
	assert.Equal(t, -1, WholeDaysBetween(start, start.Add(-1*time.Hour)))
	assert.Equal(t, -1, WholeDaysBetween(start, start.Add(-24*time.Hour)))
}

func TestTruncateDay(t *testing.T) {
	instant := time.Date(2025, time.March, 14, 18, 45, 12, 345, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), TruncateDay(instant))
}

func TestMidpoint(t *testing.T) {
	t1 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), Midpoint(t1, t2))
	// A single instant is its own midpoint
	assert.Equal(t, t1, Midpoint(t1, t1))
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2025-01-31")
	assert.Nil(t, err)
	assert.Equal(t, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseDay("31/01/2025")
	assert.NotNil(t, err)
	_, err = ParseDay("2025-1-31")
	assert.NotNil(t, err)
}

func TestTimeMinMax(t *testing.T) {
	t1 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, t1, TimeMin(t1, t2))
	assert.Equal(t, t1, TimeMin(t2, t1))
	assert.Equal(t, t2, TimeMax(t1, t2))
	assert.Equal(t, t2, TimeMax(t2, t1))
}
