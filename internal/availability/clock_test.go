package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISOWeekday(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2026-10-19", 1},
		{"2026-10-21", 3},
		{"2026-10-24", 6},
		{"2026-10-25", 7},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := ParseDate(tt.date, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ISOWeekday(d))
		})
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("08:30:15")
	require.NoError(t, err)
	assert.Equal(t, NewClock(8, 30, 15), c)

	c, err = ParseClock("14:05")
	require.NoError(t, err)
	assert.Equal(t, "14:05:00", c.String())

	_, err = ParseClock("8am")
	assert.Error(t, err)

	_, err = ParseClock("25:00:00")
	assert.Error(t, err)
}

func TestClock_On(t *testing.T) {
	loc := time.FixedZone("ECT", -5*3600)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, loc)

	at := NewClock(9, 30, 0).On(date)

	assert.Equal(t, time.Date(2026, 10, 19, 9, 30, 0, 0, loc), at)
	assert.Equal(t, NewClock(9, 30, 0), ClockOf(at))
}

func TestClock_Arithmetic(t *testing.T) {
	start := NewClock(8, 0, 0)

	assert.Equal(t, NewClock(8, 45, 0), start.Add(45*time.Minute))
	assert.Equal(t, 2*time.Hour, NewClock(10, 0, 0).Sub(start))
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("19/10/2026", time.UTC)
	assert.Error(t, err)

	d, err := ParseDate("2026-10-19", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())
}
