package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dateUTC(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStreak_Empty(t *testing.T) {
	info := Streak(nil)

	assert.Equal(t, 0, info.CurrentDays)
	assert.Equal(t, 0, info.LongestDays)
	assert.Nil(t, info.LastActiveDate)
}

func TestStreak_SingleDay(t *testing.T) {
	d := dateUTC(2025, time.March, 14)

	info := Streak([]time.Time{d})

	assert.Equal(t, 1, info.CurrentDays)
	assert.Equal(t, 1, info.LongestDays)
	assert.Equal(t, d, *info.LastActiveDate)
}

func TestStreak_ConsecutiveRunWithPriorGap(t *testing.T) {
	// {D, D-1, D-2} plus a disjoint {D-10}.
	days := []time.Time{
		dateUTC(2025, time.March, 14),
		dateUTC(2025, time.March, 13),
		dateUTC(2025, time.March, 12),
		dateUTC(2025, time.March, 4),
	}

	info := Streak(days)

	assert.Equal(t, 3, info.CurrentDays)
	assert.Equal(t, 3, info.LongestDays)
	assert.Equal(t, dateUTC(2025, time.March, 14), *info.LastActiveDate)
}

func TestStreak_LongestExceedsCurrent(t *testing.T) {
	// Recent 2-day run, older 4-day run.
	days := []time.Time{
		dateUTC(2025, time.March, 14),
		dateUTC(2025, time.March, 13),
		dateUTC(2025, time.March, 8),
		dateUTC(2025, time.March, 7),
		dateUTC(2025, time.March, 6),
		dateUTC(2025, time.March, 5),
	}

	info := Streak(days)

	assert.Equal(t, 2, info.CurrentDays)
	assert.Equal(t, 4, info.LongestDays)
}

func TestStreak_NoRecencyGate(t *testing.T) {
	// A run that ended long ago still reports as the current streak; the
	// calculator has no notion of "today".
	days := []time.Time{
		dateUTC(2024, time.November, 2),
		dateUTC(2024, time.November, 1),
	}

	info := Streak(days)

	assert.Equal(t, 2, info.CurrentDays)
	assert.Equal(t, 2, info.LongestDays)
}

func TestStreak_LongestAlwaysAtLeastCurrent(t *testing.T) {
	cases := [][]time.Time{
		nil,
		{dateUTC(2025, time.January, 1)},
		{dateUTC(2025, time.January, 5), dateUTC(2025, time.January, 4), dateUTC(2025, time.January, 1)},
		{dateUTC(2025, time.January, 9), dateUTC(2025, time.January, 8), dateUTC(2025, time.January, 7), dateUTC(2025, time.January, 6)},
	}

	for _, days := range cases {
		info := Streak(days)
		assert.GreaterOrEqual(t, info.LongestDays, info.CurrentDays)
		if len(days) == 0 {
			assert.Zero(t, info.CurrentDays)
			assert.Zero(t, info.LongestDays)
		} else {
			assert.Positive(t, info.CurrentDays)
			assert.Positive(t, info.LongestDays)
		}
	}
}
