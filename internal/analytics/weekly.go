package analytics

import (
	"math"
	"time"

	"github.com/Maho1100/growth-loop-engine/internal/domain"
)

// WeeklyWindowDays is the trailing window for weekly frequency grouping.
const WeeklyWindowDays = 28

type isoWeek struct {
	year int
	week int
}

// WeeklyFrequency counts active days per ISO week over the trailing 28 days
// from now. AvgDaysPerWeek is the mean per-week count rounded to one decimal
// place, 0.0 when the window holds no active days. ThisWeekDays counts
// distinct active dates from the most recent Monday through now, independent
// of the 28-day grouping.
func WeeklyFrequency(activeDays []time.Time, now time.Time) domain.WeeklyFrequency {
	windowStart := DateUTC(now.AddDate(0, 0, -WeeklyWindowDays))
	monday := mostRecentMonday(now)

	var freq domain.WeeklyFrequency
	perWeek := make(map[isoWeek]int)
	for _, d := range activeDays {
		if d.After(now) {
			continue
		}
		if !d.Before(monday) {
			freq.ThisWeekDays++
		}
		if d.Before(windowStart) {
			continue
		}
		year, week := d.ISOWeek()
		perWeek[isoWeek{year, week}]++
	}

	freq.WeeksCounted = len(perWeek)
	if freq.WeeksCounted > 0 {
		total := 0
		for _, n := range perWeek {
			total += n
		}
		avg := float64(total) / float64(freq.WeeksCounted)
		freq.AvgDaysPerWeek = math.Round(avg*10) / 10
	}

	return freq
}

// DateUTC truncates t to its UTC calendar date (midnight UTC).
func DateUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mostRecentMonday returns the UTC midnight of the Monday on or before t.
func mostRecentMonday(t time.Time) time.Time {
	d := DateUTC(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
