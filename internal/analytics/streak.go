// Package analytics derives engagement metrics from a user's event history.
// Every calculator is a pure function over data read from the event store,
// so each is independently testable against synthetic inputs.
package analytics

import (
	"time"

	"github.com/Maho1100/growth-loop-engine/internal/domain"
)

const day = 24 * time.Hour

// Streak groups the given distinct active dates (UTC midnights, sorted
// descending) into runs of consecutive days with a single linear scan: a
// date extends the current run when it is exactly one day before its
// predecessor. CurrentDays is the length of the run containing the most
// recent active date; LongestDays the maximum run length.
func Streak(activeDays []time.Time) domain.StreakInfo {
	if len(activeDays) == 0 {
		return domain.StreakInfo{}
	}

	last := activeDays[0]
	info := domain.StreakInfo{LastActiveDate: &last}

	run := 1
	longest := 1
	for i := 1; i < len(activeDays); i++ {
		if activeDays[i-1].Sub(activeDays[i]) == day {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		if info.CurrentDays == 0 && run == 1 {
			// The first run just ended at index i-1.
			info.CurrentDays = i
		}
	}
	if info.CurrentDays == 0 {
		info.CurrentDays = len(activeDays)
	}
	info.LongestDays = longest

	return info
}
