package analytics

import (
	"github.com/Maho1100/growth-loop-engine/internal/domain"
)

const (
	// SessionWindowDays is the trailing window for session reconstruction.
	SessionWindowDays = 30

	// Duration bounds for a plausible session, inclusive.
	MinSessionSeconds = 10
	MaxSessionSeconds = 14400
)

// Sessions reconstructs sessions from session-boundary events sorted
// ascending by occurrence time. Each started event is paired with the
// immediately following boundary event regardless of its type; the pair
// counts as a session only when the elapsed time falls within the plausible
// duration bounds. A trailing started event with no follower is dropped.
// AvgDurationSec is the integer-truncated mean over valid sessions.
func Sessions(events []domain.Event) domain.SessionStats {
	var stats domain.SessionStats

	var totalSeconds float64
	for i := 0; i+1 < len(events); i++ {
		if events[i].EventType != domain.EventTypeSessionStarted {
			continue
		}
		elapsed := events[i+1].OccurredAt.Sub(events[i].OccurredAt).Seconds()
		if elapsed < MinSessionSeconds || elapsed > MaxSessionSeconds {
			continue
		}
		stats.TotalSessions30d++
		totalSeconds += elapsed
	}

	if stats.TotalSessions30d > 0 {
		stats.AvgDurationSec = int(totalSeconds / float64(stats.TotalSessions30d))
	}

	return stats
}
