package domain

import "time"

// StreakInfo describes consecutive-active-day runs for a user.
// CurrentDays is the length of the run containing the most recent active
// date; it is not gated on that date being today.
type StreakInfo struct {
	CurrentDays    int
	LongestDays    int
	LastActiveDate *time.Time
}

// WeeklyFrequency describes active-day frequency over the trailing 28 days,
// grouped by ISO week.
type WeeklyFrequency struct {
	WeeksCounted   int
	AvgDaysPerWeek float64
	ThisWeekDays   int
}

// SessionStats describes reconstructed sessions over the trailing 30 days.
type SessionStats struct {
	AvgDurationSec   int
	TotalSessions30d int
}

// UserSummary is an ephemeral engagement snapshot, recomputed on every
// request from the current event set.
type UserSummary struct {
	Streak          StreakInfo
	WeeklyFrequency WeeklyFrequency
	Session         SessionStats
	ComputedAt      time.Time
}
