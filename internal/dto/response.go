package dto

import (
	"time"

	"github.com/google/uuid"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"event_type too short (3 < 5)"`
}

// EventReceipt identifies one accepted event.
type EventReceipt struct {
	ID         uuid.UUID `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
}

// SubmitEventsResponse is returned when a whole batch was written.
type SubmitEventsResponse struct {
	Accepted int            `json:"accepted" example:"3"`
	Events   []EventReceipt `json:"events"`
}

// EventDetail is one stored event as returned by the list endpoint.
type EventDetail struct {
	ID         uuid.UUID              `json:"id"`
	EventType  string                 `json:"event_type" example:"learning.answer.submitted"`
	Payload    map[string]interface{} `json:"payload" swaggertype:"object"`
	ActivityID *uuid.UUID             `json:"activity_id,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	ReceivedAt time.Time              `json:"received_at"`
}

// EventListResponse is a page of a user's events, newest first.
type EventListResponse struct {
	UserID uuid.UUID     `json:"user_id"`
	Total  int           `json:"total" example:"3"`
	Limit  int           `json:"limit" example:"50"`
	Offset int           `json:"offset" example:"0"`
	Events []EventDetail `json:"events"`
}

// StreakInfo reports consecutive-active-day runs.
type StreakInfo struct {
	CurrentDays    int     `json:"current_days" example:"3"`
	LongestDays    int     `json:"longest_days" example:"7"`
	LastActiveDate *string `json:"last_active_date" example:"2025-03-12"`
}

// WeeklyFrequency reports active-day frequency over the trailing 28 days.
type WeeklyFrequency struct {
	WeeksCounted   int     `json:"weeks_counted" example:"4"`
	AvgDaysPerWeek float64 `json:"avg_days_per_week" example:"3.5"`
	ThisWeekDays   int     `json:"this_week_days" example:"2"`
}

// SessionStats reports reconstructed session statistics.
type SessionStats struct {
	AvgDurationSec   int `json:"avg_duration_sec" example:"420"`
	TotalSessions30d int `json:"total_sessions_30d" example:"12"`
}

// UserSummaryResponse is the engagement snapshot for one user.
type UserSummaryResponse struct {
	UserID          uuid.UUID       `json:"user_id"`
	ComputedAt      time.Time       `json:"computed_at"`
	Streak          StreakInfo      `json:"streak"`
	WeeklyFrequency WeeklyFrequency `json:"weekly_frequency"`
	Session         SessionStats    `json:"session"`
}
