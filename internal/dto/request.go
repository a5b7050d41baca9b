package dto

import (
	"time"

	"github.com/google/uuid"
)

// EventInput is one event in a submission batch. OccurredAt is optional and
// defaults to server time; ReceivedAt can never be supplied by the caller.
type EventInput struct {
	EventType  string                 `json:"event_type" binding:"required" example:"learning.answer.submitted"`
	Payload    map[string]interface{} `json:"payload" swaggertype:"object"`
	ActivityID *uuid.UUID             `json:"activity_id,omitempty"`
	OccurredAt *time.Time             `json:"occurred_at,omitempty"`
}

// SubmitEventsRequest is the body of POST /v1/events.
type SubmitEventsRequest struct {
	UserID uuid.UUID    `json:"user_id" binding:"required"`
	Events []EventInput `json:"events" binding:"required,min=1,max=100,dive"`
}

// ListEventsQuery holds the optional filters and paging of GET
// /v1/users/:user_id/events.
type ListEventsQuery struct {
	EventType string     `form:"event_type"`
	Since     *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until     *time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit     int        `form:"limit,default=50" binding:"min=1,max=100"`
	Offset    int        `form:"offset,default=0" binding:"min=0"`
}
