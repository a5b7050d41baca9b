package consumer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Maho1100/growth-loop-engine/internal/domain"
	"github.com/Maho1100/growth-loop-engine/internal/validation"
)

// eventMessage is the JSON envelope internal producers put on the queue.
type eventMessage struct {
	UserID     string          `json:"user_id"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload"`
	ActivityID *string         `json:"activity_id"`
	OccurredAt *time.Time      `json:"occurred_at"`
}

// JSONEventParser implements MessageParser for JSON-formatted event messages.
// The same gating rules apply here as at the API boundary; an event that
// fails them never reaches the store.
type JSONEventParser struct{}

// NewJSONEventParser creates a new JSON event parser
func NewJSONEventParser() *JSONEventParser {
	return &JSONEventParser{}
}

// Parse parses a JSON message body into an Event
func (p *JSONEventParser) Parse(body []byte) (*domain.Event, error) {
	var msg eventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	userID, err := uuid.Parse(msg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id %q: %w", msg.UserID, err)
	}

	if err := validation.EventType(msg.EventType); err != nil {
		return nil, err
	}

	payload := msg.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	if err := validation.PayloadSize(payload); err != nil {
		return nil, err
	}

	var activityID *uuid.UUID
	if msg.ActivityID != nil {
		id, err := uuid.Parse(*msg.ActivityID)
		if err != nil {
			return nil, fmt.Errorf("invalid activity_id %q: %w", *msg.ActivityID, err)
		}
		activityID = &id
	}

	occurredAt := time.Now().UTC()
	if msg.OccurredAt != nil {
		occurredAt = msg.OccurredAt.UTC()
	}

	return &domain.Event{
		UserID:     userID,
		ActivityID: activityID,
		EventType:  msg.EventType,
		Payload:    payload,
		OccurredAt: occurredAt,
	}, nil
}
