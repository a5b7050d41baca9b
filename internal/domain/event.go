package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session boundary event types used by the session reconstructor.
const (
	EventTypeSessionStarted = "engagement.session.started"
	EventTypeSessionEnded   = "engagement.session.ended"
)

// Event is one entry in the append-only behavioral log. Events are never
// updated or deleted; every derived metric is a pure function of the
// current event set. OccurredAt is semantic event time (caller-supplied or
// defaulted to server time), ReceivedAt is always assigned by the store.
type Event struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ActivityID *uuid.UUID
	EventType  string
	Payload    json.RawMessage
	OccurredAt time.Time
	ReceivedAt time.Time
}

// EventReceipt is returned for each event accepted into the store.
type EventReceipt struct {
	ID         uuid.UUID
	ReceivedAt time.Time
}
