package consumer

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Maho1100/growth-loop-engine/internal/domain"
)

var testUserID = uuid.MustParse("6fb13c5c-2e1f-4f94-b6d2-01b0a3c2cbb7")

func TestJSONEventParser_Valid(t *testing.T) {
	parser := NewJSONEventParser()

	body := fmt.Sprintf(`{
		"user_id": %q,
		"event_type": "learning.answer.submitted",
		"payload": {"correct": true},
		"occurred_at": "2025-03-12T09:00:00Z"
	}`, testUserID)

	event, err := parser.Parse([]byte(body))

	assert.NoError(t, err)
	assert.Equal(t, testUserID, event.UserID)
	assert.Equal(t, "learning.answer.submitted", event.EventType)
	assert.Nil(t, event.ActivityID)
	assert.Equal(t, time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC), event.OccurredAt)
	assert.JSONEq(t, `{"correct": true}`, string(event.Payload))
}

func TestJSONEventParser_DefaultsOccurredAtAndPayload(t *testing.T) {
	parser := NewJSONEventParser()

	before := time.Now().UTC()
	event, err := parser.Parse([]byte(fmt.Sprintf(
		`{"user_id": %q, "event_type": "engagement.session.started"}`, testUserID)))

	assert.NoError(t, err)
	assert.Equal(t, "{}", string(event.Payload))
	assert.False(t, event.OccurredAt.Before(before))
}

func TestJSONEventParser_MalformedJSON(t *testing.T) {
	parser := NewJSONEventParser()

	event, err := parser.Parse([]byte(`{not json`))

	assert.Error(t, err)
	assert.Nil(t, event)
}

func TestJSONEventParser_InvalidUserID(t *testing.T) {
	parser := NewJSONEventParser()

	event, err := parser.Parse([]byte(`{"user_id": "nope", "event_type": "learning.answer.submitted"}`))

	assert.Error(t, err)
	assert.Nil(t, event)
	assert.Contains(t, err.Error(), "user_id")
}

func TestJSONEventParser_InvalidEventType(t *testing.T) {
	parser := NewJSONEventParser()

	event, err := parser.Parse([]byte(fmt.Sprintf(
		`{"user_id": %q, "event_type": "DROP TABLE"}`, testUserID)))

	assert.Nil(t, event)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestJSONEventParser_InvalidActivityID(t *testing.T) {
	parser := NewJSONEventParser()

	event, err := parser.Parse([]byte(fmt.Sprintf(
		`{"user_id": %q, "event_type": "learning.answer.submitted", "activity_id": "bad"}`, testUserID)))

	assert.Nil(t, event)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "activity_id")
}
