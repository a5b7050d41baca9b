// Package validation implements the input-gating rules for event ingestion.
// These run before any store mutation; one invalid event rejects the whole
// batch.
package validation

import (
	"fmt"
	"regexp"

	"github.com/Maho1100/growth-loop-engine/internal/domain"
)

// Naming convention: {domain}.{object}.{action}, each part starting with a
// lowercase letter and containing only a-z, 0-9, _.
var eventTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*\.[a-z][a-z0-9_]*\.[a-z][a-z0-9_]*$`)

// Characters never allowed in an event type, plus ASCII control characters.
var forbiddenChars = regexp.MustCompile(`[;'"\\/<>{}()` + "\x00-\x1f" + `]`)

const (
	MinEventTypeLength = 5 // shortest possible is "a.b.c"
	MaxEventTypeLength = 100

	MaxPayloadSizeBytes = 8192
)

// EventType returns nil if the given event type satisfies the naming
// convention, or a domain.ErrValidation-wrapped error naming the violated
// rule and the offending value.
func EventType(eventType string) error {
	length := len(eventType)
	if length < MinEventTypeLength {
		return fmt.Errorf("%w: event_type too short (%d < %d)", domain.ErrValidation, length, MinEventTypeLength)
	}
	if length > MaxEventTypeLength {
		return fmt.Errorf("%w: event_type too long (%d > %d)", domain.ErrValidation, length, MaxEventTypeLength)
	}

	if forbiddenChars.MatchString(eventType) {
		return fmt.Errorf("%w: event_type %q contains forbidden characters", domain.ErrValidation, eventType)
	}

	if !eventTypePattern.MatchString(eventType) {
		return fmt.Errorf(
			"%w: event_type %q must match {domain}.{object}.{action} where each part starts with a-z and contains only a-z, 0-9, _",
			domain.ErrValidation, eventType)
	}

	return nil
}

// PayloadSize returns nil if the serialized payload fits the size budget.
func PayloadSize(serialized []byte) error {
	if len(serialized) > MaxPayloadSizeBytes {
		return fmt.Errorf("%w: payload size %d exceeds %d bytes", domain.ErrValidation, len(serialized), MaxPayloadSizeBytes)
	}
	return nil
}
