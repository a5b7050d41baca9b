package consumer

import (
	"github.com/Maho1100/growth-loop-engine/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into events
type MessageParser interface {
	Parse(body []byte) (*domain.Event, error)
}
