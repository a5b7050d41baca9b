package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Maho1100/growth-loop-engine/internal/domain"
)

// EventFilter narrows a list query. Nil/empty fields are ignored; present
// fields combine with logical AND.
type EventFilter struct {
	EventType string
	Since     *time.Time
	Until     *time.Time
}

// EventStore defines the interface for the append-only event log and its
// read paths. Users and Activities are external reference tables consulted
// only for existence checks.
type EventStore interface {
	// AppendBatch writes all events in a single transaction and returns
	// one receipt per event, in input order. Either every event becomes
	// durable or none do.
	AppendBatch(ctx context.Context, userID uuid.UUID, events []domain.Event) ([]domain.EventReceipt, error)

	// UserExists reports whether the user id references an existing user.
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)

	// MissingActivity returns the first of the given activity ids that does
	// not exist, or nil when all exist.
	MissingActivity(ctx context.Context, activityIDs []uuid.UUID) (*uuid.UUID, error)

	// ActiveDays returns the distinct UTC calendar dates on which the user
	// has at least one event, sorted descending.
	ActiveDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error)

	// EventsInWindow returns the user's events of the given types with
	// occurred_at >= since, sorted ascending by occurred_at.
	EventsInWindow(ctx context.Context, userID uuid.UUID, types []string, since time.Time) ([]domain.Event, error)

	// ListEvents returns the total match count and one page of the user's
	// events, sorted descending by occurred_at.
	ListEvents(ctx context.Context, userID uuid.UUID, filter EventFilter, limit, offset int) (int, []domain.Event, error)

	// Ping checks if the store connection is alive.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close()
}
