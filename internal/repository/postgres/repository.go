package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Maho1100/growth-loop-engine/internal/domain"
	"github.com/Maho1100/growth-loop-engine/internal/repository"
)

// Repository implements repository.EventStore on Postgres.
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new Postgres-backed event store.
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// storeErr classifies a low-level storage failure under the
// ErrStoreUnavailable sentinel while keeping the operation context.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

const insertEventSQL = `
	INSERT INTO events (user_id, activity_id, event_type, payload, occurred_at)
	VALUES ($1::uuid, $2::uuid, $3, $4::jsonb, $5)
	RETURNING id::text, received_at
`

// AppendBatch inserts all events inside one transaction. received_at is
// assigned by the database at write time; the returned receipts preserve
// input order.
func (r *Repository) AppendBatch(ctx context.Context, userID uuid.UUID, events []domain.Event) ([]domain.EventReceipt, error) {
	tx, err := r.client.Pool().Begin(ctx)
	if err != nil {
		return nil, storeErr("begin batch transaction", err)
	}
	defer tx.Rollback(ctx)

	receipts := make([]domain.EventReceipt, 0, len(events))
	for _, ev := range events {
		var activityID interface{}
		if ev.ActivityID != nil {
			activityID = ev.ActivityID.String()
		}

		payload := ev.Payload
		if len(payload) == 0 {
			payload = []byte("{}")
		}

		var (
			idText     string
			receivedAt time.Time
		)
		row := tx.QueryRow(ctx, insertEventSQL,
			userID.String(), activityID, ev.EventType, string(payload), ev.OccurredAt)
		if err := row.Scan(&idText, &receivedAt); err != nil {
			return nil, storeErr("insert event", err)
		}

		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, storeErr("parse generated event id", err)
		}
		receipts = append(receipts, domain.EventReceipt{ID: id, ReceivedAt: receivedAt})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr("commit batch transaction", err)
	}

	r.log.Debug("Batch appended",
		zap.String("user_id", userID.String()),
		zap.Int("event_count", len(receipts)))

	return receipts, nil
}

// UserExists checks the external users reference table.
func (r *Repository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.client.Pool().
		QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE id = $1::uuid)", userID.String()).
		Scan(&exists)
	if err != nil {
		return false, storeErr("check user existence", err)
	}
	return exists, nil
}

// MissingActivity returns the first given activity id absent from the
// external activities reference table, or nil when all exist.
func (r *Repository) MissingActivity(ctx context.Context, activityIDs []uuid.UUID) (*uuid.UUID, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(activityIDs))
	for i, id := range activityIDs {
		ids[i] = id.String()
	}

	rows, err := r.client.Pool().Query(ctx,
		"SELECT id::text FROM activities WHERE id = ANY($1::uuid[])", ids)
	if err != nil {
		return nil, storeErr("check activity existence", err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("scan activity id", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate activity ids", err)
	}

	for i, id := range ids {
		if _, ok := found[id]; !ok {
			missing := activityIDs[i]
			return &missing, nil
		}
	}
	return nil, nil
}

const activeDaysSQL = `
	SELECT DISTINCT (occurred_at AT TIME ZONE 'UTC')::date AS d
	FROM events
	WHERE user_id = $1::uuid
	ORDER BY d DESC
`

// ActiveDays returns the user's distinct active UTC dates, newest first.
func (r *Repository) ActiveDays(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	rows, err := r.client.Pool().Query(ctx, activeDaysSQL, userID.String())
	if err != nil {
		return nil, storeErr("query active days", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, storeErr("scan active day", err)
		}
		days = append(days, d.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate active days", err)
	}
	return days, nil
}

const eventsInWindowSQL = `
	SELECT id::text, user_id::text, activity_id::text, event_type, payload, occurred_at, received_at
	FROM events
	WHERE user_id = $1::uuid
	  AND event_type = ANY($2)
	  AND occurred_at >= $3
	ORDER BY occurred_at ASC
`

// EventsInWindow returns the user's events of the given types since the
// cutoff, ascending by occurrence time.
func (r *Repository) EventsInWindow(ctx context.Context, userID uuid.UUID, types []string, since time.Time) ([]domain.Event, error) {
	rows, err := r.client.Pool().Query(ctx, eventsInWindowSQL, userID.String(), types, since)
	if err != nil {
		return nil, storeErr("query events in window", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListEvents returns the total match count and one page ordered newest
// first. Optional filters combine with AND via the condition builder.
func (r *Repository) ListEvents(ctx context.Context, userID uuid.UUID, filter repository.EventFilter, limit, offset int) (int, []domain.Event, error) {
	b := &condBuilder{}
	b.add("user_id = $%d::uuid", userID.String())
	if filter.EventType != "" {
		b.add("event_type = $%d", filter.EventType)
	}
	if filter.Since != nil {
		b.add("occurred_at >= $%d", *filter.Since)
	}
	if filter.Until != nil {
		b.add("occurred_at <= $%d", *filter.Until)
	}

	countSQL := "SELECT COUNT(*) FROM events " + b.where()

	var total int
	if err := r.client.Pool().QueryRow(ctx, countSQL, b.args...).Scan(&total); err != nil {
		return 0, nil, storeErr("count events", err)
	}

	pageSQL := fmt.Sprintf(`
		SELECT id::text, user_id::text, activity_id::text, event_type, payload, occurred_at, received_at
		FROM events
		%s
		ORDER BY occurred_at DESC
		LIMIT $%d OFFSET $%d
	`, b.where(), b.next(), b.next()+1)

	args := append(b.args, limit, offset)
	rows, err := r.client.Pool().Query(ctx, pageSQL, args...)
	if err != nil {
		return 0, nil, storeErr("query events page", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return 0, nil, err
	}
	return total, events, nil
}

// Ping checks if the Postgres connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Pool().Ping(ctx)
}

// Close closes the underlying connection pool.
func (r *Repository) Close() {
	r.client.Close()
}

type eventRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanEvents(rows eventRows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var (
			ev             domain.Event
			idText         string
			userIDText     string
			activityIDText *string
			payload        []byte
		)
		if err := rows.Scan(&idText, &userIDText, &activityIDText,
			&ev.EventType, &payload, &ev.OccurredAt, &ev.ReceivedAt); err != nil {
			return nil, storeErr("scan event", err)
		}
		ev.Payload = payload

		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, storeErr("parse event id", err)
		}
		ev.ID = id

		userID, err := uuid.Parse(userIDText)
		if err != nil {
			return nil, storeErr("parse event user id", err)
		}
		ev.UserID = userID

		if activityIDText != nil {
			activityID, err := uuid.Parse(*activityIDText)
			if err != nil {
				return nil, storeErr("parse event activity id", err)
			}
			ev.ActivityID = &activityID
		}

		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate events", err)
	}
	return events, nil
}
