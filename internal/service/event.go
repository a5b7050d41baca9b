package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Maho1100/growth-loop-engine/internal/analytics"
	"github.com/Maho1100/growth-loop-engine/internal/domain"
	"github.com/Maho1100/growth-loop-engine/internal/dto"
	"github.com/Maho1100/growth-loop-engine/internal/metrics"
	"github.com/Maho1100/growth-loop-engine/internal/repository"
	"github.com/Maho1100/growth-loop-engine/internal/validation"
)

// EventService orchestrates ingestion and summary computation against the
// event store. It holds no state between requests; every summary is
// recomputed from the store at call time.
type EventService struct {
	store   repository.EventStore
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewEventService creates a new event service
func NewEventService(store repository.EventStore, m *metrics.Metrics, log *zap.Logger) *EventService {
	return &EventService{
		store:   store,
		metrics: m,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SubmitEvents validates the whole batch, checks that the user and every
// referenced activity exist, and only then writes all events in a single
// transaction. Any failure rejects the entire batch before the first write.
func (s *EventService) SubmitEvents(ctx context.Context, req *dto.SubmitEventsRequest) (*dto.SubmitEventsResponse, error) {
	payloads := make([][]byte, len(req.Events))
	for i, ev := range req.Events {
		if err := validation.EventType(ev.EventType); err != nil {
			s.metrics.RecordRejected(metrics.SourceAPI, len(req.Events))
			s.log.Warn("Event type validation failed",
				zap.Int("index", i),
				zap.Error(err))
			return nil, err
		}

		payload := ev.Payload
		if payload == nil {
			payload = map[string]interface{}{}
		}
		serialized, err := json.Marshal(payload)
		if err != nil {
			s.metrics.RecordRejected(metrics.SourceAPI, len(req.Events))
			return nil, fmt.Errorf("%w: payload is not serializable: %v", domain.ErrValidation, err)
		}
		if err := validation.PayloadSize(serialized); err != nil {
			s.metrics.RecordRejected(metrics.SourceAPI, len(req.Events))
			s.log.Warn("Payload validation failed",
				zap.Int("index", i),
				zap.Error(err))
			return nil, err
		}
		payloads[i] = serialized
	}

	if err := s.requireUser(ctx, req.UserID); err != nil {
		s.metrics.RecordRejected(metrics.SourceAPI, len(req.Events))
		return nil, err
	}

	activityIDs := distinctActivityIDs(req.Events)
	if len(activityIDs) > 0 {
		missing, err := s.store.MissingActivity(ctx, activityIDs)
		if err != nil {
			return nil, err
		}
		if missing != nil {
			s.metrics.RecordRejected(metrics.SourceAPI, len(req.Events))
			s.log.Warn("Batch references unknown activity",
				zap.String("activity_id", missing.String()))
			return nil, fmt.Errorf("%w: %s", domain.ErrActivityNotFound, missing)
		}
	}

	events := make([]domain.Event, len(req.Events))
	for i, ev := range req.Events {
		occurredAt := s.now()
		if ev.OccurredAt != nil {
			occurredAt = ev.OccurredAt.UTC()
		}
		events[i] = domain.Event{
			UserID:     req.UserID,
			ActivityID: ev.ActivityID,
			EventType:  ev.EventType,
			Payload:    payloads[i],
			OccurredAt: occurredAt,
		}
	}

	receipts, err := s.store.AppendBatch(ctx, req.UserID, events)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordIngested(metrics.SourceAPI, len(receipts))
	s.log.Info("Event batch accepted",
		zap.String("user_id", req.UserID.String()),
		zap.Int("accepted", len(receipts)))

	resp := &dto.SubmitEventsResponse{
		Accepted: len(receipts),
		Events:   make([]dto.EventReceipt, len(receipts)),
	}
	for i, receipt := range receipts {
		resp.Events[i] = dto.EventReceipt{ID: receipt.ID, ReceivedAt: receipt.ReceivedAt}
	}
	return resp, nil
}

// GetSummary fans out to the three calculators against the current store
// state and assembles one snapshot stamped with its own time.
func (s *EventService) GetSummary(ctx context.Context, userID uuid.UUID) (*dto.UserSummaryResponse, error) {
	started := time.Now()

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now()

	activeDays, err := s.store.ActiveDays(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessionTypes := []string{domain.EventTypeSessionStarted, domain.EventTypeSessionEnded}
	sessionSince := now.AddDate(0, 0, -analytics.SessionWindowDays)
	sessionEvents, err := s.store.EventsInWindow(ctx, userID, sessionTypes, sessionSince)
	if err != nil {
		return nil, err
	}

	streak := analytics.Streak(activeDays)
	weekly := analytics.WeeklyFrequency(activeDays, now)
	sessions := analytics.Sessions(sessionEvents)

	var lastActive *string
	if streak.LastActiveDate != nil {
		formatted := streak.LastActiveDate.Format("2006-01-02")
		lastActive = &formatted
	}

	s.metrics.ObserveSummaryDuration(time.Since(started).Seconds())

	return &dto.UserSummaryResponse{
		UserID:     userID,
		ComputedAt: now,
		Streak: dto.StreakInfo{
			CurrentDays:    streak.CurrentDays,
			LongestDays:    streak.LongestDays,
			LastActiveDate: lastActive,
		},
		WeeklyFrequency: dto.WeeklyFrequency{
			WeeksCounted:   weekly.WeeksCounted,
			AvgDaysPerWeek: weekly.AvgDaysPerWeek,
			ThisWeekDays:   weekly.ThisWeekDays,
		},
		Session: dto.SessionStats{
			AvgDurationSec:   sessions.AvgDurationSec,
			TotalSessions30d: sessions.TotalSessions30d,
		},
	}, nil
}

// ListEvents returns one page of the user's events, newest first.
func (s *EventService) ListEvents(ctx context.Context, userID uuid.UUID, query *dto.ListEventsQuery) (*dto.EventListResponse, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	filter := repository.EventFilter{
		EventType: query.EventType,
		Since:     query.Since,
		Until:     query.Until,
	}
	total, events, err := s.store.ListEvents(ctx, userID, filter, query.Limit, query.Offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.EventListResponse{
		UserID: userID,
		Total:  total,
		Limit:  query.Limit,
		Offset: query.Offset,
		Events: make([]dto.EventDetail, len(events)),
	}
	for i, ev := range events {
		detail := dto.EventDetail{
			ID:         ev.ID,
			EventType:  ev.EventType,
			ActivityID: ev.ActivityID,
			OccurredAt: ev.OccurredAt,
			ReceivedAt: ev.ReceivedAt,
		}
		if len(ev.Payload) > 0 {
			if err := json.Unmarshal(ev.Payload, &detail.Payload); err != nil {
				s.log.Warn("Stored payload is not valid JSON",
					zap.String("event_id", ev.ID.String()),
					zap.Error(err))
			}
		}
		resp.Events[i] = detail
	}
	return resp, nil
}

func (s *EventService) requireUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

func distinctActivityIDs(events []dto.EventInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, ev := range events {
		if ev.ActivityID == nil {
			continue
		}
		if _, ok := seen[*ev.ActivityID]; ok {
			continue
		}
		seen[*ev.ActivityID] = struct{}{}
		ids = append(ids, *ev.ActivityID)
	}
	return ids
}
