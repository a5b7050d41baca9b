package consumer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Maho1100/growth-loop-engine/internal/domain"
	"github.com/Maho1100/growth-loop-engine/internal/metrics"
	"github.com/Maho1100/growth-loop-engine/internal/repository"
)

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// BatchWriter accumulates envelopes and writes them to the event store,
// one transactional append per user.
type BatchWriter struct {
	store   repository.EventStore
	config  BatchWriterConfig
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewBatchWriter creates a new batch writer
func NewBatchWriter(store repository.EventStore, config BatchWriterConfig, m *metrics.Metrics, log *zap.Logger) *BatchWriter {
	return &BatchWriter{
		store:   store,
		config:  config,
		metrics: m,
		log:     log,
	}
}

// Start begins processing envelopes, batching, and writing to the store
func (w *BatchWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*Envelope, 0, w.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Batch writer shutting down")
			if len(batch) > 0 {
				w.log.Info("Flushing final batch", zap.Int("envelope_count", len(batch)))
				w.processBatch(ctx, batch)
			}
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Batch writer input channel closed")
				if len(batch) > 0 {
					w.log.Info("Flushing final batch", zap.Int("envelope_count", len(batch)))
					w.processBatch(ctx, batch)
				}
				return
			}

			batch = append(batch, envelope)

			if len(batch) >= w.config.MaxBatchSize {
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
			}
		}
	}
}

// processBatch groups envelopes per user and appends each group in its own
// transaction, so the all-or-nothing guarantee holds per user batch.
func (w *BatchWriter) processBatch(ctx context.Context, envelopes []*Envelope) {
	groups := make(map[uuid.UUID][]*Envelope)
	var order []uuid.UUID
	for _, env := range envelopes {
		userID := env.Event.UserID
		if _, ok := groups[userID]; !ok {
			order = append(order, userID)
		}
		groups[userID] = append(groups[userID], env)
	}

	for _, userID := range order {
		w.writeUserBatch(ctx, userID, groups[userID])
	}
}

func (w *BatchWriter) writeUserBatch(ctx context.Context, userID uuid.UUID, envelopes []*Envelope) {
	exists, err := w.store.UserExists(ctx, userID)
	if err != nil {
		w.log.Error("Failed to check user existence",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		w.nackAll(ctx, envelopes)
		return
	}
	if !exists {
		w.log.Warn("Dropping events for unknown user",
			zap.String("user_id", userID.String()),
			zap.Int("event_count", len(envelopes)))
		w.metrics.RecordRejected(metrics.SourceQueue, len(envelopes))
		w.ackAll(ctx, envelopes)
		return
	}

	activityIDs := collectActivityIDs(envelopes)
	if len(activityIDs) > 0 {
		missing, err := w.store.MissingActivity(ctx, activityIDs)
		if err != nil {
			w.log.Error("Failed to check activity existence",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			w.nackAll(ctx, envelopes)
			return
		}
		if missing != nil {
			w.log.Warn("Dropping events referencing unknown activity",
				zap.String("user_id", userID.String()),
				zap.String("activity_id", missing.String()),
				zap.Int("event_count", len(envelopes)))
			w.metrics.RecordRejected(metrics.SourceQueue, len(envelopes))
			w.ackAll(ctx, envelopes)
			return
		}
	}

	events := make([]domain.Event, len(envelopes))
	for i, env := range envelopes {
		events[i] = *env.Event
	}

	if _, err := w.store.AppendBatch(ctx, userID, events); err != nil {
		w.log.Error("Failed to append batch",
			zap.String("user_id", userID.String()),
			zap.Int("event_count", len(events)),
			zap.Error(err))
		w.nackAll(ctx, envelopes)
		return
	}

	w.metrics.RecordIngested(metrics.SourceQueue, len(events))
	w.log.Info("Appended events from queue",
		zap.String("user_id", userID.String()),
		zap.Int("event_count", len(events)))
	w.ackAll(ctx, envelopes)
}

// ackAll acknowledges all envelopes (deletes from SQS)
func (w *BatchWriter) ackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope", zap.Error(err))
		}
	}
}

// nackAll negatively acknowledges all envelopes (leaves them in SQS for retry)
func (w *BatchWriter) nackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Nack(ctx); err != nil {
			w.log.Error("Failed to nack envelope", zap.Error(err))
		}
	}
}

func collectActivityIDs(envelopes []*Envelope) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, env := range envelopes {
		if env.Event.ActivityID == nil {
			continue
		}
		if _, ok := seen[*env.Event.ActivityID]; ok {
			continue
		}
		seen[*env.Event.ActivityID] = struct{}{}
		ids = append(ids, *env.Event.ActivityID)
	}
	return ids
}
