package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Maho1100/growth-loop-engine/internal/dto"
)

// EventServicer defines the interface for event service operations
type EventServicer interface {
	SubmitEvents(ctx context.Context, req *dto.SubmitEventsRequest) (*dto.SubmitEventsResponse, error)
	GetSummary(ctx context.Context, userID uuid.UUID) (*dto.UserSummaryResponse, error)
	ListEvents(ctx context.Context, userID uuid.UUID, query *dto.ListEventsQuery) (*dto.EventListResponse, error)
}
