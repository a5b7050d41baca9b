package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/Maho1100/growth-loop-engine/internal/domain"
	"github.com/Maho1100/growth-loop-engine/internal/dto"
)

var (
	testUserID = uuid.MustParse("6fb13c5c-2e1f-4f94-b6d2-01b0a3c2cbb7")
	testTime   = time.Date(2025, time.March, 12, 15, 4, 0, 0, time.UTC)
)

// MockEventService is a mock implementation of service.EventServicer
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) SubmitEvents(ctx context.Context, req *dto.SubmitEventsRequest) (*dto.SubmitEventsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SubmitEventsResponse), args.Error(1)
}

func (m *MockEventService) GetSummary(ctx context.Context, userID uuid.UUID) (*dto.UserSummaryResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserSummaryResponse), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context, userID uuid.UUID, query *dto.ListEventsQuery) (*dto.EventListResponse, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EventListResponse), args.Error(1)
}

func newTestHandler(svc *MockEventService) *Handler {
	return NewHandler(svc, nil, zap.NewNop())
}

func TestHandler_HealthCheck(t *testing.T) {
	handler := newTestHandler(new(MockEventService))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestHandler_SubmitEvents_Created(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	resp := &dto.SubmitEventsResponse{
		Accepted: 1,
		Events:   []dto.EventReceipt{{ID: uuid.New(), ReceivedAt: testTime}},
	}
	mockService.On("SubmitEvents", mock.Anything, mock.AnythingOfType("*dto.SubmitEventsRequest")).Return(resp, nil)

	body := fmt.Sprintf(`{"user_id":%q,"events":[{"event_type":"learning.answer.submitted","payload":{"correct":true}}]}`, testUserID)
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.SubmitEventsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 1, response.Accepted)
	mockService.AssertExpectations(t)
}

func TestHandler_SubmitEvents_EmptyBatchRejected(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	body := fmt.Sprintf(`{"user_id":%q,"events":[]}`, testUserID)
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "SubmitEvents")
}

func TestHandler_SubmitEvents_UserNotFound(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	mockService.On("SubmitEvents", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, testUserID))

	body := fmt.Sprintf(`{"user_id":%q,"events":[{"event_type":"learning.answer.submitted"}]}`, testUserID)
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "user_not_found", response.Error)
}

func TestHandler_SubmitEvents_ValidationDistinctFromNotFound(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	mockService.On("SubmitEvents", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: event_type too short (3 < 5)", domain.ErrValidation))

	body := fmt.Sprintf(`{"user_id":%q,"events":[{"event_type":"a.b"}]}`, testUserID)
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "validation_error", response.Error)
}

func TestHandler_SubmitEvents_StoreFailure(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	mockService.On("SubmitEvents", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: insert event: connection refused", domain.ErrStoreUnavailable))

	body := fmt.Sprintf(`{"user_id":%q,"events":[{"event_type":"learning.answer.submitted"}]}`, testUserID)
	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "store_unavailable", response.Error)
}

func TestHandler_GetUserSummary_Success(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	lastActive := "2025-03-12"
	summary := &dto.UserSummaryResponse{
		UserID:     testUserID,
		ComputedAt: testTime,
		Streak: dto.StreakInfo{
			CurrentDays:    3,
			LongestDays:    7,
			LastActiveDate: &lastActive,
		},
		WeeklyFrequency: dto.WeeklyFrequency{WeeksCounted: 4, AvgDaysPerWeek: 3.5, ThisWeekDays: 2},
		Session:         dto.SessionStats{AvgDurationSec: 420, TotalSessions30d: 12},
	}
	mockService.On("GetSummary", mock.Anything, testUserID).Return(summary, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/"+testUserID.String()+"/summary", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.UserSummaryResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 3, response.Streak.CurrentDays)
	assert.Equal(t, "2025-03-12", *response.Streak.LastActiveDate)
	assert.Equal(t, 3.5, response.WeeklyFrequency.AvgDaysPerWeek)
	mockService.AssertExpectations(t)
}

func TestHandler_GetUserSummary_UnknownUserIsNotFound(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	mockService.On("GetSummary", mock.Anything, testUserID).
		Return(nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, testUserID))

	req := httptest.NewRequest(http.MethodGet, "/v1/users/"+testUserID.String()+"/summary", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetUserSummary_BadUUID(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/not-a-uuid/summary", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetSummary")
}

func TestHandler_ListUserEvents_DefaultsApplied(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	var captured *dto.ListEventsQuery
	resp := &dto.EventListResponse{UserID: testUserID, Total: 3, Limit: 50, Offset: 0}
	mockService.On("ListEvents", mock.Anything, testUserID, mock.AnythingOfType("*dto.ListEventsQuery")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*dto.ListEventsQuery)
		}).
		Return(resp, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/"+testUserID.String()+"/events", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, captured.Limit)
	assert.Equal(t, 0, captured.Offset)
}

func TestHandler_ListUserEvents_LimitOutOfRange(t *testing.T) {
	mockService := new(MockEventService)
	handler := newTestHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/"+testUserID.String()+"/events?limit=500", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListEvents")
}
