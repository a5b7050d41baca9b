package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Maho1100/growth-loop-engine/docs"
	"github.com/Maho1100/growth-loop-engine/internal/domain"
	"github.com/Maho1100/growth-loop-engine/internal/dto"
	"github.com/Maho1100/growth-loop-engine/internal/service"
)

type Handler struct {
	eventService service.EventServicer
	router       *gin.Engine
	log          *zap.Logger
}

// NewHandler wires the HTTP routes. The prometheus gatherer may be nil when
// the metrics endpoint is not wanted (tests).
func NewHandler(eventService service.EventServicer, gatherer prometheus.Gatherer, log *zap.Logger) *Handler {
	h := &Handler{
		eventService: eventService,
		router:       gin.Default(),
		log:          log,
	}

	h.registerRoutes(gatherer)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes(gatherer prometheus.Gatherer) {
	h.router.GET("/health", h.healthCheck)

	v1 := h.router.Group("/v1")
	v1.POST("/events", h.submitEvents)
	v1.GET("/users/:user_id/summary", h.getUserSummary)
	v1.GET("/users/:user_id/events", h.listUserEvents)

	if gatherer != nil {
		h.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// submitEvents handles POST /v1/events
// @Summary Submit a batch of events
// @Description Atomically append a batch of behavioral events for one user. Any invalid event rejects the whole batch before the first write.
// @Tags events
// @Accept json
// @Produce json
// @Param batch body dto.SubmitEventsRequest true "Event batch"
// @Success 201 {object} dto.SubmitEventsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/events [post]
func (h *Handler) submitEvents(c *gin.Context) {
	var req dto.SubmitEventsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid event batch request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.eventService.SubmitEvents(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, zap.String("user_id", req.UserID.String()))
		return
	}

	h.log.Info("Event batch accepted",
		zap.String("user_id", req.UserID.String()),
		zap.Int("accepted", resp.Accepted))

	c.JSON(http.StatusCreated, resp)
}

// getUserSummary handles GET /v1/users/:user_id/summary
// @Summary Get a user's engagement summary
// @Description Compute streak, weekly frequency and session statistics from the user's event history.
// @Tags users
// @Produce json
// @Param user_id path string true "User ID" format(uuid)
// @Success 200 {object} dto.UserSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/users/{user_id}/summary [get]
func (h *Handler) getUserSummary(c *gin.Context) {
	userID, ok := h.userIDParam(c)
	if !ok {
		return
	}

	resp, err := h.eventService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, zap.String("user_id", userID.String()))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listUserEvents handles GET /v1/users/:user_id/events
// @Summary List a user's events
// @Description Return one page of the user's events, newest first, with optional type and time filters.
// @Tags users
// @Produce json
// @Param user_id path string true "User ID" format(uuid)
// @Param event_type query string false "Exact event type filter"
// @Param since query string false "Lower bound on occurred_at (RFC 3339)"
// @Param until query string false "Upper bound on occurred_at (RFC 3339)"
// @Param limit query int false "Page size, 1..100" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.EventListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/users/{user_id}/events [get]
func (h *Handler) listUserEvents(c *gin.Context) {
	userID, ok := h.userIDParam(c)
	if !ok {
		return
	}

	var query dto.ListEventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.log.Warn("Invalid list events query", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.eventService.ListEvents(c.Request.Context(), userID, &query)
	if err != nil {
		h.respondError(c, err, zap.String("user_id", userID.String()))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) userIDParam(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "user_id must be a valid UUID",
		})
		return uuid.Nil, false
	}
	return userID, true
}

// respondError maps the domain error taxonomy onto HTTP status codes:
// unknown user is a 404, unknown activity and failed validation are 400s
// with distinct error codes, everything else is a store failure.
func (h *Handler) respondError(c *gin.Context, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "user_not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrActivityNotFound):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "activity_not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		h.log.Error("Event store failure", append(fields, zap.Error(err))...)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "store_unavailable",
			Message: "event store is unavailable",
		})
	}
}
