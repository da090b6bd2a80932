package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"igengage/pkg/engagement"
	"igengage/pkg/errors"
	"igengage/pkg/logger"
)

// Client-facing error messages
const (
	MsgUsernameRequired = "Username is required"
	MsgNotAccessible    = "Could not fetch data for this profile. Make sure it's public."
	MsgFetchFailed      = "Failed to fetch engagement data"
)

// CheckIDHeader carries the id of the check that produced a response
const CheckIDHeader = "X-Check-ID"

const maxRequestBody = 1 << 16

// Checker runs one engagement check
type Checker interface {
	Check(ctx context.Context, username string) (*engagement.Report, error)
}

// CheckRequest is the body of POST /api/check-engagement
type CheckRequest struct {
	Username string `json:"username"`
}

// CheckResponse is the 200 body of POST /api/check-engagement
type CheckResponse struct {
	Followers      int64   `json:"followers"`
	AvgLikes       int64   `json:"avg_likes"`
	AvgComments    int64   `json:"avg_comments"`
	EngagementRate float64 `json:"engagement_rate"`
}

// NewCheckResponse builds the API body from a report
func NewCheckResponse(r *engagement.Report) CheckResponse {
	return CheckResponse{
		Followers:      r.Followers,
		AvgLikes:       r.Result.AverageLikes,
		AvgComments:    r.Result.AverageComments,
		EngagementRate: r.Result.EngagementRate,
	}
}

// MetricsSource serves the metrics exposition
type MetricsSource interface {
	Handler() http.Handler
}

// Handler handles the engagement API routes
type Handler struct {
	checker Checker
	metrics MetricsSource
	logger  logger.Logger
}

// NewHandler creates a new engagement handler. metrics may be nil.
func NewHandler(checker Checker, mw MetricsSource, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Handler{checker: checker, metrics: mw, logger: log}
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/check-engagement", h.CheckEngagement())
	r.Get("/health", h.Health())
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
}

// CheckEngagement handles POST /api/check-engagement
func (h *Handler) CheckEngagement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckRequest
		body := http.MaxBytesReader(w, r.Body, maxRequestBody)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			badRequest(w, MsgUsernameRequired)
			return
		}

		report, err := h.checker.Check(r.Context(), req.Username)
		if err != nil {
			h.writeCheckError(w, r, err)
			return
		}

		w.Header().Set(CheckIDHeader, report.ID)
		ok(w, NewCheckResponse(report))
	}
}

func (h *Handler) writeCheckError(w http.ResponseWriter, r *http.Request, err error) {
	log := h.logger.WithError(err).WithField("request_id", middleware.GetReqID(r.Context()))

	switch {
	case errors.Is(err, errors.ErrEmptyUsername):
		badRequest(w, MsgUsernameRequired)
	case errors.Is(err, errors.ErrNotAccessible):
		notFound(w, MsgNotAccessible)
	case errors.Is(err, errors.ErrInvalidSnapshot):
		log.Error("Engagement calculation received an invalid snapshot")
		internalError(w, MsgFetchFailed)
	default:
		log.WithField("error_type", string(errors.TypeOf(err))).Error("Engagement check failed")
		internalError(w, MsgFetchFailed)
	}
}

// Health handles GET /health
func (h *Handler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok(w, map[string]string{"status": "healthy"})
	}
}
