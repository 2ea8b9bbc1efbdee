package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/revelation/internal/api/middleware"
	"github.com/dvloznov/revelation/internal/external"
	"github.com/dvloznov/revelation/internal/insights"
	"github.com/dvloznov/revelation/internal/jobs"
)

// InsightsHandler serves the insight and scoring endpoints.
type InsightsHandler struct {
	service *insights.Service
	log     zerolog.Logger
}

// NewInsightsHandler creates an insights handler.
func NewInsightsHandler(service *insights.Service, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{service: service, log: log}
}

// Revelation handles GET /api/insights/revelation. It returns the
// enriched insight list, critical first.
func (h *InsightsHandler) Revelation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	list, err := h.service.GenerateSmartInsights(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to generate insights")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to generate insights")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"insights": list,
		"count":    len(list),
	})
}

// Score handles GET /api/insights/score. It returns the revelation score
// with its full breakdown.
func (h *InsightsHandler) Score(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	score, err := h.service.CalculateRevelationScore(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to calculate score")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to calculate score")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, score)
}

// Complete handles GET /api/insights/complete. It returns the full
// revelation bundle for the dashboard.
func (h *InsightsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	rev, err := h.service.CompleteRevelation(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to build complete revelation")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build complete revelation")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, rev)
}

// PsychologyFacts handles GET /api/insights/psychology-facts. The
// optional category query parameter narrows the selection.
func (h *InsightsHandler) PsychologyFacts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	facts := external.PsychologyFacts(category)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"facts": facts,
		"count": len(facts),
	})
}

// MarketHandler serves the market data endpoints.
type MarketHandler struct {
	client *external.MarketClient
	log    zerolog.Logger
}

// NewMarketHandler creates a market data handler.
func NewMarketHandler(client *external.MarketClient, log zerolog.Logger) *MarketHandler {
	return &MarketHandler{client: client, log: log}
}

// Sentiment handles GET /api/market/sentiment.
func (h *MarketHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.client.Sentiment(r.Context()))
}

// Indicators handles GET /api/market/indicators.
func (h *MarketHandler) Indicators(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.client.Indicators())
}

// SnapshotsHandler enqueues revelation snapshot jobs.
type SnapshotsHandler struct {
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewSnapshotsHandler creates a snapshots handler.
func NewSnapshotsHandler(publisher jobs.Publisher, log zerolog.Logger) *SnapshotsHandler {
	return &SnapshotsHandler{publisher: publisher, log: log}
}

// Create handles POST /api/snapshots. It enqueues an asynchronous
// snapshot of the caller's complete revelation and returns 202 with the
// job ID for polling.
func (h *SnapshotsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	job := &jobs.SnapshotJob{
		UserID:    userID,
		Status:    jobs.JobStatusPending,
		CreatedAt: time.Now(),
	}

	if err := h.publisher.PublishSnapshot(r.Context(), job); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to enqueue snapshot job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue snapshot job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("user_id", userID).Msg("Snapshot job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// JobsHandler serves job status queries.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// List handles GET /api/jobs. Results are scoped to the caller; an
// optional status query parameter filters further.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := jobs.JobFilter{
		UserID: middleware.UserID(r.Context()),
		Status: jobs.JobStatus(r.URL.Query().Get("status")),
		Limit:  50,
	}

	list, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// Get handles GET /api/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Missing job ID")
		return
	}

	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	if job.UserID != middleware.UserID(r.Context()) {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
