package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/revelation/internal/api/handlers"
	"github.com/dvloznov/revelation/internal/domain"
	"github.com/dvloznov/revelation/internal/external"
	"github.com/dvloznov/revelation/internal/insights"
	"github.com/dvloznov/revelation/internal/jobs"
	"github.com/dvloznov/revelation/internal/jobs/inmemory"
	"github.com/dvloznov/revelation/internal/store/memory"
)

func testLog() zerolog.Logger {
	return zerolog.New(&bytes.Buffer{})
}

// testRouter builds the same handler chain main serves, backed by
// in-memory stores, and exposes the job store for direct mutation.
func testRouter(t *testing.T) (http.Handler, jobs.JobStore) {
	t.Helper()

	now := time.Now().UTC()
	st := memory.NewStore()
	st.AddTransactions(
		domain.Transaction{ID: "t1", UserID: "u1", Date: now.AddDate(0, 0, -30), Amount: 3000, Category: "salary"},
		domain.Transaction{ID: "t2", UserID: "u1", Date: now.AddDate(0, 0, -10), Amount: -200, Category: "dining"},
	)

	service := insights.NewService(st, nil, testLog())
	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(10, jobStore)
	t.Cleanup(func() { queue.Close() })

	handler := newRouter(
		handlers.NewInsightsHandler(service, testLog()),
		handlers.NewMarketHandler(external.NewMarketClient("", testLog()), testLog()),
		handlers.NewSnapshotsHandler(queue, testLog()),
		handlers.NewJobsHandler(jobStore, testLog()),
		testLog(),
	)
	return handler, jobStore
}

func doRequest(handler http.Handler, method, target, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthWithoutCredentials(t *testing.T) {
	handler, _ := testRouter(t)

	rec := doRequest(handler, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an unauthenticated health check", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"status":"ok"`)) {
		t.Errorf("body = %s, want an ok status", rec.Body.String())
	}
}

func TestRouterAPIRequiresCredentials(t *testing.T) {
	handler, _ := testRouter(t)

	rec := doRequest(handler, http.MethodGet, "/api/jobs", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without X-User-ID", rec.Code)
	}
}

func TestRouterJobPollingSeesStatusChanges(t *testing.T) {
	handler, jobStore := testRouter(t)
	ctx := context.Background()

	job := &jobs.SnapshotJob{
		JobID:     "j1",
		UserID:    "u1",
		Status:    jobs.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := jobStore.SaveJob(ctx, job); err != nil {
		t.Fatalf("saving job: %v", err)
	}

	poll := func() jobs.JobStatus {
		rec := doRequest(handler, http.MethodGet, "/api/jobs/j1", "u1")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var got jobs.SnapshotJob
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		return got.Status
	}

	if status := poll(); status != jobs.JobStatusPending {
		t.Fatalf("first poll status = %q, want pending", status)
	}

	if err := jobStore.UpdateJobStatus(ctx, "j1", jobs.JobStatusCompleted, ""); err != nil {
		t.Fatalf("updating job status: %v", err)
	}

	if status := poll(); status != jobs.JobStatusCompleted {
		t.Errorf("second poll status = %q, want completed after the update", status)
	}
}

func TestRouterCachesInsightsOnly(t *testing.T) {
	handler, _ := testRouter(t)

	first := doRequest(handler, http.MethodGet, "/api/insights/score", "u1")
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", first.Code, first.Body.String())
	}
	if first.Header().Get("X-Cache") == "HIT" {
		t.Error("first insights request should miss the cache")
	}

	second := doRequest(handler, http.MethodGet, "/api/insights/score", "u1")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Error("second insights request should be served from the cache")
	}

	listJobs := doRequest(handler, http.MethodGet, "/api/jobs", "u1")
	again := doRequest(handler, http.MethodGet, "/api/jobs", "u1")
	if listJobs.Code != http.StatusOK || again.Code != http.StatusOK {
		t.Fatalf("job list status = %d then %d", listJobs.Code, again.Code)
	}
	if again.Header().Get("X-Cache") == "HIT" {
		t.Error("job listing must never be served from the cache")
	}
}
