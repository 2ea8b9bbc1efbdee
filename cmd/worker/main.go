package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/revelation/internal/external"
	infraBQ "github.com/dvloznov/revelation/internal/infra/bigquery"
	"github.com/dvloznov/revelation/internal/insights"
	"github.com/dvloznov/revelation/internal/jobs"
	"github.com/dvloznov/revelation/internal/jobs/inmemory"
	"github.com/dvloznov/revelation/internal/logger"
	"github.com/dvloznov/revelation/internal/snapshot"
)

// Standalone snapshot worker: on every tick it enqueues a snapshot job
// per configured user and processes the queue in-process. Runs alongside
// the API server when snapshot traffic should not share its capacity.
func main() {
	var (
		users     = flag.String("users", os.Getenv("SNAPSHOT_USERS"), "comma-separated user IDs to snapshot (or set SNAPSHOT_USERS env)")
		interval  = flag.Duration("interval", 24*time.Hour, "time between snapshot rounds")
		once      = flag.Bool("once", false, "run a single round and exit")
		projectID = flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID for BigQuery (or set GCP_PROJECT env)")
		bucket    = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for revelation snapshots (or set GCS_BUCKET env)")
	)
	flag.Parse()

	log := logger.New()

	userIDs := splitUsers(*users)
	if len(userIDs) == 0 {
		log.Fatal().Msg("No users configured - pass -users or set SNAPSHOT_USERS")
	}
	if *bucket == "" {
		log.Fatal().Msg("No GCS bucket configured - pass -bucket or set GCS_BUCKET")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	financeStore, err := infraBQ.NewFinanceStore(ctx, *projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create finance store")
	}
	defer financeStore.Close()

	quotes := external.NewZenQuotesClient(log)
	narrator := external.NewGeminiNarrator(external.DefaultNarrativeModel, log)
	service := insights.NewService(financeStore, quotes, log).WithNarrative(narrator)
	uploader := snapshot.NewUploader(*bucket)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(len(userIDs)*2, jobStore)

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		snapJob, ok := job.(*jobs.SnapshotJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		rev, err := service.CompleteRevelation(ctx, snapJob.UserID)
		if err != nil {
			return fmt.Errorf("computing revelation for %s: %w", snapJob.UserID, err)
		}

		uri, err := uploader.Upload(ctx, snapJob.UserID, rev)
		if err != nil {
			return fmt.Errorf("uploading snapshot for %s: %w", snapJob.UserID, err)
		}
		snapJob.GCSURI = uri

		log.Info().
			Str("job_id", snapJob.JobID).
			Str("user_id", snapJob.UserID).
			Str("gcs_uri", uri).
			Msg("Snapshot stored")

		return nil
	}

	if err := jobQueue.Start(ctx, jobHandler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job queue")
	}

	enqueueRound := func() {
		for _, userID := range userIDs {
			job := &jobs.SnapshotJob{UserID: userID}
			if err := jobQueue.PublishSnapshot(ctx, job); err != nil {
				log.Error().Err(err).Str("user_id", userID).Msg("Failed to enqueue snapshot job")
				continue
			}
			log.Info().Str("job_id", job.JobID).Str("user_id", userID).Msg("Snapshot job enqueued")
		}
	}

	log.Info().
		Int("users", len(userIDs)).
		Dur("interval", *interval).
		Msg("Starting snapshot worker")

	enqueueRound()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	if *once {
		waitForDrain(ctx, jobStore, log)
	} else {
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()

	loop:
		for {
			select {
			case <-ticker.C:
				enqueueRound()
			case <-quit:
				break loop
			}
		}
	}

	log.Info().Msg("Shutting down worker...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Worker exited")
}

// waitForDrain polls the job store until every job reaches a terminal
// status, bounded at five minutes.
func waitForDrain(ctx context.Context, store jobs.JobStore, log zerolog.Logger) {
	deadline := time.Now().Add(5 * time.Minute)
	for time.Now().Before(deadline) {
		list, err := store.ListJobs(ctx, jobs.JobFilter{})
		if err != nil {
			return
		}

		pending := 0
		for _, job := range list {
			switch job.Status {
			case jobs.JobStatusCompleted, jobs.JobStatusFailed:
			default:
				pending++
			}
		}
		if pending == 0 {
			return
		}

		time.Sleep(500 * time.Millisecond)
	}
	log.Warn().Msg("Timed out waiting for snapshot jobs to finish")
}

func splitUsers(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
