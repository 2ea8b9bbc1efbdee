package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/revelation/internal/api/handlers"
	"github.com/dvloznov/revelation/internal/api/middleware"
	"github.com/dvloznov/revelation/internal/external"
	infraBQ "github.com/dvloznov/revelation/internal/infra/bigquery"
	"github.com/dvloznov/revelation/internal/insights"
	"github.com/dvloznov/revelation/internal/jobs"
	"github.com/dvloznov/revelation/internal/jobs/inmemory"
	"github.com/dvloznov/revelation/internal/logger"
	"github.com/dvloznov/revelation/internal/snapshot"
)

func main() {
	// Parse command-line flags
	var (
		port      = flag.String("port", "8080", "HTTP server port")
		projectID = flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID for BigQuery (or set GCP_PROJECT env)")
		bucket    = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for revelation snapshots (or set GCS_BUCKET env)")
		marketKey = flag.String("market-api-key", os.Getenv("ALPHA_VANTAGE_API_KEY"), "Alpha Vantage API key (or set ALPHA_VANTAGE_API_KEY env)")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - snapshot jobs will fail")
	}

	ctx := context.Background()

	// Initialize finance store
	financeStore, err := infraBQ.NewFinanceStore(ctx, *projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create finance store")
	}
	defer financeStore.Close()

	// Initialize insights service with external enrichment
	quotes := external.NewZenQuotesClient(log)
	narrator := external.NewGeminiNarrator(external.DefaultNarrativeModel, log)
	service := insights.NewService(financeStore, quotes, log).WithNarrative(narrator)

	marketClient := external.NewMarketClient(*marketKey, log)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)
	uploader := snapshot.NewUploader(*bucket)

	// Start worker in background to process snapshot jobs
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		snapJob, ok := job.(*jobs.SnapshotJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", snapJob.JobID).
			Str("user_id", snapJob.UserID).
			Msg("Processing snapshot job")

		rev, err := service.CompleteRevelation(ctx, snapJob.UserID)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", snapJob.JobID).
				Str("user_id", snapJob.UserID).
				Msg("Revelation computation failed")
			return err
		}

		uri, err := uploader.Upload(ctx, snapJob.UserID, rev)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", snapJob.JobID).
				Str("user_id", snapJob.UserID).
				Msg("Snapshot upload failed")
			return err
		}
		snapJob.GCSURI = uri

		log.Info().
			Str("job_id", snapJob.JobID).
			Str("gcs_uri", uri).
			Msg("Snapshot job completed successfully")

		return nil
	}

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Initialize handlers
	insightsHandler := handlers.NewInsightsHandler(service, log)
	marketHandler := handlers.NewMarketHandler(marketClient, log)
	snapshotsHandler := handlers.NewSnapshotsHandler(jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	handler := newRouter(insightsHandler, marketHandler, snapshotsHandler, jobsHandler, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Cancel worker context
	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// newRouter assembles the HTTP handler chain. The response cache wraps
// only the insight endpoints: job polling must observe status changes
// as they happen, and /health stays reachable without credentials so
// load balancers can check it.
func newRouter(
	insightsHandler *handlers.InsightsHandler,
	marketHandler *handlers.MarketHandler,
	snapshotsHandler *handlers.SnapshotsHandler,
	jobsHandler *handlers.JobsHandler,
	log zerolog.Logger,
) http.Handler {
	cached := middleware.Cache(256)

	api := http.NewServeMux()

	// Insights endpoints, memoized per user
	api.Handle("GET /api/insights/revelation", cached(http.HandlerFunc(insightsHandler.Revelation)))
	api.Handle("GET /api/insights/score", cached(http.HandlerFunc(insightsHandler.Score)))
	api.Handle("GET /api/insights/complete", cached(http.HandlerFunc(insightsHandler.Complete)))
	api.Handle("GET /api/insights/psychology-facts", cached(http.HandlerFunc(insightsHandler.PsychologyFacts)))

	// Market endpoints
	api.HandleFunc("GET /api/market/sentiment", marketHandler.Sentiment)
	api.HandleFunc("GET /api/market/indicators", marketHandler.Indicators)

	// Snapshot and job endpoints, never cached
	api.HandleFunc("POST /api/snapshots", snapshotsHandler.Create)
	api.HandleFunc("GET /api/jobs", jobsHandler.List)
	api.HandleFunc("GET /api/jobs/{id}", jobsHandler.Get)

	root := http.NewServeMux()
	root.Handle("/api/", middleware.Auth(api))
	root.HandleFunc("GET /health", handlers.Health)

	return middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(root),
			),
		),
	)
}
