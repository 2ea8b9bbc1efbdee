package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/revelation/internal/domain"
	"github.com/dvloznov/revelation/internal/external"
	infraBQ "github.com/dvloznov/revelation/internal/infra/bigquery"
	"github.com/dvloznov/revelation/internal/insights"
	"github.com/dvloznov/revelation/internal/logger"
	"github.com/dvloznov/revelation/internal/snapshot"
	"github.com/dvloznov/revelation/internal/store"
	"github.com/dvloznov/revelation/internal/store/memory"
)

// One-shot insight computation for a single user, JSON to stdout. With
// -fixture it runs against generated in-memory data, which makes it a
// quick smoke check that needs no GCP credentials.
func main() {
	var (
		userID    = flag.String("user", "", "user ID to compute insights for")
		mode      = flag.String("mode", "complete", "what to compute: insights | score | complete")
		fixture   = flag.Bool("fixture", false, "use generated in-memory data instead of BigQuery")
		projectID = flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID for BigQuery (or set GCP_PROJECT env)")
		export    = flag.String("export", "", "GCS bucket to export the complete revelation to (optional)")
	)
	flag.Parse()

	log := logger.New()

	if *userID == "" {
		log.Fatal().Msg("-user is required")
	}

	ctx := context.Background()

	var st store.FinanceStore
	if *fixture {
		st = fixtureStore(*userID)
	} else {
		bqStore, err := infraBQ.NewFinanceStore(ctx, *projectID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create finance store")
		}
		defer bqStore.Close()
		st = bqStore
	}

	service := insights.NewService(st, external.NewZenQuotesClient(log), log)

	var result interface{}
	switch *mode {
	case "insights":
		list, err := service.GenerateSmartInsights(ctx, *userID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate insights")
		}
		result = list

	case "score":
		score, err := service.CalculateRevelationScore(ctx, *userID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to calculate score")
		}
		result = score

	case "complete":
		rev, err := service.CompleteRevelation(ctx, *userID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build complete revelation")
		}
		result = rev

		if *export != "" {
			uri, err := snapshot.NewUploader(*export).Upload(ctx, *userID, rev)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to export revelation")
			}
			log.Info().Str("gcs_uri", uri).Msg("Revelation exported")
		}

	default:
		log.Fatal().Str("mode", *mode).Msg("Unknown mode")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
	fmt.Println(string(out))
}

// fixtureStore builds a demo dataset: a salary, a rising dining spend, a
// handful of subscriptions, a stretch goal and a stressful week. Enough
// to trigger most generators.
func fixtureStore(userID string) *memory.Store {
	now := time.Now().UTC()
	st := memory.NewStore()

	st.AddTransactions(
		domain.Transaction{ID: "t1", UserID: userID, Date: now.AddDate(0, 0, -50), Amount: 3000, Category: "salary"},
		domain.Transaction{ID: "t2", UserID: userID, Date: now.AddDate(0, 0, -20), Amount: 3000, Category: "salary"},
		domain.Transaction{ID: "t3", UserID: userID, Date: now.AddDate(0, 0, -45), Amount: -400, Category: "dining"},
		domain.Transaction{ID: "t4", UserID: userID, Date: now.AddDate(0, 0, -15), Amount: -620, Category: "dining"},
		domain.Transaction{ID: "t5", UserID: userID, Date: now.AddDate(0, 0, -40), Amount: -900, Category: "rent"},
		domain.Transaction{ID: "t6", UserID: userID, Date: now.AddDate(0, 0, -10), Amount: -900, Category: "rent"},
		domain.Transaction{ID: "t7", UserID: userID, Date: now.AddDate(0, 0, -12), Amount: -15, Category: "entertainment", Description: "Video subscription"},
		domain.Transaction{ID: "t8", UserID: userID, Date: now.AddDate(0, 0, -11), Amount: -10, Category: "entertainment", Description: "Music subscription"},
		domain.Transaction{ID: "t9", UserID: userID, Date: now.AddDate(0, 0, -9), Amount: -8, Category: "software", Description: "Cloud storage subscription"},
		domain.Transaction{ID: "t10", UserID: userID, Date: now.AddDate(0, 0, -8), Amount: -12, Category: "fitness", Description: "Gym subscription"},
		domain.Transaction{ID: "t11", UserID: userID, Date: now.AddDate(0, 0, -5), Amount: -180, Category: "shopping"},
		domain.Transaction{ID: "t12", UserID: userID, Date: now.AddDate(0, 0, -3), Amount: -45, Category: "shopping"},
	)

	deadline := now.AddDate(0, 3, 0)
	st.AddGoals(
		domain.Goal{ID: "g1", UserID: userID, Title: "Emergency fund", TargetAmount: 10000, CurrentAmount: 2500, Deadline: &deadline, Status: domain.GoalStatusActive},
		domain.Goal{ID: "g2", UserID: userID, Title: "Holiday", TargetAmount: 1500, CurrentAmount: 1300, Status: domain.GoalStatusActive},
	)

	st.AddEmotions(
		domain.Emotion{ID: "e1", UserID: userID, Date: now.AddDate(0, 0, -5), Mood: "stressed"},
		domain.Emotion{ID: "e2", UserID: userID, Date: now.AddDate(0, 0, -3), Mood: "anxious"},
		domain.Emotion{ID: "e3", UserID: userID, Date: now.AddDate(0, 0, -2), Mood: "happy"},
	)

	return st
}
