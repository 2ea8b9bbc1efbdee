package insights

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/revelation/internal/domain"
	"github.com/dvloznov/revelation/internal/store"
)

// QuoteProvider fetches one motivational quote for a category. Providers
// may fail; the enricher treats any error as a cue to use the local
// fallback pool.
type QuoteProvider interface {
	RandomQuote(ctx context.Context, category Category) (Quote, error)
}

// NarrativeGenerator turns a complete revelation into a short prose
// summary. Strictly best-effort: errors leave the narrative empty.
type NarrativeGenerator interface {
	Narrative(ctx context.Context, rev CompleteRevelation) (string, error)
}

const (
	quoteTimeout     = 5 * time.Second
	narrativeTimeout = 10 * time.Second
)

// Service is the insights orchestrator. It is constructed explicitly with
// its collaborators injected - no package-level singleton - so tests can
// swap the store, the quote provider, the clock and the enrichment coin.
type Service struct {
	store     store.FinanceStore
	quotes    QuoteProvider
	narrative NarrativeGenerator
	log       zerolog.Logger
	cfg       Thresholds
	now       func() time.Time
	coin      func() bool
}

// NewService creates a Service with production defaults: the standard
// clock and a fair coin for quote enrichment. quotes may be nil, in which
// case enrichment always uses the local pools.
func NewService(st store.FinanceStore, quotes QuoteProvider, log zerolog.Logger) *Service {
	return &Service{
		store:  st,
		quotes: quotes,
		log:    log,
		cfg:    DefaultThresholds(),
		now:    time.Now,
		coin:   func() bool { return rand.Float64() > 0.5 },
	}
}

// WithNarrative attaches a narrative generator. Returns s for chaining.
func (s *Service) WithNarrative(n NarrativeGenerator) *Service {
	s.narrative = n
	return s
}

// WithClock replaces the clock. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithCoin replaces the enrichment coin flip. For tests.
func (s *Service) WithCoin(coin func() bool) *Service {
	s.coin = coin
	return s
}

// WithThresholds replaces the policy constants.
func (s *Service) WithThresholds(cfg Thresholds) *Service {
	s.cfg = cfg
	return s
}

// GenerateSmartInsights fetches the user's raw data, runs all four
// generators, enriches the results with quotes and returns them sorted by
// severity (critical first; ties keep generator emission order). Only a
// store failure is returned as an error - a failing generator logs and
// contributes nothing.
func (s *Service) GenerateSmartInsights(ctx context.Context, userID string) ([]Insight, error) {
	now := s.now()

	txs, goals, emotions, err := s.fetchAll(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("GenerateSmartInsights: %w", err)
	}

	out := s.runGenerators(now, txs, goals, emotions)
	s.enrich(ctx, out)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out, nil
}

// CalculateRevelationScore computes the five sub-scores over the scoring
// windows and composes them. Deterministic for a fixed clock and store
// contents.
func (s *Service) CalculateRevelationScore(ctx context.Context, userID string) (RevelationScore, error) {
	now := s.now()

	var txs []domain.Transaction
	var goals []domain.Goal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx, userID, now.Add(-s.cfg.ScoreWindow), now)
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		goals, err = s.store.ListActiveGoals(gctx, userID)
		if err != nil {
			return fmt.Errorf("listing goals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return RevelationScore{}, fmt.Errorf("CalculateRevelationScore: %w", err)
	}

	breakdown := ScoreBreakdown{
		Cashflow:        cashflowScore(txs),
		SpendingControl: spendingControlScore(txs),
		SavingRate:      savingRateScore(txs),
		GoalAchievement: goalAchievementScore(goals),
		BiasAwareness:   biasAwarenessScore(s.cfg, now, txs, goals),
	}
	return composeScore(breakdown), nil
}

// CompleteRevelation runs insight generation and scoring concurrently and
// assembles the revelation-screen bundle: severity/category buckets,
// priority blocks, display statistics and an optional narrative.
func (s *Service) CompleteRevelation(ctx context.Context, userID string) (CompleteRevelation, error) {
	var insightList []Insight
	var score RevelationScore

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		insightList, err = s.GenerateSmartInsights(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		score, err = s.CalculateRevelationScore(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return CompleteRevelation{}, fmt.Errorf("CompleteRevelation: %w", err)
	}

	rev := CompleteRevelation{
		Score:        score,
		Insights:     bucketInsights(insightList),
		Priorities:   buildPriorities(insightList, score),
		Stats:        buildStats(insightList),
		Timestamp:    s.now(),
		NextUpdateIn: "24h",
	}

	if s.narrative != nil {
		nctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
		defer cancel()
		text, err := s.narrative.Narrative(nctx, rev)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("Narrative generation failed")
		} else {
			rev.Narrative = text
		}
	}

	return rev, nil
}

// fetchAll issues the three raw-data fetches concurrently: transactions
// over the broadest (scoring) window, active goals, and emotions over the
// emotion window. Generators narrow the transaction window themselves.
func (s *Service) fetchAll(ctx context.Context, userID string, now time.Time) ([]domain.Transaction, []domain.Goal, []domain.Emotion, error) {
	var txs []domain.Transaction
	var goals []domain.Goal
	var emotions []domain.Emotion

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx, userID, now.Add(-s.cfg.ScoreWindow), now)
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		goals, err = s.store.ListActiveGoals(gctx, userID)
		if err != nil {
			return fmt.Errorf("listing goals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		emotions, err = s.store.ListEmotions(gctx, userID, now.Add(-s.cfg.EmotionWindow), now)
		if err != nil {
			return fmt.Errorf("listing emotions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return txs, goals, emotions, nil
}

// runGenerators runs each generator in isolation: a panic in one is
// recovered and logged so one bad signal cannot blank the whole response.
func (s *Service) runGenerators(now time.Time, txs []domain.Transaction, goals []domain.Goal, emotions []domain.Emotion) []Insight {
	generators := []struct {
		name string
		run  func() []Insight
	}{
		{"spending_patterns", func() []Insight { return generateSpendingPatterns(s.cfg, now, txs) }},
		{"goal_progress", func() []Insight { return generateGoalProgress(s.cfg, now, goals, txs) }},
		{"cognitive_biases", func() []Insight { return detectBiases(s.cfg, now, txs, goals) }},
		{"emotional_spending", func() []Insight { return generateEmotionalSpending(s.cfg, txs, emotions) }},
	}

	var all []Insight
	for _, gen := range generators {
		all = append(all, s.runGenerator(gen.name, gen.run)...)
	}
	return all
}

func (s *Service) runGenerator(name string, run func() []Insight) (out []Insight) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("generator", name).Msg("Insight generator failed")
			out = nil
		}
	}()
	return run()
}

// enrich attaches a quote to roughly half the insights (decided by the
// injected coin). The external fetch is bounded and its failure falls
// back to the curated pools; enrichment never fails the pass.
func (s *Service) enrich(ctx context.Context, list []Insight) {
	for i := range list {
		if !s.coin() {
			continue
		}
		q := s.quoteFor(ctx, list[i].Category)
		list[i].Quote = &q
	}
}

func (s *Service) quoteFor(ctx context.Context, category Category) Quote {
	if s.quotes == nil {
		return FallbackQuote(category)
	}
	qctx, cancel := context.WithTimeout(ctx, quoteTimeout)
	defer cancel()

	q, err := s.quotes.RandomQuote(qctx, category)
	if err != nil {
		s.log.Warn().Err(err).Str("category", string(category)).Msg("Quote fetch failed, using fallback")
		return FallbackQuote(category)
	}
	return q
}

func bucketInsights(list []Insight) InsightBuckets {
	var b InsightBuckets
	for _, in := range list {
		switch in.Severity {
		case SeverityCritical:
			b.Critical = append(b.Critical, in)
		case SeverityWarning:
			b.Warning = append(b.Warning, in)
		case SeverityPositive:
			b.Positive = append(b.Positive, in)
		}
		switch in.Category {
		case CategoryBehavioral:
			b.Behavioral = append(b.Behavioral, in)
		case CategoryEmotional:
			b.Emotional = append(b.Emotional, in)
		case CategoryGoals:
			b.Goals = append(b.Goals, in)
		case CategorySpending:
			b.Spending = append(b.Spending, in)
		}
	}
	return b
}

func buildPriorities(list []Insight, score RevelationScore) []Priority {
	var priorities []Priority

	var critical, positive []Insight
	for _, in := range list {
		switch in.Severity {
		case SeverityCritical:
			critical = append(critical, in)
		case SeverityPositive:
			positive = append(positive, in)
		}
	}

	if len(critical) > 0 {
		actions := make([]string, 0, len(critical))
		for _, in := range critical {
			actions = append(actions, in.Actionable.Title)
		}
		priorities = append(priorities, Priority{
			Level:       "critical",
			Title:       "Immediate action required",
			Description: fmt.Sprintf("%d critical issue(s) detected", len(critical)),
			Actions:     actions,
		})
	}

	if score.FinancialHealth < 50 {
		priorities = append(priorities, Priority{
			Level:       "high",
			Title:       "Improve your financial health",
			Description: "Your cashflow and saving rate need attention",
			Actions:     []string{"Analyze your expenses", "Optimize your income", "Build a realistic budget"},
		})
	}

	if score.BehavioralDiscipline < 50 {
		priorities = append(priorities, Priority{
			Level:       "high",
			Title:       "Strengthen your behavioral discipline",
			Description: "Cognitive biases are shaping your financial decisions",
			Actions:     []string{"Identify your triggers", "Automate your decisions", "Put guardrails in place"},
		})
	}

	if len(positive) > 0 {
		actions := make([]string, 0, len(positive))
		for _, in := range positive {
			actions = append(actions, in.Actionable.Title)
		}
		priorities = append(priorities, Priority{
			Level:       "opportunity",
			Title:       "Build on your wins",
			Description: fmt.Sprintf("%d strength(s) to maintain and grow", len(positive)),
			Actions:     actions,
		})
	}

	return priorities
}

func buildStats(list []Insight) Stats {
	st := Stats{TotalInsights: len(list)}

	var severitySum int
	var actionable int
	for _, in := range list {
		if in.Bias != nil {
			st.BiasesDetected++
		}
		if in.Quote != nil {
			st.QuotesIncluded++
		}
		severitySum += in.Severity.Rank()
		if in.Severity == SeverityWarning || in.Severity == SeverityCritical {
			actionable++
		}
	}

	if len(list) > 0 {
		st.AverageSeverity = float64(severitySum) / float64(len(list))
	}
	// 25 points of headroom per actionable insight, capped.
	st.ImprovementPotential = 25 * actionable
	if st.ImprovementPotential > 100 {
		st.ImprovementPotential = 100
	}
	return st
}
