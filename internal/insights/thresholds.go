package insights

import "time"

// Thresholds collects the tunable policy constants of the analytical
// generators and the scorer. They used to live inline at each call site;
// keeping them in one value makes the numbers reviewable and lets tests
// pin them down. DefaultThresholds matches production behavior.
type Thresholds struct {
	// SignificantChangePct is the minimum absolute period-over-period
	// change (in percent, strict >) for a category to produce a
	// spending-pattern insight.
	SignificantChangePct float64

	// WarningChangePct upgrades a spending increase to warning severity.
	WarningChangePct float64

	// PositiveChangePct marks a spending decrease as positive severity
	// (applied to the signed change, strict <).
	PositiveChangePct float64

	// GoalAheadPct is the progress percentage at or above which a goal
	// insight is positive.
	GoalAheadPct float64

	// IncomeShare is the fraction of average income above which a goal's
	// required monthly saving is considered unrealistic.
	IncomeShare float64

	// SubscriptionCount is the number of subscription-like transactions
	// (strict >) that triggers the status-quo detector.
	SubscriptionCount int

	// StressSpendRatio is the multiple of happy-day spending (strict >)
	// that stress-day spending must exceed to flag emotional spending.
	StressSpendRatio float64

	// IncreaseSavingShare estimates the saveable share of a category
	// whose spend increased.
	IncreaseSavingShare float64

	// RecurringSavingShare estimates the saveable share of subscription
	// or stress-driven spend.
	RecurringSavingShare float64

	// PatternWindow and PatternPeriod shape the spending-pattern
	// comparison: the last PatternPeriod against the PatternPeriod
	// before it, both inside PatternWindow.
	PatternWindow time.Duration
	PatternPeriod time.Duration

	// ScoreWindow and EmotionWindow bound the raw data that feeds the
	// revelation scorer and the emotional generator.
	ScoreWindow   time.Duration
	EmotionWindow time.Duration

	// DefaultGoalMonths is assumed for goals without a deadline.
	DefaultGoalMonths float64
}

// DefaultThresholds returns the production policy values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SignificantChangePct: 15,
		WarningChangePct:     25,
		PositiveChangePct:    -15,
		GoalAheadPct:         80,
		IncomeShare:          0.3,
		SubscriptionCount:    3,
		StressSpendRatio:     1.3,
		IncreaseSavingShare:  0.2,
		RecurringSavingShare: 0.3,
		PatternWindow:        60 * 24 * time.Hour,
		PatternPeriod:        30 * 24 * time.Hour,
		ScoreWindow:          90 * 24 * time.Hour,
		EmotionWindow:        30 * 24 * time.Hour,
		DefaultGoalMonths:    12,
	}
}
