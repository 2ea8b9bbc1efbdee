package insights

import (
	"math"
	"time"

	"github.com/dvloznov/revelation/internal/domain"
)

// The scorer reduces the same raw inputs as the generators into five
// integer sub-scores and three composites. Every sub-score is rounded
// before composition so the arithmetic is reproducible.

func clampScore(v float64) int {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

// cashflowScore maps net flow over income onto [0, 100] with a +50
// offset: zero net flow scores 50, not 0. Zero income is defined as the
// neutral baseline 50.
func cashflowScore(txs []domain.Transaction) int {
	income, expenses := incomeAndExpenses(txs)
	if income <= 0 {
		return 50
	}
	ratio := (income - expenses) / income
	return clampScore(ratio*100 + 50)
}

// spendingControlScore rewards regular month-to-month expense totals:
// 100 minus the coefficient of variation in percent. Fewer than two
// months of data defaults to 50.
func spendingControlScore(txs []domain.Transaction) int {
	series := monthlyExpenseTotals(txs)
	if len(series) < 2 {
		return 50
	}
	return clampScore(100 - coefficientOfVariation(series)*100)
}

// savingRateScore is the net saving rate in percent; zero income scores 0.
func savingRateScore(txs []domain.Transaction) int {
	income, expenses := incomeAndExpenses(txs)
	if income <= 0 {
		return 0
	}
	return clampScore((income - expenses) / income * 100)
}

// goalAchievementScore averages per-goal progress percentages, each
// clamped to [0, 100]. No goals defaults to the neutral 50.
func goalAchievementScore(goals []domain.Goal) int {
	if len(goals) == 0 {
		return 50
	}
	var sum float64
	for _, g := range goals {
		var progress float64
		if g.TargetAmount > 0 {
			progress = g.CurrentAmount / g.TargetAmount * 100
		}
		sum += math.Min(100, math.Max(0, progress))
	}
	return clampScore(sum / float64(len(goals)))
}

// biasAwarenessScore starts from 100 and subtracts a penalty per detected
// bias insight: 30 for critical, 20 for warning, 10 for neutral. It runs
// the detectors internally on the unenriched inputs.
func biasAwarenessScore(cfg Thresholds, now time.Time, txs []domain.Transaction, goals []domain.Goal) int {
	var penalty int
	for _, in := range detectBiases(cfg, now, txs, goals) {
		switch in.Severity {
		case SeverityCritical:
			penalty += 30
		case SeverityWarning:
			penalty += 20
		case SeverityNeutral:
			penalty += 10
		}
	}
	return clampScore(float64(100 - penalty))
}

// composeScore combines the five sub-scores into the revelation score:
// financial health from cashflow and saving rate, behavioral discipline
// from spending control and bias awareness, goal progress as-is, and the
// overall as the mean of the three.
func composeScore(b ScoreBreakdown) RevelationScore {
	financialHealth := int(math.Round(float64(b.Cashflow+b.SavingRate) / 2))
	behavioralDiscipline := int(math.Round(float64(b.SpendingControl+b.BiasAwareness) / 2))
	goalProgress := b.GoalAchievement
	overall := int(math.Round(float64(financialHealth+behavioralDiscipline+goalProgress) / 3))

	return RevelationScore{
		Overall:              overall,
		FinancialHealth:      financialHealth,
		BehavioralDiscipline: behavioralDiscipline,
		GoalProgress:         goalProgress,
		Breakdown:            b,
	}
}
