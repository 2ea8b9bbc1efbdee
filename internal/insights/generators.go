package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dvloznov/revelation/internal/domain"
)

// Generators consume aggregator output and emit zero or more insights.
// They are pure: no I/O, no shared state, and empty input yields an empty
// result rather than an error.

// subscriptionMarkers flag recurring-charge transactions by description or
// category, case-insensitive.
var subscriptionMarkers = []string{"subscription", "abonnement"}

var (
	stressfulMoods = map[string]struct{}{"stressed": {}, "anxious": {}, "sad": {}}
	happyMoods     = map[string]struct{}{"happy": {}, "excited": {}, "optimistic": {}}
)

// generateSpendingPatterns compares each category's spend in the most
// recent period against the period before it and reports significant
// moves. Categories with no spend in the previous period are skipped: a
// change percentage against zero is undefined.
func generateSpendingPatterns(cfg Thresholds, now time.Time, txs []domain.Transaction) []Insight {
	if len(txs) == 0 {
		return nil
	}

	window := filterSince(txs, now.Add(-cfg.PatternWindow))
	previousTxs, currentTxs := splitByDate(window, now.Add(-cfg.PatternPeriod))
	current := sumByCategory(currentTxs)

	categories := make([]string, 0, len(current))
	for cat := range current {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var out []Insight
	for _, cat := range categories {
		amount := current[cat]
		if amount == 0 {
			continue
		}
		previous := categoryAmount(previousTxs, cat)
		if previous <= 0 {
			continue
		}
		change := (amount - previous) / previous * 100
		if math.Abs(change) <= cfg.SignificantChangePct {
			continue
		}

		severity := SeverityNeutral
		if change > cfg.WarningChangePct {
			severity = SeverityWarning
		} else if change < cfg.PositiveChangePct {
			severity = SeverityPositive
		}

		direction := "down"
		fact := "Cutting one spending category improves control over all the others"
		action := Actionable{
			Title:       "Keep up the discipline",
			Description: fmt.Sprintf("Your %.1f%% reduction in %s is excellent", math.Abs(change), cat),
			Impact:      fmt.Sprintf("Saving realized: €%.0f", previous-amount),
		}
		if change > 0 {
			direction = "up"
			fact = "Impulse purchases rise about 40% when we are stressed"
			action = Actionable{
				Title:       "Review the triggers",
				Description: fmt.Sprintf("Work out what drove the %.1f%% increase in %s", change, cat),
				Impact:      fmt.Sprintf("Potential saving: €%.0f/month", amount*cfg.IncreaseSavingShare),
			}
		}

		out = append(out, Insight{
			ID:          "spending-" + cat,
			Title:       fmt.Sprintf("Spending %s in %s", direction, cat),
			Description: fmt.Sprintf("%+.1f%% vs the previous month", change),
			Category:    CategorySpending,
			Severity:    severity,
			Value:       amount,
			Comparison: &Comparison{
				Previous:  previous,
				ChangePct: change,
				Period:    "previous month",
			},
			PsychologicalFact: fact,
			Actionable:        action,
		})
	}
	return out
}

// monthsToDeadline converts a goal deadline into months from now, never
// less than one. Goals without a deadline get the configured default.
func monthsToDeadline(cfg Thresholds, now time.Time, g domain.Goal) float64 {
	if g.Deadline == nil {
		return cfg.DefaultGoalMonths
	}
	months := g.Deadline.Sub(now).Hours() / (24 * 30)
	return math.Max(1, months)
}

// requiredMonthlySaving is the flat saving per month needed to close the
// gap before the deadline.
func requiredMonthlySaving(cfg Thresholds, now time.Time, g domain.Goal) float64 {
	return (g.TargetAmount - g.CurrentAmount) / monthsToDeadline(cfg, now, g)
}

// generateGoalProgress emits one insight per active goal, rating its pace
// against the user's average income.
func generateGoalProgress(cfg Thresholds, now time.Time, goals []domain.Goal, txs []domain.Transaction) []Insight {
	avgIncome := averageIncome(txs)

	var out []Insight
	for _, g := range goals {
		var progress float64
		if g.TargetAmount > 0 {
			progress = g.CurrentAmount / g.TargetAmount * 100
		}
		months := monthsToDeadline(cfg, now, g)
		required := (g.TargetAmount - g.CurrentAmount) / months

		severity := SeverityNeutral
		description := fmt.Sprintf("%.1f%% reached", progress)
		if progress >= cfg.GoalAheadPct {
			severity = SeverityPositive
			description += " - excellent progress"
		} else if required > avgIncome*cfg.IncomeShare {
			severity = SeverityWarning
			description += " - pace needs to pick up"
		}

		fact := "Visualizing your goals daily raises the odds of reaching them by 42%"
		if progress > 50 {
			fact = "People who reach 50% of a goal have a 90% chance of finishing it"
		}
		actionTitle := "Accelerate the progress"
		if progress > cfg.GoalAheadPct {
			actionTitle = "Finish the goal"
		}

		out = append(out, Insight{
			ID:                "goal-" + g.ID,
			Title:             g.Title,
			Description:       description,
			Category:          CategoryGoals,
			Severity:          severity,
			Value:             progress,
			PsychologicalFact: fact,
			Actionable: Actionable{
				Title:       actionTitle,
				Description: fmt.Sprintf("You need €%.0f/month to reach this goal", required),
				Impact:      fmt.Sprintf("%.0f months left", months),
			},
		})
	}
	return out
}

func isSubscription(t domain.Transaction) bool {
	desc := strings.ToLower(t.Description)
	cat := strings.ToLower(t.Category)
	for _, marker := range subscriptionMarkers {
		if strings.Contains(desc, marker) || strings.Contains(cat, marker) {
			return true
		}
	}
	return false
}

// detectBiases runs the wired cognitive-bias detectors: status-quo
// (subscription pile-up) and optimism (unrealistic goals). The rest of
// the catalog has no detector yet and is only served as reference data.
func detectBiases(cfg Thresholds, now time.Time, txs []domain.Transaction, goals []domain.Goal) []Insight {
	var out []Insight

	var subCount int
	var subTotal float64
	for _, t := range txs {
		if isSubscription(t) {
			subCount++
			subTotal += math.Abs(t.Amount)
		}
	}
	if subCount > cfg.SubscriptionCount {
		bias := biasCatalog[BiasStatusQuo]
		out = append(out, Insight{
			ID:          "bias-status-quo",
			Title:       "Status-quo bias detected",
			Description: fmt.Sprintf("%d active subscriptions - some may be unused", subCount),
			Category:    CategoryBehavioral,
			Severity:    SeverityWarning,
			Value:       subTotal,
			Bias:        &bias,
			Actionable: Actionable{
				Title:       "Audit your subscriptions",
				Description: "Go through your subscriptions and cancel the ones you no longer use",
				Impact:      fmt.Sprintf("Potential saving: €%.0f/month", subTotal*cfg.RecurringSavingShare),
			},
		})
	}

	avgIncome := averageIncome(txs)
	var unrealistic int
	for _, g := range goals {
		if requiredMonthlySaving(cfg, now, g) > avgIncome*cfg.IncomeShare {
			unrealistic++
		}
	}
	if unrealistic > 0 {
		bias := biasCatalog[BiasOptimism]
		out = append(out, Insight{
			ID:          "bias-optimism",
			Title:       "Optimism bias in your goals",
			Description: fmt.Sprintf("%d goals require more than 30%% of your income", unrealistic),
			Category:    CategoryBehavioral,
			Severity:    SeverityWarning,
			Value:       float64(unrealistic),
			Bias:        &bias,
			Actionable: Actionable{
				Title:       "Re-evaluate your goals",
				Description: "Adjust your goals so they are realistic and reachable",
				Impact:      "Success rates improve by 65% with realistic goals",
			},
		})
	}

	return out
}

// generateEmotionalSpending compares expense totals on stressful days
// against happy days. A zero happy-day baseline produces no insight: with
// nothing to compare against, any stress-day spend would look anomalous.
func generateEmotionalSpending(cfg Thresholds, txs []domain.Transaction, emotions []domain.Emotion) []Insight {
	if len(emotions) == 0 {
		return nil
	}

	var stressDays, happyDays []time.Time
	for _, e := range emotions {
		mood := strings.ToLower(e.Mood)
		if _, ok := stressfulMoods[mood]; ok {
			stressDays = append(stressDays, e.Date)
		} else if _, ok := happyMoods[mood]; ok {
			happyDays = append(happyDays, e.Date)
		}
	}

	stressSpending := spendingOnDays(txs, stressDays)
	happySpending := spendingOnDays(txs, happyDays)

	if happySpending <= 0 || stressSpending <= happySpending*cfg.StressSpendRatio {
		return nil
	}

	return []Insight{{
		ID:                "emotional-stress-spending",
		Title:             "Emotional spending detected",
		Description:       fmt.Sprintf("+%.0f%% spent on stressful days", (stressSpending/happySpending-1)*100),
		Category:          CategoryEmotional,
		Severity:          SeverityWarning,
		Value:             stressSpending - happySpending,
		PsychologicalFact: "Stress raises impulse purchases by 79% on average",
		Actionable: Actionable{
			Title:       "Anti-stress strategy",
			Description: "Find alternatives to shopping for the days you feel stressed",
			Impact:      fmt.Sprintf("Potential saving: €%.0f/month", stressSpending*cfg.RecurringSavingShare),
		},
	}}
}
