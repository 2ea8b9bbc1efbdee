package insights

import (
	"math"
	"sort"
	"time"

	"github.com/dvloznov/revelation/internal/domain"
)

// Signal aggregators: pure reductions over raw transaction lists. All of
// them accept empty input and return empty/zero values.

// sumByCategory sums |amount| per category. Transactions without a
// category land under "other".
func sumByCategory(txs []domain.Transaction) map[string]float64 {
	totals := make(map[string]float64, len(txs))
	for _, t := range txs {
		cat := t.Category
		if cat == "" {
			cat = "other"
		}
		totals[cat] += math.Abs(t.Amount)
	}
	return totals
}

// categoryAmount sums |amount| of the transactions in one category.
func categoryAmount(txs []domain.Transaction, category string) float64 {
	var sum float64
	for _, t := range txs {
		cat := t.Category
		if cat == "" {
			cat = "other"
		}
		if cat == category {
			sum += math.Abs(t.Amount)
		}
	}
	return sum
}

// splitByDate partitions transactions into those strictly before the
// boundary and those on or after it.
func splitByDate(txs []domain.Transaction, boundary time.Time) (before, after []domain.Transaction) {
	for _, t := range txs {
		if t.Date.Before(boundary) {
			before = append(before, t)
		} else {
			after = append(after, t)
		}
	}
	return before, after
}

// filterSince keeps transactions dated on or after from.
func filterSince(txs []domain.Transaction, from time.Time) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range txs {
		if !t.Date.Before(from) {
			out = append(out, t)
		}
	}
	return out
}

// averageIncome is the mean of strictly positive amounts, 0 when there is
// no income in the window.
func averageIncome(txs []domain.Transaction) float64 {
	var sum float64
	var n int
	for _, t := range txs {
		if t.Amount > 0 {
			sum += t.Amount
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// incomeAndExpenses totals positive amounts and |negative| amounts.
func incomeAndExpenses(txs []domain.Transaction) (income, expenses float64) {
	for _, t := range txs {
		if t.Amount > 0 {
			income += t.Amount
		} else {
			expenses += -t.Amount
		}
	}
	return income, expenses
}

// monthlyExpenseTotals sums |amount| of expense transactions per calendar
// month (UTC, keyed YYYY-MM) and returns the totals ordered by month key,
// so the series is deterministic for a given input.
func monthlyExpenseTotals(txs []domain.Transaction) []float64 {
	byMonth := make(map[string]float64)
	for _, t := range txs {
		if t.Amount >= 0 {
			continue
		}
		key := t.Date.UTC().Format("2006-01")
		byMonth[key] += -t.Amount
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]float64, 0, len(keys))
	for _, k := range keys {
		out = append(out, byMonth[k])
	}
	return out
}

// spendingOnDays sums |amount| of expense transactions whose calendar day
// (UTC) matches any of the given dates.
func spendingOnDays(txs []domain.Transaction, days []time.Time) float64 {
	if len(days) == 0 {
		return 0
	}
	wanted := make(map[string]struct{}, len(days))
	for _, d := range days {
		wanted[d.UTC().Format("2006-01-02")] = struct{}{}
	}

	var sum float64
	for _, t := range txs {
		if t.Amount >= 0 {
			continue
		}
		if _, ok := wanted[t.Date.UTC().Format("2006-01-02")]; ok {
			sum += -t.Amount
		}
	}
	return sum
}

// coefficientOfVariation is stddev/mean of the series (population
// variance), 0 for a constant or degenerate series.
func coefficientOfVariation(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	mean := sum / float64(len(series))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(series))
	if variance == 0 {
		return 0
	}
	return math.Sqrt(variance) / mean
}
