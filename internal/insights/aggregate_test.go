package insights

import (
	"math"
	"testing"
	"time"

	"github.com/dvloznov/revelation/internal/domain"
)

func tx(date time.Time, amount float64, category string) domain.Transaction {
	return domain.Transaction{Date: date, Amount: amount, Category: category}
}

func TestSumByCategory(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		txs  []domain.Transaction
		want map[string]float64
	}{
		{
			name: "empty input",
			txs:  nil,
			want: map[string]float64{},
		},
		{
			name: "expenses summed as absolute values",
			txs: []domain.Transaction{
				tx(day, -50, "dining"),
				tx(day, -30, "dining"),
				tx(day, -900, "rent"),
			},
			want: map[string]float64{"dining": 80, "rent": 900},
		},
		{
			name: "missing category becomes other",
			txs: []domain.Transaction{
				tx(day, -20, ""),
				tx(day, -5, ""),
			},
			want: map[string]float64{"other": 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sumByCategory(tt.txs)
			if len(got) != len(tt.want) {
				t.Fatalf("sumByCategory() = %v, want %v", got, tt.want)
			}
			for cat, sum := range tt.want {
				if got[cat] != sum {
					t.Errorf("sumByCategory()[%q] = %v, want %v", cat, got[cat], sum)
				}
			}
		})
	}
}

func TestSplitByDate(t *testing.T) {
	boundary := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	txs := []domain.Transaction{
		tx(boundary.AddDate(0, 0, -1), -10, "a"),
		tx(boundary, -20, "b"),
		tx(boundary.AddDate(0, 0, 1), -30, "c"),
	}

	before, after := splitByDate(txs, boundary)
	if len(before) != 1 || before[0].Category != "a" {
		t.Errorf("before = %v, want only the pre-boundary transaction", before)
	}
	// Transactions exactly on the boundary belong to the later bucket.
	if len(after) != 2 {
		t.Errorf("after = %v, want boundary and post-boundary transactions", after)
	}
}

func TestAverageIncome(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		txs  []domain.Transaction
		want float64
	}{
		{"no transactions", nil, 0},
		{"only expenses", []domain.Transaction{tx(day, -50, "x")}, 0},
		{
			"mean of positive amounts",
			[]domain.Transaction{
				tx(day, 3000, "salary"),
				tx(day, 1000, "freelance"),
				tx(day, -500, "rent"),
			},
			2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := averageIncome(tt.txs); got != tt.want {
				t.Errorf("averageIncome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIncomeAndExpenses(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	income, expenses := incomeAndExpenses([]domain.Transaction{
		tx(day, 3000, "salary"),
		tx(day, -900, "rent"),
		tx(day, -100, "dining"),
	})
	if income != 3000 {
		t.Errorf("income = %v, want 3000", income)
	}
	if expenses != 1000 {
		t.Errorf("expenses = %v, want 1000", expenses)
	}
}

func TestMonthlyExpenseTotals(t *testing.T) {
	txs := []domain.Transaction{
		tx(time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), -100, "a"),
		tx(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC), -200, "a"),
		tx(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), -50, "b"),
		tx(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), 3000, "salary"),
	}

	got := monthlyExpenseTotals(txs)
	want := []float64{250, 100} // January before February

	if len(got) != len(want) {
		t.Fatalf("monthlyExpenseTotals() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("monthlyExpenseTotals()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSpendingOnDays(t *testing.T) {
	stressDay := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

	txs := []domain.Transaction{
		tx(time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), -80, "shopping"),
		tx(time.Date(2026, 3, 5, 19, 0, 0, 0, time.UTC), -20, "dining"),
		tx(time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC), -500, "rent"),
		tx(time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC), 100, "refund"),
	}

	if got := spendingOnDays(txs, []time.Time{stressDay}); got != 100 {
		t.Errorf("spendingOnDays() = %v, want 100", got)
	}
	if got := spendingOnDays(txs, nil); got != 0 {
		t.Errorf("spendingOnDays() with no days = %v, want 0", got)
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   float64
	}{
		{"empty series", nil, 0},
		{"constant series", []float64{100, 100, 100}, 0},
		{"zero mean", []float64{0, 0}, 0},
		{"known spread", []float64{100, 300}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coefficientOfVariation(tt.series)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("coefficientOfVariation() = %v, want %v", got, tt.want)
			}
		})
	}
}
