package insights

import (
	"testing"
	"time"

	"github.com/dvloznov/revelation/internal/domain"
)

func TestCashflowScore(t *testing.T) {
	day := testNow.AddDate(0, 0, -10)

	tests := []struct {
		name string
		txs  []domain.Transaction
		want int
	}{
		{"no transactions is the neutral baseline", nil, 50},
		{"expenses without income stay at the baseline", []domain.Transaction{tx(day, -500, "rent")}, 50},
		{"balanced budget scores 50", []domain.Transaction{tx(day, 1000, "salary"), tx(day, -1000, "rent")}, 50},
		{"strong surplus clamps at 100", []domain.Transaction{tx(day, 3000, "salary"), tx(day, -1000, "rent")}, 100},
		{"deep deficit clamps at 0", []domain.Transaction{tx(day, 1000, "salary"), tx(day, -2500, "rent")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cashflowScore(tt.txs); got != tt.want {
				t.Errorf("cashflowScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpendingControlScore(t *testing.T) {
	tests := []struct {
		name string
		txs  []domain.Transaction
		want int
	}{
		{"no history defaults to 50", nil, 50},
		{
			"single month defaults to 50",
			[]domain.Transaction{tx(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), -100, "a")},
			50,
		},
		{
			"perfectly regular months score 100",
			[]domain.Transaction{
				tx(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), -500, "a"),
				tx(time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), -500, "a"),
				tx(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), -500, "a"),
			},
			100,
		},
		{
			"volatile months are penalized",
			[]domain.Transaction{
				tx(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), -100, "a"),
				tx(time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), -300, "a"),
			},
			50, // CV of {100, 300} is 0.5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spendingControlScore(tt.txs); got != tt.want {
				t.Errorf("spendingControlScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSavingRateScore(t *testing.T) {
	day := testNow.AddDate(0, 0, -10)

	tests := []struct {
		name string
		txs  []domain.Transaction
		want int
	}{
		{"zero income scores 0", []domain.Transaction{tx(day, -500, "rent")}, 0},
		{
			"two-thirds saved rounds to 67",
			[]domain.Transaction{tx(day, 3000, "salary"), tx(day, -1000, "rent")},
			67,
		},
		{
			"overspending clamps at 0",
			[]domain.Transaction{tx(day, 1000, "salary"), tx(day, -1500, "rent")},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := savingRateScore(tt.txs); got != tt.want {
				t.Errorf("savingRateScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGoalAchievementScore(t *testing.T) {
	tests := []struct {
		name  string
		goals []domain.Goal
		want  int
	}{
		{"no goals defaults to 50", nil, 50},
		{
			"single goal progress",
			[]domain.Goal{{TargetAmount: 10000, CurrentAmount: 8000}},
			80,
		},
		{
			"overfunded goal clamps per goal",
			[]domain.Goal{
				{TargetAmount: 1000, CurrentAmount: 2000},
				{TargetAmount: 1000, CurrentAmount: 0},
			},
			50,
		},
		{
			"zero target counts as no progress",
			[]domain.Goal{{TargetAmount: 0, CurrentAmount: 500}},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := goalAchievementScore(tt.goals); got != tt.want {
				t.Errorf("goalAchievementScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBiasAwarenessScore(t *testing.T) {
	cfg := DefaultThresholds()
	day := testNow.AddDate(0, 0, -10)

	t.Run("no detections keep the full score", func(t *testing.T) {
		if got := biasAwarenessScore(cfg, testNow, nil, nil); got != 100 {
			t.Errorf("biasAwarenessScore() = %d, want 100", got)
		}
	})

	t.Run("each warning detection costs 20", func(t *testing.T) {
		txs := []domain.Transaction{
			{Date: day, Amount: -10, Description: "Video subscription"},
			{Date: day, Amount: -10, Description: "Music subscription"},
			{Date: day, Amount: -10, Description: "News subscription"},
			{Date: day, Amount: -10, Description: "Cloud subscription"},
		}
		goals := []domain.Goal{{TargetAmount: 50000, CurrentAmount: 0}}

		// Status-quo and optimism both fire: two warnings.
		if got := biasAwarenessScore(cfg, testNow, txs, goals); got != 60 {
			t.Errorf("biasAwarenessScore() = %d, want 60", got)
		}
	})
}

func TestComposeScore(t *testing.T) {
	b := ScoreBreakdown{
		Cashflow:        100,
		SpendingControl: 50,
		SavingRate:      67,
		GoalAchievement: 80,
		BiasAwareness:   100,
	}

	got := composeScore(b)

	if got.FinancialHealth != 84 { // (100+67)/2 rounded
		t.Errorf("FinancialHealth = %d, want 84", got.FinancialHealth)
	}
	if got.BehavioralDiscipline != 75 {
		t.Errorf("BehavioralDiscipline = %d, want 75", got.BehavioralDiscipline)
	}
	if got.GoalProgress != 80 {
		t.Errorf("GoalProgress = %d, want 80", got.GoalProgress)
	}
	if got.Overall != 80 { // (84+75+80)/3 rounded
		t.Errorf("Overall = %d, want 80", got.Overall)
	}
	if got.Breakdown != b {
		t.Errorf("Breakdown = %+v, want the input breakdown", got.Breakdown)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		input float64
		want  int
	}{
		{-10, 0},
		{0, 0},
		{49.5, 50},
		{100, 100},
		{140, 100},
	}

	for _, tt := range tests {
		if got := clampScore(tt.input); got != tt.want {
			t.Errorf("clampScore(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
