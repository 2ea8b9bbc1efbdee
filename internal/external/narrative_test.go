package external

import (
	"strings"
	"testing"

	"github.com/dvloznov/revelation/internal/insights"
)

func TestLocalSummary(t *testing.T) {
	tests := []struct {
		name string
		rev  insights.CompleteRevelation
		want []string
	}{
		{
			name: "strong score",
			rev: insights.CompleteRevelation{
				Score: insights.RevelationScore{Overall: 80},
			},
			want: []string{"80/100", "strong"},
		},
		{
			name: "solid score with warnings",
			rev: insights.CompleteRevelation{
				Score: insights.RevelationScore{Overall: 60},
				Insights: insights.InsightBuckets{
					Warning: []insights.Insight{{ID: "w1"}, {ID: "w2"}},
				},
			},
			want: []string{"solid", "2 area(s)"},
		},
		{
			name: "fragile score with a win",
			rev: insights.CompleteRevelation{
				Score: insights.RevelationScore{Overall: 40},
				Insights: insights.InsightBuckets{
					Positive: []insights.Insight{{ID: "p1"}},
				},
			},
			want: []string{"fragile", "1 habit(s)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := localSummary(tt.rev)
			for _, fragment := range tt.want {
				if !strings.Contains(got, fragment) {
					t.Errorf("localSummary() = %q, want it to contain %q", got, fragment)
				}
			}
		})
	}
}

func TestBuildNarrativePrompt(t *testing.T) {
	rev := insights.CompleteRevelation{
		Score: insights.RevelationScore{Overall: 72, FinancialHealth: 80, BehavioralDiscipline: 65, GoalProgress: 70},
		Stats: insights.Stats{TotalInsights: 4, BiasesDetected: 1},
		Priorities: []insights.Priority{
			{Level: "high", Title: "Improve your financial health", Description: "Your cashflow needs attention"},
		},
	}

	got := buildNarrativePrompt(rev)
	for _, fragment := range []string{
		"72/100",
		"financial health 80",
		"4 total",
		"Priority (high): Improve your financial health",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, got)
		}
	}
}
