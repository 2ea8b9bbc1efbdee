package external

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/dvloznov/revelation/internal/insights"
)

// DefaultNarrativeModel is the Gemini model used for revelation summaries.
const DefaultNarrativeModel = "gemini-2.5-flash"

// GeminiNarrator writes a one-paragraph prose summary of a complete
// revelation. It is best-effort by contract: any model failure is logged
// and replaced by a locally assembled summary, so callers always get
// usable text.
type GeminiNarrator struct {
	model string
	log   zerolog.Logger
}

// NewGeminiNarrator creates a narrator. An empty model selects the
// default.
func NewGeminiNarrator(model string, log zerolog.Logger) *GeminiNarrator {
	if model == "" {
		model = DefaultNarrativeModel
	}
	return &GeminiNarrator{model: model, log: log}
}

// Narrative implements insights.NarrativeGenerator.
func (n *GeminiNarrator) Narrative(ctx context.Context, rev insights.CompleteRevelation) (string, error) {
	prompt := buildNarrativePrompt(rev)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		n.log.Warn().Err(err).Msg("Narrative model unavailable, using local summary")
		return localSummary(rev), nil
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, n.model, contents, nil)
	if err != nil {
		n.log.Warn().Err(err).Msg("Narrative generation failed, using local summary")
		return localSummary(rev), nil
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return localSummary(rev), nil
	}
	return text, nil
}

func buildNarrativePrompt(rev insights.CompleteRevelation) string {
	var b strings.Builder
	b.WriteString("You are a supportive personal-finance coach.\n")
	b.WriteString("Write ONE short paragraph (3-4 sentences, plain text, no Markdown) summarizing this user's financial revelation.\n")
	b.WriteString("Be encouraging but honest about warnings.\n\n")
	fmt.Fprintf(&b, "Overall score: %d/100 (financial health %d, behavioral discipline %d, goal progress %d).\n",
		rev.Score.Overall, rev.Score.FinancialHealth, rev.Score.BehavioralDiscipline, rev.Score.GoalProgress)
	fmt.Fprintf(&b, "Insights: %d total, %d warnings or critical, %d cognitive biases detected.\n",
		rev.Stats.TotalInsights, len(rev.Insights.Warning)+len(rev.Insights.Critical), rev.Stats.BiasesDetected)
	for _, p := range rev.Priorities {
		fmt.Fprintf(&b, "Priority (%s): %s - %s\n", p.Level, p.Title, p.Description)
	}
	return b.String()
}

// localSummary is the deterministic fallback narrative.
func localSummary(rev insights.CompleteRevelation) string {
	tone := "solid"
	switch {
	case rev.Score.Overall >= 75:
		tone = "strong"
	case rev.Score.Overall < 50:
		tone = "fragile"
	}
	summary := fmt.Sprintf("Your revelation score is %d/100, a %s position overall.", rev.Score.Overall, tone)
	if n := len(rev.Insights.Warning) + len(rev.Insights.Critical); n > 0 {
		summary += fmt.Sprintf(" %d area(s) need your attention.", n)
	}
	if len(rev.Insights.Positive) > 0 {
		summary += fmt.Sprintf(" %d habit(s) are working in your favor - keep them up.", len(rev.Insights.Positive))
	}
	return summary
}

var _ insights.NarrativeGenerator = (*GeminiNarrator)(nil)
