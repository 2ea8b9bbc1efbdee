package insights

import "time"

// Severity orders insights for display. The rank (see severityRank) drives
// the sort: critical > warning > neutral > positive.
type Severity string

const (
	SeverityPositive Severity = "positive"
	SeverityNeutral  Severity = "neutral"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityCritical: 4,
	SeverityWarning:  3,
	SeverityNeutral:  2,
	SeverityPositive: 1,
}

// Rank returns the ordinal weight of a severity; unknown values rank 0.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Category is the analytical dimension an insight belongs to.
type Category string

const (
	CategorySpending   Category = "spending"
	CategorySaving     Category = "saving"
	CategoryGoals      Category = "goals"
	CategoryEmotional  Category = "emotional"
	CategoryBehavioral Category = "behavioral"
)

// Comparison relates an insight's value to a previous period.
type Comparison struct {
	Previous  float64 `json:"previous"`
	ChangePct float64 `json:"change"`
	Period    string  `json:"period"`
}

// Quote is a motivational quote attached to an insight.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Actionable is the concrete recommendation carried by every insight.
type Actionable struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// Insight is a single computed observation about a user's finances. It is
// transient: built fresh per request and never persisted. IDs are unique
// within one generation pass.
type Insight struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Category          Category    `json:"category"`
	Severity          Severity    `json:"severity"`
	Value             float64     `json:"value"`
	Comparison        *Comparison `json:"comparison,omitempty"`
	Bias              *Bias       `json:"bias,omitempty"`
	Quote             *Quote      `json:"quote,omitempty"`
	PsychologicalFact string      `json:"psychologicalFact,omitempty"`
	Actionable        Actionable  `json:"actionable"`
}

// ScoreBreakdown holds the five sub-scores, each an integer in [0, 100].
type ScoreBreakdown struct {
	Cashflow        int `json:"cashflow"`
	SpendingControl int `json:"spending_control"`
	SavingRate      int `json:"saving_rate"`
	GoalAchievement int `json:"goal_achievement"`
	BiasAwareness   int `json:"bias_awareness"`
}

// RevelationScore is the composite 0-100 health/discipline/progress
// metric. Sub-scores are rounded to integers before the composites are
// formed, so rounding accumulates deterministically.
type RevelationScore struct {
	Overall              int            `json:"overall"`
	FinancialHealth      int            `json:"financialHealth"`
	BehavioralDiscipline int            `json:"behavioralDiscipline"`
	GoalProgress         int            `json:"goalProgress"`
	Breakdown            ScoreBreakdown `json:"breakdown"`
}

// InsightBuckets organizes one insight list for display. Buckets are
// non-exclusive: a warning insight in the spending category appears in
// both Warning and Spending.
type InsightBuckets struct {
	Critical   []Insight `json:"critical"`
	Warning    []Insight `json:"warning"`
	Positive   []Insight `json:"positive"`
	Behavioral []Insight `json:"behavioral"`
	Emotional  []Insight `json:"emotional"`
	Goals      []Insight `json:"goals"`
	Spending   []Insight `json:"spending"`
}

// Priority is one recommended action block of the complete revelation.
type Priority struct {
	Level       string   `json:"level"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// Stats summarizes an insight list for visualizations.
type Stats struct {
	TotalInsights        int     `json:"totalInsights"`
	BiasesDetected       int     `json:"biasesDetected"`
	QuotesIncluded       int     `json:"quotesIncluded"`
	AverageSeverity      float64 `json:"averageSeverity"`
	ImprovementPotential int     `json:"improvementPotential"`
}

// CompleteRevelation bundles everything the revelation screen needs.
type CompleteRevelation struct {
	Score        RevelationScore `json:"score"`
	Insights     InsightBuckets  `json:"insights"`
	Priorities   []Priority      `json:"priorities"`
	Stats        Stats           `json:"stats"`
	Narrative    string          `json:"narrative,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	NextUpdateIn string          `json:"nextUpdateIn"`
}
