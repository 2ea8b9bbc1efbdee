package insights

// BiasType groups cognitive biases by the financial behavior they distort.
type BiasType string

const (
	BiasTypeSpending  BiasType = "spending"
	BiasTypeSaving    BiasType = "saving"
	BiasTypePlanning  BiasType = "planning"
	BiasTypeEmotional BiasType = "emotional"
)

// BiasSeverity is how strongly a bias typically impacts outcomes.
type BiasSeverity string

const (
	BiasSeverityLow    BiasSeverity = "low"
	BiasSeverityMedium BiasSeverity = "medium"
	BiasSeverityHigh   BiasSeverity = "high"
)

// Bias is one entry of the cognitive-bias catalog. Entries are static data
// and are never mutated at runtime; detectors attach them to insights by
// value.
type Bias struct {
	Key               string       `json:"key"`
	Name              string       `json:"name"`
	Type              BiasType     `json:"type"`
	Description       string       `json:"description"`
	PsychologicalFact string       `json:"psychologicalFact"`
	Severity          BiasSeverity `json:"severity"`
	Recommendation    string       `json:"recommendation"`
}

// Catalog keys. Only status_quo and optimism_bias are wired to detectors;
// the rest are retrievable by key for enrichment and the facts endpoint.
const (
	BiasStatusQuo             = "status_quo"
	BiasAvailabilityHeuristic = "availability_heuristic"
	BiasOptimism              = "optimism_bias"
	BiasMentalAccounting      = "mental_accounting"
	BiasLossAversion          = "loss_aversion"
	BiasPresent               = "present_bias"
)

var biasCatalog = map[string]Bias{
	BiasStatusQuo: {
		Key:               BiasStatusQuo,
		Name:              "Status-quo bias",
		Type:              BiasTypePlanning,
		Description:       "Tendency to keep costly habits going out of inertia",
		PsychologicalFact: "Our brain prefers avoiding hard decisions, even when they cost us money",
		Severity:          BiasSeverityMedium,
		Recommendation:    "Schedule a monthly review of your subscriptions and recurring charges",
	},
	BiasAvailabilityHeuristic: {
		Key:               BiasAvailabilityHeuristic,
		Name:              "Availability heuristic",
		Type:              BiasTypeSpending,
		Description:       "Overweighting recent and memorable expenses",
		PsychologicalFact: "We judge how likely something is by how easily we can recall it",
		Severity:          BiasSeverityLow,
		Recommendation:    "Budget from three-month averages rather than your latest expenses",
	},
	BiasOptimism: {
		Key:               BiasOptimism,
		Name:              "Optimism bias",
		Type:              BiasTypePlanning,
		Description:       "Systematic overestimation of your future income",
		PsychologicalFact: "80% of people believe they are above average with money",
		Severity:          BiasSeverityHigh,
		Recommendation:    "Base your goals on past performance, not on hopes",
	},
	BiasMentalAccounting: {
		Key:               BiasMentalAccounting,
		Name:              "Mental accounting",
		Type:              BiasTypeSpending,
		Description:       "Treating money differently depending on where it came from",
		PsychologicalFact: "We spend \"bonus\" money more easily than our regular salary",
		Severity:          BiasSeverityMedium,
		Recommendation:    "Treat all income the same way in your budget",
	},
	BiasLossAversion: {
		Key:               BiasLossAversion,
		Name:              "Loss aversion",
		Type:              BiasTypeEmotional,
		Description:       "Excessive fear of losing money that blocks investing",
		PsychologicalFact: "Losing 100 hurts about twice as much as gaining 100 feels good",
		Severity:          BiasSeverityMedium,
		Recommendation:    "Focus on long-term gains rather than short-term losses",
	},
	BiasPresent: {
		Key:               BiasPresent,
		Name:              "Present bias",
		Type:              BiasTypeSaving,
		Description:       "Excessive preference for immediate rewards",
		PsychologicalFact: "Our brain values future rewards about 50% less than immediate ones",
		Severity:          BiasSeverityHigh,
		Recommendation:    "Automate your savings to route around the temptation to spend",
	},
}

// BiasByKey looks up a catalog entry. The second return is false for
// unknown keys.
func BiasByKey(key string) (Bias, bool) {
	b, ok := biasCatalog[key]
	return b, ok
}

// AllBiases returns every catalog entry. The slice is freshly allocated so
// callers cannot corrupt the catalog.
func AllBiases() []Bias {
	out := make([]Bias, 0, len(biasCatalog))
	for _, key := range []string{
		BiasStatusQuo,
		BiasAvailabilityHeuristic,
		BiasOptimism,
		BiasMentalAccounting,
		BiasLossAversion,
		BiasPresent,
	} {
		out = append(out, biasCatalog[key])
	}
	return out
}
