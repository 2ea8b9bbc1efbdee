package external

import "sort"

// Fact is one curated psychology fact with its source and a relevance
// weight used for ranking.
type Fact struct {
	Fact      string `json:"fact"`
	Source    string `json:"source"`
	Category  string `json:"category"`
	Relevance int    `json:"relevance"`
}

var psychologyFacts = []Fact{
	{
		Fact:      "People spend 12-18% more when paying by card instead of cash",
		Source:    "MIT Sloan Study, 2001",
		Category:  "spending",
		Relevance: 9,
	},
	{
		Fact:      "Automating savings raises the average saving rate by 85%",
		Source:    "Behavioral Economics Research",
		Category:  "saving",
		Relevance: 10,
	},
	{
		Fact:      "Financial decisions made under stress are 23% less optimal",
		Source:    "Journal of Economic Psychology",
		Category:  "emotional",
		Relevance: 8,
	},
	{
		Fact:      "It takes 66 days on average to form a new financial habit",
		Source:    "University College London",
		Category:  "behavioral",
		Relevance: 9,
	},
	{
		Fact:      "People who visualize their goals are 42% more likely to reach them",
		Source:    "Dominican University Study",
		Category:  "goals",
		Relevance: 10,
	},
	{
		Fact:      "Anchoring makes us overvalue the first price we see",
		Source:    "Kahneman & Tversky Research",
		Category:  "cognitive",
		Relevance: 7,
	},
	{
		Fact:      "We feel the pain of a loss about twice as strongly as the pleasure of an equal gain",
		Source:    "Prospect Theory",
		Category:  "emotional",
		Relevance: 9,
	},
	{
		Fact:      "People spend \"bonus\" money more freely than their regular salary",
		Source:    "Mental Accounting Research",
		Category:  "spending",
		Relevance: 8,
	},
}

// PsychologyFacts returns curated facts ranked by relevance: the top
// three for a category, or the top five overall when category is empty.
func PsychologyFacts(category string) []Fact {
	var out []Fact
	for _, f := range psychologyFacts {
		if category == "" || f.Category == category {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })

	limit := 5
	if category != "" {
		limit = 3
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
