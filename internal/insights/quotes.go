package insights

import "math/rand"

// Curated fallback quotes, keyed by insight category. Used whenever the
// external quote provider is unavailable or fails; categories without a
// pool fall back to the generic one.
var fallbackQuotes = map[Category][]Quote{
	CategorySpending: {
		{Text: "It is not how much you earn but how much you save that determines your wealth.", Author: "Benjamin Franklin"},
		{Text: "A penny saved is worth two pennies earned.", Author: "Proverb"},
	},
	CategorySaving: {
		{Text: "Do not save what is left after spending, but spend what is left after saving.", Author: "Warren Buffett"},
		{Text: "Wealth consists not in having great possessions, but in having few wants.", Author: "Epictetus"},
	},
	CategoryGoals: {
		{Text: "A goal without a plan is just a wish.", Author: "Antoine de Saint-Exupéry"},
		{Text: "Success is setting goals and achieving them.", Author: "Zig Ziglar"},
	},
}

var genericQuotes = []Quote{
	{Text: "Success is going from failure to failure without losing your enthusiasm.", Author: "Winston Churchill"},
	{Text: "Discipline is the bridge between goals and accomplishment.", Author: "Jim Rohn"},
	{Text: "The most profitable investment is the one you make in yourself.", Author: "Warren Buffett"},
}

// FallbackQuote picks a curated quote for the category. It never fails.
func FallbackQuote(category Category) Quote {
	pool, ok := fallbackQuotes[category]
	if !ok || len(pool) == 0 {
		pool = genericQuotes
	}
	return pool[rand.Intn(len(pool))]
}
