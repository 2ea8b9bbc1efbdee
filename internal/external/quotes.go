package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/dvloznov/revelation/internal/insights"
)

const (
	zenQuotesURL  = "https://zenquotes.io/api/random"
	quoteCacheTTL = time.Hour
	quoteCacheCap = 16
)

// ZenQuotesClient fetches motivational quotes from the free ZenQuotes API
// (rate limited to 5 requests/30s), caching one quote per category for an
// hour to stay under the limit. It implements insights.QuoteProvider.
type ZenQuotesClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *expirable.LRU[string, insights.Quote]
	log        zerolog.Logger
}

// NewZenQuotesClient creates a client with a bounded-timeout HTTP client.
func NewZenQuotesClient(log zerolog.Logger) *ZenQuotesClient {
	return &ZenQuotesClient{
		baseURL:    zenQuotesURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      expirable.NewLRU[string, insights.Quote](quoteCacheCap, nil, quoteCacheTTL),
		log:        log,
	}
}

// zenQuoteEntry is one element of the ZenQuotes response array.
type zenQuoteEntry struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// RandomQuote implements insights.QuoteProvider. Any network, HTTP or
// decode failure is returned to the caller, which falls back to the local
// pools.
func (c *ZenQuotesClient) RandomQuote(ctx context.Context, category insights.Category) (insights.Quote, error) {
	cacheKey := "quote-" + string(category)
	if q, ok := c.cache.Get(cacheKey); ok {
		return q, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return insights.Quote{}, fmt.Errorf("RandomQuote: building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return insights.Quote{}, fmt.Errorf("RandomQuote: fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return insights.Quote{}, fmt.Errorf("RandomQuote: HTTP %d", resp.StatusCode)
	}

	var entries []zenQuoteEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return insights.Quote{}, fmt.Errorf("RandomQuote: decoding response: %w", err)
	}
	if len(entries) == 0 || entries[0].Q == "" {
		return insights.Quote{}, fmt.Errorf("RandomQuote: empty response")
	}

	quote := insights.Quote{Text: entries[0].Q, Author: entries[0].A}
	c.cache.Add(cacheKey, quote)
	return quote, nil
}

// Ensure ZenQuotesClient implements the provider interface.
var _ insights.QuoteProvider = (*ZenQuotesClient)(nil)
