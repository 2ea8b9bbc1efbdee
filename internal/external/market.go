package external

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// MarketSentiment is a coarse read of financial-news mood. The insights
// core never depends on it for correctness; endpoints serving it always
// have a neutral fallback.
type MarketSentiment struct {
	Sentiment      string  `json:"sentiment"` // positive | neutral | negative
	Confidence     float64 `json:"confidence"`
	Summary        string  `json:"summary"`
	Recommendation string  `json:"recommendation"`
}

// IndicatorReading is one economic indicator estimate.
type IndicatorReading struct {
	Rate  float64 `json:"rate"`
	Trend string  `json:"trend"`
}

// EconomicIndicators groups the indicator estimates served by the API.
type EconomicIndicators struct {
	Indicators map[string]IndicatorReading `json:"indicators"`
	Source     string                      `json:"source"`
	Updated    time.Time                   `json:"lastUpdated"`
}

// MarketClient fetches news sentiment from Alpha Vantage when an API key
// is configured and degrades to fixed estimates otherwise.
type MarketClient struct {
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewMarketClient creates a market data client. An empty apiKey is valid
// and means every call returns the fallback data.
func NewMarketClient(apiKey string, log zerolog.Logger) *MarketClient {
	return &MarketClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

type sentimentFeedItem struct {
	OverallSentimentScore json.Number `json:"overall_sentiment_score"`
}

type sentimentResponse struct {
	Feed []sentimentFeedItem `json:"feed"`
}

// Sentiment returns the current news sentiment, never an error: any
// failure yields the neutral fallback.
func (c *MarketClient) Sentiment(ctx context.Context) MarketSentiment {
	if c.apiKey == "" {
		return fallbackSentiment()
	}

	endpoint := "https://www.alphavantage.co/query?" + url.Values{
		"function": {"NEWS_SENTIMENT"},
		"apikey":   {c.apiKey},
		"limit":    {"5"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fallbackSentiment()
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to fetch market sentiment")
		return fallbackSentiment()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("Market sentiment request rejected")
		return fallbackSentiment()
	}

	var payload sentimentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Feed) == 0 {
		return fallbackSentiment()
	}
	return summarizeSentiment(payload.Feed)
}

// Indicators returns the economic indicator estimates. Only fixed
// estimates are wired for now; a FRED-backed fetch can replace them
// without changing the shape.
func (c *MarketClient) Indicators() EconomicIndicators {
	return EconomicIndicators{
		Indicators: map[string]IndicatorReading{
			"inflation":    {Rate: 2.1, Trend: "stable"},
			"interestRate": {Rate: 3.5, Trend: "increasing"},
			"unemployment": {Rate: 7.2, Trend: "decreasing"},
			"gdpGrowth":    {Rate: 1.8, Trend: "stable"},
		},
		Source:  "Estimated Data",
		Updated: time.Now().UTC(),
	}
}

func summarizeSentiment(feed []sentimentFeedItem) MarketSentiment {
	var total float64
	var count int
	for _, item := range feed {
		s := item.OverallSentimentScore.String()
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		total += v
		count++
	}
	if count == 0 {
		return fallbackSentiment()
	}

	average := total / float64(count)
	sentiment := "neutral"
	recommendation := "Stable market, keep your current investment strategy"
	switch {
	case average > 0.1:
		sentiment = "positive"
		recommendation = "Favorable investment climate, but stay prudent"
	case average < -0.1:
		sentiment = "negative"
		recommendation = "Uncertain period, favor prudence and diversification"
	}

	return MarketSentiment{
		Sentiment:      sentiment,
		Confidence:     math.Min(0.9, math.Abs(average)+0.5),
		Summary:        fmt.Sprintf("Market sentiment is %s based on %d news sources", sentiment, count),
		Recommendation: recommendation,
	}
}

func fallbackSentiment() MarketSentiment {
	return MarketSentiment{
		Sentiment:      "neutral",
		Confidence:     0.7,
		Summary:        "Moderate market sentiment with some uncertainty",
		Recommendation: "Keep a balanced approach to your investments",
	}
}
