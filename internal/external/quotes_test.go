package external

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dvloznov/revelation/internal/insights"
)

func newTestQuotesClient(t *testing.T, handler http.HandlerFunc) *ZenQuotesClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewZenQuotesClient(zerolog.New(&bytes.Buffer{}))
	client.baseURL = server.URL
	return client
}

func TestRandomQuote(t *testing.T) {
	client := newTestQuotesClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"q": "Fortune favors the prepared", "a": "Pasteur"}]`))
	})

	got, err := client.RandomQuote(context.Background(), insights.CategorySaving)
	if err != nil {
		t.Fatalf("RandomQuote failed: %v", err)
	}
	if got.Text != "Fortune favors the prepared" {
		t.Errorf("Text = %q, want the served quote", got.Text)
	}
	if got.Author != "Pasteur" {
		t.Errorf("Author = %q, want Pasteur", got.Author)
	}
}

func TestRandomQuote_CachesPerCategory(t *testing.T) {
	var hits int
	client := newTestQuotesClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`[{"q": "once", "a": "cache"}]`))
	})

	for i := 0; i < 3; i++ {
		if _, err := client.RandomQuote(context.Background(), insights.CategorySpending); err != nil {
			t.Fatalf("RandomQuote failed: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("server saw %d requests for one category, want 1", hits)
	}

	if _, err := client.RandomQuote(context.Background(), insights.CategoryGoals); err != nil {
		t.Fatalf("RandomQuote failed: %v", err)
	}
	if hits != 2 {
		t.Errorf("server saw %d requests after a second category, want 2", hits)
	}
}

func TestRandomQuote_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not": "an array"}`))
			},
		},
		{
			name: "empty array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[]`))
			},
		},
		{
			name: "blank quote",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"q": "", "a": "nobody"}]`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestQuotesClient(t, tt.handler)
			if _, err := client.RandomQuote(context.Background(), insights.CategorySaving); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
