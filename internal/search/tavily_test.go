package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResearchMarket_Success(t *testing.T) {
	var received tavilyRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"answer": "The pet care market is growing steadily.",
			"results": []map[string]string{
				{"url": "https://www.rover.com/blog", "title": "Pet Sitting Trends 2026", "content": "c1"},
				{"url": "https://wag.com/about", "title": "On-Demand Walking Growth", "content": "c2"},
				{"url": "https://petbacker.com", "title": "Marketplace Dynamics Report", "content": "c3"},
				{"url": "https://example.com/extra", "title": "Ignored Fourth Result", "content": "c4"},
			},
		})
	}))
	defer ts.Close()

	c := &Client{apiKey: "test-key", baseURL: ts.URL, httpClient: ts.Client()}
	result := c.ResearchMarket(context.Background(), "PetSit", "App matching pet sitters to owners")

	if result.Degraded {
		t.Fatal("result degraded on success")
	}
	if result.Context != "The pet care market is growing steadily." {
		t.Errorf("context = %q", result.Context)
	}

	wantCompetitors := []string{"rover.com", "wag.com", "petbacker.com"}
	if len(result.Competitors) != 3 {
		t.Fatalf("competitors = %v", result.Competitors)
	}
	for i, want := range wantCompetitors {
		if result.Competitors[i] != want {
			t.Errorf("competitor %d = %q, want %q", i, result.Competitors[i], want)
		}
	}

	wantTrends := []string{"Pet Sitting", "On-Demand Walking", "Marketplace Dynamics"}
	for i, want := range wantTrends {
		if result.Trends[i] != want {
			t.Errorf("trend %d = %q, want %q", i, result.Trends[i], want)
		}
	}

	if received.MaxResults != 5 || received.SearchDepth != "advanced" || !received.IncludeAnswer {
		t.Errorf("request = %+v", received)
	}
}

func TestResearchMarket_SnippetsWhenNoAnswer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"url": "https://a.com", "title": "A", "content": "first snippet"},
				{"url": "https://b.com", "title": "B", "content": "second snippet"},
			},
		})
	}))
	defer ts.Close()

	c := &Client{apiKey: "test-key", baseURL: ts.URL, httpClient: ts.Client()}
	result := c.ResearchMarket(context.Background(), "t", "d")

	if result.Context != "first snippet\n\nsecond snippet" {
		t.Errorf("context = %q", result.Context)
	}
}

func TestResearchMarket_ProviderFailureDegrades(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := &Client{apiKey: "test-key", baseURL: ts.URL, httpClient: ts.Client()}
	result := c.ResearchMarket(context.Background(), "t", "d")

	if !result.Degraded {
		t.Fatal("expected degraded result")
	}
	if result.Context == "" || len(result.Competitors) == 0 {
		t.Errorf("fallback payload incomplete: %+v", result)
	}
}

func TestResearchMarket_MissingKeyDegrades(t *testing.T) {
	c := NewClient("")
	result := c.ResearchMarket(context.Background(), "t", "d")

	if !result.Degraded {
		t.Fatal("expected degraded result without an API key")
	}
}

func TestResearchMarket_TruncatesLongDescription(t *testing.T) {
	var query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		json.NewDecoder(r.Body).Decode(&req)
		query = req.Query
		json.NewEncoder(w).Encode(map[string]any{"answer": "ok"})
	}))
	defer ts.Close()

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}

	c := &Client{apiKey: "test-key", baseURL: ts.URL, httpClient: ts.Client()}
	c.ResearchMarket(context.Background(), "t", string(long))

	// 100 chars of description plus the query preamble.
	if len(query) > 200 {
		t.Errorf("query too long: %d chars", len(query))
	}
}
