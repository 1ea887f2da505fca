package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

const defaultBaseURL = "https://api.tavily.com/search"

// Result is a market research payload. Degraded marks the static fallback
// returned when the provider is unavailable; callers must not cache it.
type Result struct {
	Competitors []string
	Trends      []string
	Context     string
	Degraded    bool
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// ResearchMarket queries the search provider for market context. It never
// fails: provider errors degrade to a static payload so enrichment can
// proceed without market grounding.
func (c *Client) ResearchMarket(ctx context.Context, title, description string) *Result {
	if len(description) > 100 {
		description = description[:100]
	}
	query := fmt.Sprintf("top 5 market outlooks and viability risks for idea: %s - %s", title, description)
	log.Printf("[Neural Research] Live Search for: %s", query)

	if c.apiKey == "" {
		log.Println("TAVILY_API_KEY is missing; falling back to general knowledge")
		return fallbackResult()
	}

	resp, err := c.search(ctx, query)
	if err != nil {
		log.Printf("Tavily Research Error: %v", err)
		return fallbackResult()
	}

	return &Result{
		Competitors: extractCompetitors(resp),
		Trends:      extractTrends(resp),
		Context:     extractContext(resp),
	}
}

func (c *Client) search(ctx context.Context, query string) (*tavilyResponse, error) {
	jsonData, err := json.Marshal(tavilyRequest{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   "advanced",
		MaxResults:    5,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Tavily API: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d", httpResp.StatusCode)
	}

	resp := &tavilyResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return resp, nil
}

// extractCompetitors derives competitor names from the top result domains.
func extractCompetitors(resp *tavilyResponse) []string {
	var competitors []string
	for i, r := range resp.Results {
		if i >= 3 {
			break
		}
		parsed, err := url.Parse(r.URL)
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		competitors = append(competitors, strings.TrimPrefix(parsed.Hostname(), "www."))
	}
	if len(competitors) == 0 {
		return []string{"Niche Players", "Emerging Tech"}
	}
	return competitors
}

// extractTrends takes the leading words of the top result titles.
func extractTrends(resp *tavilyResponse) []string {
	var trends []string
	for i, r := range resp.Results {
		if i >= 3 {
			break
		}
		words := strings.Fields(r.Title)
		if len(words) > 2 {
			words = words[:2]
		}
		if len(words) > 0 {
			trends = append(trends, strings.Join(words, " "))
		}
	}
	if len(trends) == 0 {
		return []string{"Market Growth", "AI Integration", "User-Centric Design"}
	}
	return trends
}

func extractContext(resp *tavilyResponse) string {
	if resp.Answer != "" {
		return resp.Answer
	}
	var snippets []string
	for _, r := range resp.Results {
		if r.Content != "" {
			snippets = append(snippets, r.Content)
		}
	}
	return strings.Join(snippets, "\n\n")
}

func fallbackResult() *Result {
	return &Result{
		Competitors: []string{"Competitor Discovery Failed"},
		Trends:      []string{"Market Sentiment Analysis"},
		Context:     "Live research currently unavailable. Analysis based on general AI knowledge.",
		Degraded:    true,
	}
}
