package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
)

// Message is one turn of a consultation chat.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	sleep      func(time.Duration)
}

func NewClient(apiKey string) *Client {
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	return &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		sleep:      time.Sleep,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *geminiError `json:"error,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// rateLimitError marks a provider failure that the retry policy may absorb.
type rateLimitError struct {
	message string
}

func (e *rateLimitError) Error() string {
	return e.message
}

// Generate performs a single-shot generation call.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: prompt}}},
	}
	return c.withRetry(func() (string, error) {
		return c.generateContent(ctx, contents)
	})
}

// Chat continues a multi-turn session with the supplied history and sends
// message as the new turn. The provider requires session history to start
// with a user turn, so leading non-user turns are dropped.
func (c *Client) Chat(ctx context.Context, history []Message, message string) (string, error) {
	for len(history) > 0 && history[0].Role != "user" {
		history = history[1:]
	}

	contents := make([]geminiContent, 0, len(history)+1)
	for _, m := range history {
		role := "model"
		if m.Role == "user" {
			role = "user"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Text}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})

	return c.withRetry(func() (string, error) {
		return c.generateContent(ctx, contents)
	})
}

func (c *Client) generateContent(ctx context.Context, contents []geminiContent) (string, error) {
	jsonData, err := json.Marshal(geminiRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiResp geminiResponse
		message := fmt.Sprintf("API request failed with status %d", resp.StatusCode)
		if json.Unmarshal(body, &apiResp) == nil && apiResp.Error != nil {
			message = fmt.Sprintf("API error: %s - %s", apiResp.Error.Status, apiResp.Error.Message)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", &rateLimitError{message: message}
		}
		log.Printf("Gemini API error (status %d): %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("%s", message)
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", apiResp.Error.Status, apiResp.Error.Message)
	}

	if len(apiResp.Candidates) > 0 && len(apiResp.Candidates[0].Content.Parts) > 0 {
		return apiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("unexpected response format")
}
