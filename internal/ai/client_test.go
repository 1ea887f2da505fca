package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func textResponse(text string) geminiResponse {
	resp := geminiResponse{}
	resp.Candidates = []struct {
		Content geminiContent `json:"content"`
	}{
		{Content: geminiContent{Role: "model", Parts: []geminiPart{{Text: text}}}},
	}
	return resp
}

func TestGenerate_RetriesRateLimit(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		switch calls {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 429, "message": "Please retry in 5s.", "status": "RESOURCE_EXHAUSTED"},
			})
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 429, "message": "Resource has been exhausted", "status": "RESOURCE_EXHAUSTED"},
			})
		default:
			json.NewEncoder(w).Encode(textResponse("generated text"))
		}
	}))
	defer ts.Close()

	var sleeps []time.Duration
	c := &Client{
		apiKey:     "test-key",
		model:      defaultModel,
		baseURL:    ts.URL,
		httpClient: ts.Client(),
		sleep:      func(d time.Duration) { sleeps = append(sleeps, d) },
	}

	got, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "generated text" {
		t.Errorf("Generate = %q", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(sleeps) != 2 || sleeps[0] != 5*time.Second+waitHintBuffer || sleeps[1] != initialBackoff {
		t.Errorf("sleeps = %v", sleeps)
	}
}

func TestGenerate_FatalErrorNotRetried(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"},
		})
	}))
	defer ts.Close()

	c := &Client{
		apiKey:     "bad-key",
		model:      defaultModel,
		baseURL:    ts.URL,
		httpClient: ts.Client(),
		sleep:      func(time.Duration) { t.Fatal("should not sleep on a fatal error") },
	}

	if _, err := c.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestChat_TruncatesToFirstUserTurn(t *testing.T) {
	var received geminiRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(textResponse("answer"))
	}))
	defer ts.Close()

	c := &Client{
		apiKey:     "test-key",
		model:      defaultModel,
		baseURL:    ts.URL,
		httpClient: ts.Client(),
		sleep:      func(time.Duration) {},
	}

	history := []Message{
		{Role: "assistant", Text: "Welcome! How can I help?"},
		{Role: "user", Text: "Is my market big enough?"},
		{Role: "assistant", Text: "It depends on the segment."},
	}
	answer, err := c.Chat(context.Background(), history, "What about Europe?")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if answer != "answer" {
		t.Errorf("answer = %q", answer)
	}

	// The leading assistant turn is dropped; the rest map over in order with
	// the new message appended.
	if len(received.Contents) != 3 {
		t.Fatalf("contents = %d turns, want 3", len(received.Contents))
	}
	if received.Contents[0].Role != "user" {
		t.Errorf("first turn role = %q, want user", received.Contents[0].Role)
	}
	if received.Contents[1].Role != "model" {
		t.Errorf("second turn role = %q, want model", received.Contents[1].Role)
	}
	last := received.Contents[2]
	if last.Role != "user" || last.Parts[0].Text != "What about Europe?" {
		t.Errorf("last turn = %+v", last)
	}
}
