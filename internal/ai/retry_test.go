package ai

import (
	"errors"
	"testing"
	"time"
)

func testClient(sleeps *[]time.Duration) *Client {
	return &Client{
		apiKey:  "test-key",
		model:   defaultModel,
		baseURL: defaultBaseURL,
		sleep: func(d time.Duration) {
			*sleeps = append(*sleeps, d)
		},
	}
}

func TestWithRetry_HintedWaitThenBackoff(t *testing.T) {
	var sleeps []time.Duration
	c := testClient(&sleeps)

	attempts := 0
	got, err := c.withRetry(func() (string, error) {
		attempts++
		switch attempts {
		case 1:
			return "", &rateLimitError{message: "API error: RESOURCE_EXHAUSTED - Please retry in 5s."}
		case 2:
			return "", &rateLimitError{message: "API error: RESOURCE_EXHAUSTED - quota exceeded"}
		default:
			return "ok", nil
		}
	})
	if err != nil {
		t.Fatalf("withRetry failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("result = %q, want %q", got, "ok")
	}

	if len(sleeps) != 2 {
		t.Fatalf("slept %d times, want 2", len(sleeps))
	}
	// Suggested wait plus the fixed buffer.
	if sleeps[0] != 5*time.Second+waitHintBuffer {
		t.Errorf("first sleep = %s, want %s", sleeps[0], 5*time.Second+waitHintBuffer)
	}
	// The hinted wait reset the backoff, so the second delay is the initial one.
	if sleeps[1] != initialBackoff {
		t.Errorf("second sleep = %s, want %s", sleeps[1], initialBackoff)
	}
}

func TestWithRetry_ExponentialBackoff(t *testing.T) {
	var sleeps []time.Duration
	c := testClient(&sleeps)

	attempts := 0
	_, err := c.withRetry(func() (string, error) {
		attempts++
		if attempts < 4 {
			return "", &rateLimitError{message: "rate limited"}
		}
		return "done", nil
	})
	if err != nil {
		t.Fatalf("withRetry failed: %v", err)
	}

	want := []time.Duration{initialBackoff, 2 * initialBackoff, 4 * initialBackoff}
	if len(sleeps) != len(want) {
		t.Fatalf("slept %d times, want %d", len(sleeps), len(want))
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d = %s, want %s", i, sleeps[i], want[i])
		}
	}
}

func TestWithRetry_NonRateLimitPropagatesImmediately(t *testing.T) {
	var sleeps []time.Duration
	c := testClient(&sleeps)

	wantErr := errors.New("API error: INVALID_ARGUMENT - bad request")
	attempts := 0
	_, err := c.withRetry(func() (string, error) {
		attempts++
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if len(sleeps) != 0 {
		t.Errorf("slept %d times, want 0", len(sleeps))
	}
}

func TestWithRetry_AttemptCeiling(t *testing.T) {
	var sleeps []time.Duration
	c := testClient(&sleeps)

	attempts := 0
	_, err := c.withRetry(func() (string, error) {
		attempts++
		return "", &rateLimitError{message: "rate limited"}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != maxAttempts {
		t.Errorf("attempts = %d, want %d", attempts, maxAttempts)
	}
	if len(sleeps) != maxAttempts-1 {
		t.Errorf("slept %d times, want %d", len(sleeps), maxAttempts-1)
	}
}

func TestWaitHint(t *testing.T) {
	tests := []struct {
		message string
		want    time.Duration
		ok      bool
	}{
		{"Please retry in 43.89s.", time.Duration(43.89 * float64(time.Second)), true},
		{"Please retry in 5s", 5 * time.Second, true},
		{"quota exceeded", 0, false},
	}

	for _, tt := range tests {
		got, ok := waitHint(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("waitHint(%q) = (%s, %v), want (%s, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}
