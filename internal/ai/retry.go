package ai

import (
	"errors"
	"log"
	"regexp"
	"strconv"
	"time"
)

const (
	maxAttempts    = 5
	initialBackoff = 2 * time.Second
	waitHintBuffer = time.Second
)

// Rate-limited responses sometimes carry a suggested wait, e.g.
// "Please retry in 43.89s".
var waitHintPattern = regexp.MustCompile(`retry in ([0-9.]+)s`)

// withRetry runs call, absorbing rate-limit failures up to the attempt
// ceiling. A suggested wait from the provider is honored (plus a small
// buffer) and resets the backoff; otherwise the delay doubles each attempt.
// Any other error propagates immediately.
func (c *Client) withRetry(call func() (string, error)) (string, error) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		text, err := call()
		if err == nil {
			return text, nil
		}

		var rl *rateLimitError
		if !errors.As(err, &rl) || attempt == maxAttempts {
			return "", err
		}

		if hint, ok := waitHint(rl.message); ok {
			log.Printf("[AI Retry] API requested wait of %s. Pausing...", hint)
			c.sleep(hint + waitHintBuffer)
			backoff = initialBackoff
		} else {
			log.Printf("[AI Retry] Rate limit hit. Retrying in %s...", backoff)
			c.sleep(backoff)
			backoff *= 2
		}
	}
}

func waitHint(message string) (time.Duration, bool) {
	m := waitHintPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	secs, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}
