package ai

import (
	"encoding/json"
	"strings"

	"github.com/shubh-37/ideaforge/internal/ideaerr"
)

// ExtractRawJSON locates the JSON object inside model output, tolerating
// markdown code fences and surrounding prose.
func ExtractRawJSON(text string) (json.RawMessage, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end < start {
		return nil, ideaerr.NewAdapterFatal("model response contained no JSON object", nil)
	}

	raw := json.RawMessage(cleaned[start : end+1])
	if !json.Valid(raw) {
		return nil, ideaerr.NewAdapterFatal("model response contained malformed JSON", nil)
	}
	return raw, nil
}

// ExtractJSON extracts and decodes the JSON object inside model output into v.
func ExtractJSON(text string, v any) error {
	raw, err := ExtractRawJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return ideaerr.NewAdapterFatal("failed to parse model response", err)
	}
	return nil
}
