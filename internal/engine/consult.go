package engine

import (
	"context"
	"strings"

	"github.com/shubh-37/ideaforge/internal/ai"
	"github.com/shubh-37/ideaforge/internal/ideaerr"
)

// Consult answers a free-form query grounded in the idea's accumulated state.
// It persists nothing: any suggested spec update embedded in the answer is
// the caller's to interpret and apply through an explicit Refine or spark
// call.
func (e *Engine) Consult(ctx context.Context, creatorID, id, query, section string, history []ai.Message) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ideaerr.NewInvalidRequest("Query is required.")
	}

	idea, err := e.store.Get(ctx, id, creatorID)
	if err != nil {
		return "", err
	}

	return e.ai.ConsultOnIdea(ctx, idea, query, section, history)
}
