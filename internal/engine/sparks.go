package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/ideaforge/internal/database"
	"github.com/shubh-37/ideaforge/internal/ideaerr"
	"github.com/shubh-37/ideaforge/internal/models"
)

// AddSpark appends an auxiliary note to the idea with its own generated id.
func (e *Engine) AddSpark(ctx context.Context, creatorID, id, title, text string) (*models.Spark, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ideaerr.NewInvalidRequest("Spark text is required.")
	}
	if title == "" {
		title = "New Spark"
	}

	spark := &models.Spark{
		ID:        uuid.New().String(),
		Title:     title,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	rows, err := e.store.UpdateFields(ctx, id, creatorID, database.FieldUpdate{
		Push: map[string]any{database.FieldSmallerSparks: spark},
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ideaerr.NewNotFound()
	}

	return spark, nil
}

// DeleteSpark removes the spark with the given id, if present.
func (e *Engine) DeleteSpark(ctx context.Context, creatorID, id, sparkID string) error {
	rows, err := e.store.UpdateFields(ctx, id, creatorID, database.FieldUpdate{
		Pull: map[string]string{database.FieldSmallerSparks: sparkID},
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return ideaerr.NewNotFound()
	}
	return nil
}
