package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shubh-37/ideaforge/internal/database"
	"github.com/shubh-37/ideaforge/internal/ideaerr"
	"github.com/shubh-37/ideaforge/internal/models"
)

// CreateIdea persists a new raw idea (title + description only).
func (e *Engine) CreateIdea(ctx context.Context, creatorID, title, description string) (*models.Idea, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, ideaerr.NewInvalidRequest("Title and description are required.")
	}

	idea := &models.Idea{
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
	}
	if err := e.store.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to save the idea spark: %w", err)
	}

	log.Printf("New Spark Created: %s | User: %s | ID: %s", idea.Title, creatorID, idea.ID)
	return idea, nil
}

// ListIdeas returns the creator's ideas, newest first.
func (e *Engine) ListIdeas(ctx context.Context, creatorID string) ([]*models.Idea, error) {
	return e.store.ListByCreator(ctx, creatorID)
}

// UpdateIdea updates the core title/description fields.
func (e *Engine) UpdateIdea(ctx context.Context, creatorID, id, title, description string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return ideaerr.NewInvalidRequest("Title and description are required.")
	}

	rows, err := e.store.UpdateFields(ctx, id, creatorID, database.FieldUpdate{
		Set: map[string]any{
			database.FieldTitle:       title,
			database.FieldDescription: description,
		},
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return ideaerr.NewNotFound()
	}
	return nil
}

// DeleteIdea hard-deletes an idea.
func (e *Engine) DeleteIdea(ctx context.Context, creatorID, id string) error {
	rows, err := e.store.Delete(ctx, id, creatorID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ideaerr.NewNotFound()
	}
	return nil
}
