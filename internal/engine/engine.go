// Package engine implements the idea enrichment state machine: which adapter
// calls each transition makes, what gets written back, and what gets
// invalidated along the way.
package engine

import (
	"context"
	"encoding/json"

	"github.com/shubh-37/ideaforge/internal/ai"
	"github.com/shubh-37/ideaforge/internal/database"
	"github.com/shubh-37/ideaforge/internal/models"
	"github.com/shubh-37/ideaforge/internal/search"
)

// placeholderResearchContext stands in for market research before the first
// stress-test runs a live search. Forge never triggers a search itself.
const placeholderResearchContext = "Preliminary analysis pending Validation."

// Store is the keyed idea record store. All operations are scoped by creator;
// a mismatched creator reports zero-affected without touching the record.
type Store interface {
	Create(ctx context.Context, idea *models.Idea) error
	Get(ctx context.Context, id, creatorID string) (*models.Idea, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Idea, error)
	UpdateFields(ctx context.Context, id, creatorID string, upd database.FieldUpdate) (int64, error)
	Delete(ctx context.Context, id, creatorID string) (int64, error)
}

// AI is the LLM enrichment surface.
type AI interface {
	ForgeIdea(ctx context.Context, title, description, researchContext string) (*models.ForgeSpec, error)
	StressTestIdea(ctx context.Context, title string, spec *models.ForgeSpec, researchContext string, sparks []models.Spark) (*ai.StressTestAnalysis, error)
	ConsultOnIdea(ctx context.Context, idea *models.Idea, query, section string, history []ai.Message) (string, error)
	UpdateExpansions(ctx context.Context, idea *models.Idea, insight string) (*models.Expansions, error)
	ApplyRefinement(ctx context.Context, idea *models.Idea, section, instruction string) (json.RawMessage, error)
}

// Searcher performs market research. It degrades instead of failing.
type Searcher interface {
	ResearchMarket(ctx context.Context, title, description string) *search.Result
}

// Notifier is told when a stress-test lands a new score. Optional.
type Notifier interface {
	ScoreChanged(idea *models.Idea, score float64)
}

type Engine struct {
	store    Store
	ai       AI
	searcher Searcher
	notifier Notifier
}

func New(store Store, aiService AI, searcher Searcher, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		ai:       aiService,
		searcher: searcher,
		notifier: notifier,
	}
}
